package optimize

import (
	"tacc/internal/dataflow"
	"tacc/internal/ir"
)

// CommonSubexpressionEliminate rewrites a Binary statement to a Copy
// whenever some earlier statement in the same block already computed its
// (op, left, right) tuple, tracking the symbol that holds each expression's
// value as it walks the block forward. Disabled by default in the driver
// (spec §4.5, §9 — CSE is `0` in the original's opflgs.h too).
//
// dataflow.AvailableExpressions is still run first so ExprKill/DEExprs stay
// current for any future cross-block extension, matching the original's
// doCSE, which likewise calls doAvailExprs but never actually substitutes
// anything across block boundaries — the boolean DEExprs/AvailIn sets it
// computes record only whether a tuple is available, not which symbol holds
// it, so the original's own implementation never answers "available from
// where"; rewriting here is correspondingly scoped to a single block, where
// the holder symbol is still in hand as we walk forward.
//
// Every statement's kill invalidates any holder entry whose operand or
// holder symbol it redefines before that statement is otherwise considered,
// and a Binary whose result is one of its own operands is not recorded as a
// holder, so a tuple is never reused across a redefinition of one of its
// operands or of the symbol holding it.
func CommonSubexpressionEliminate(fn *ir.Function, lits *ir.LiteralPool) bool {
	dataflow.AvailableExpressions(fn)

	changed := false
	for _, b := range fn.Blocks {
		holder := map[ir.ExprKey]*ir.Symbol{}

		for _, e := range b.Elements() {
			stmt := ir.At(e)

			if k := dataflow.Kill(stmt); k != nil {
				for key, sym := range holder {
					if key.Left == k || key.Right == k || sym == k {
						delete(holder, key)
					}
				}
			}

			bin, ok := stmt.(*ir.Binary)
			if !ok {
				continue
			}
			key := ir.ExprKey{Op: bin.Op, Left: bin.Left, Right: bin.Right}
			if sym, ok := holder[key]; ok {
				fn.Stmts.Set(e, &ir.Copy{Result: bin.Result, Expr: sym})
				changed = true
			} else if bin.Result != bin.Left && bin.Result != bin.Right {
				holder[key] = bin.Result
			}
		}
	}
	return changed
}
