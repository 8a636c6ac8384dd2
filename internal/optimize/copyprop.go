package optimize

import (
	"tacc/internal/dataflow"
	"tacc/internal/ir"
)

// CopyPropagate runs dataflow.AvailableCopies and then, walking each block
// forward from its AvailIn set, rewrites every use of a copy's result with
// its source wherever the pair is currently available — recomputing the
// locally-available set statement by statement exactly like the original's
// doCprop, which re-derives gen/kill at each statement as it walks the
// block rather than using a single pre-computed set for the whole block.
func CopyPropagate(fn *ir.Function, lits *ir.LiteralPool) bool {
	dataflow.AvailableCopies(fn)

	changed := false
	globals := dataflow.GlobalScalars(fn)

	for _, b := range fn.Blocks {
		available := map[*ir.Symbol]*ir.Symbol{} // result -> source
		for p, ok := range b.AvailIn {
			if ok {
				available[p.Result] = p.Source
			}
		}

		for _, e := range b.Elements() {
			stmt := ir.At(e)
			if rewriteUses(stmt, available) {
				changed = true
			}

			switch s := stmt.(type) {
			case *ir.Copy:
				for result, source := range available {
					if result == s.Result || source == s.Result {
						delete(available, result)
					}
				}
				available[s.Result] = s.Expr
			case *ir.Call:
				for result, source := range available {
					if result == s.Result || source == s.Result {
						delete(available, result)
					}
				}
				for g := range globals {
					for result, source := range available {
						if result == g || source == g {
							delete(available, result)
						}
					}
				}
			default:
				if k := dataflow.Kill(stmt); k != nil {
					for result, source := range available {
						if result == k || source == k {
							delete(available, result)
						}
					}
				}
			}
		}
	}
	return changed
}

// rewriteUses replaces every Symbol a statement reads with the symbol it is
// currently an available copy of, mirroring each variant's cprop method in
// Statement.h (Binary/Unary/Copy/Call/Return/Branch each rewrite their own
// operand fields the same way).
func rewriteUses(stmt ir.Statement, available map[*ir.Symbol]*ir.Symbol) bool {
	changed := false
	replace := func(sym **ir.Symbol) {
		if src, ok := available[*sym]; ok {
			*sym = src
			changed = true
		}
	}

	switch s := stmt.(type) {
	case *ir.Branch:
		replace(&s.Left)
		replace(&s.Right)
	case *ir.Binary:
		replace(&s.Left)
		replace(&s.Right)
	case *ir.Unary:
		replace(&s.Expr)
	case *ir.Copy:
		replace(&s.Expr)
	case *ir.Index:
		replace(&s.Array)
		replace(&s.Idx)
	case *ir.Update:
		replace(&s.Array)
		replace(&s.Idx)
		replace(&s.Expr)
	case *ir.Return:
		if s.Expr != nil {
			replace(&s.Expr)
		}
	case *ir.Call:
		for i := range s.Args {
			replace(&s.Args[i])
		}
	}
	return changed
}
