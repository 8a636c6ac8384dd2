package optimize

import (
	"tacc/internal/dataflow"
	"tacc/internal/ir"
)

// DeadCodeEliminate runs the two DCE stages from the original's doDCE:
// useless-code elimination (drop a kill whose result is never subsequently
// used, walking each block backward from LiveOut) followed by unreachable-
// code elimination (drop every block no longer reachable from Entry by a
// DFS over Succs). Grounded on optimizer.cpp's doDCE/doDFS.
func DeadCodeEliminate(fn *ir.Function, lits *ir.LiteralPool) bool {
	changed := eliminateUselessCode(fn)
	if eliminateUnreachableCode(fn) {
		changed = true
	}
	return changed
}

// eliminateUselessCode walks each block backward from LiveOut, dropping any
// statement whose kill symbol is not live at that point. Calls are never
// dropped even when their result is unused, since they may have side
// effects the removed Result alone does not capture (spec §4.4) — a case
// the original's doDCE does not special-case at all (it deletes a Call the
// same as any other kill once the result is dead, silently discarding the
// call itself); the Go version fixes that.
func eliminateUselessCode(fn *ir.Function) bool {
	changed := false
	for _, b := range fn.Blocks {
		live := map[*ir.Symbol]bool{}
		for s := range b.LiveOut {
			live[s] = true
		}

		elems := b.Elements()
		for i := len(elems) - 1; i >= 0; i-- {
			e := elems[i]
			stmt := ir.At(e)
			k := dataflow.Kill(stmt)

			if k != nil {
				wasLive := live[k]
				delete(live, k)
				if !wasLive && !dataflow.IsCall(stmt) {
					fn.Stmts.Remove(e)
					changed = true
					continue
				}
			}

			for _, u := range dataflow.Uses(stmt) {
				if u != nil && !ir.IsNumber(u) {
					live[u] = true
				}
			}
		}
	}
	return changed
}

// eliminateUnreachableCode drops every statement belonging to a block that
// a DFS from Entry over Succs never reaches.
func eliminateUnreachableCode(fn *ir.Function) bool {
	reached := map[*ir.Block]bool{}
	var walk func(b *ir.Block)
	walk = func(b *ir.Block) {
		if reached[b] {
			return
		}
		reached[b] = true
		for _, s := range b.Succs {
			walk(s)
		}
	}
	walk(fn.Entry)

	changed := false
	for _, b := range fn.Blocks {
		if reached[b] {
			continue
		}
		for _, e := range b.Elements() {
			fn.Stmts.Remove(e)
			changed = true
		}
	}
	return changed
}
