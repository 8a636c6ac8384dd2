package dataflow

import "tacc/internal/ir"

// LiveVariables runs backward, may live-variable analysis over fn's current
// CFG (spec §4.3) and stores UEVar/VarKill/LiveOut directly on each Block.
func LiveVariables(fn *ir.Function) {
	globals := GlobalScalars(fn)

	for _, b := range fn.Blocks {
		b.UEVar, b.VarKill = ueVarAndVarKill(b, globals)
	}

	for _, b := range fn.Blocks {
		b.LiveOut = map[*ir.Symbol]bool{}
	}
	for s := range globals {
		fn.Exit.LiveOut[s] = true
	}

	// Reverse-postorder converges fastest but any order is sound; we walk
	// blocks in reverse textual order, which approximates RPO for the
	// structured control flow the translator emits.
	changed := true
	for changed {
		changed = false
		for i := len(fn.Blocks) - 1; i >= 0; i-- {
			b := fn.Blocks[i]
			if b == fn.Exit {
				// The exit keeps its globals seed; it has no successors.
				continue
			}
			next := map[*ir.Symbol]bool{}
			for _, succ := range b.Succs {
				for s := range succ.UEVar {
					next[s] = true
				}
				for s := range succ.LiveOut {
					if !succ.VarKill[s] {
						next[s] = true
					}
				}
			}
			if !sameSet(next, b.LiveOut) {
				b.LiveOut = next
				changed = true
			}
		}
	}
}

// ueVarAndVarKill walks a block's statements in reverse, building the
// upward-exposed-use and locally-killed sets exactly per spec §4.3: a
// statement's own kill is applied before its uses are folded in, so a use is
// upward-exposed unless an earlier statement in program order (i.e. one
// processed later in this backward walk) kills it — not a later one. Call
// statements additionally treat every non-function global as an implicit
// use.
func ueVarAndVarKill(b *ir.Block, globals map[*ir.Symbol]bool) (ueVar, varKill map[*ir.Symbol]bool) {
	ueVar = map[*ir.Symbol]bool{}
	varKill = map[*ir.Symbol]bool{}

	stmts := b.Stmts()
	for i := len(stmts) - 1; i >= 0; i-- {
		stmt := stmts[i]
		k := Kill(stmt)
		if k != nil {
			varKill[k] = true
			delete(ueVar, k)
		}

		for _, g := range Uses(stmt) {
			if g == nil || ir.IsNumber(g) {
				continue
			}
			ueVar[g] = true
		}
		if IsCall(stmt) {
			for g := range globals {
				ueVar[g] = true
			}
		}
	}
	return ueVar, varKill
}

// GlobalScalars returns the non-function GLOBAL symbols visible from fn's
// local scope — the set that seeds the exit block's LiveOut and that Call
// statements implicitly use and kill copies of.
func GlobalScalars(fn *ir.Function) map[*ir.Symbol]bool {
	out := map[*ir.Symbol]bool{}
	for scope := fn.Locals; scope != nil; scope = scope.Enclosing() {
		for _, s := range scope.Symbols() {
			if ir.IsGlobalScalar(s) {
				out[s] = true
			}
		}
	}
	return out
}

func sameSet(a, b map[*ir.Symbol]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
