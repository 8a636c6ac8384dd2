package dataflow

import "tacc/internal/ir"

// AvailableExpressions runs forward, must available-expressions analysis
// over (op, left, right) tuples (spec §4.3). It is analogous to
// AvailableCopies but keyed on ExprKey, and is wired only to the optional
// CSE pass — nothing else in the driver depends on it, matching spec §9's
// instruction to ship CSE disabled by default.
func AvailableExpressions(fn *ir.Function) {
	globals := GlobalScalars(fn)
	universe := allExprKeys(fn)

	for _, b := range fn.Blocks {
		gen := map[ir.ExprKey]bool{}
		kill := map[ir.ExprKey]bool{}
		for _, stmt := range b.Stmts() {
			g, k := exprGenKill(stmt, universe, globals)
			for e := range k {
				kill[e] = true
				delete(gen, e)
			}
			if g != nil {
				gen[*g] = true
			}
		}
		b.DEExprs = gen
		b.ExprKill = kill
	}

	full := map[ir.ExprKey]bool{}
	for _, k := range universe {
		full[k] = true
	}
	for _, b := range fn.Blocks {
		if b == fn.Entry {
			b.AvailInExp = map[ir.ExprKey]bool{}
		} else {
			b.AvailInExp = cloneExprSet(full)
		}
	}

	changed := true
	for changed {
		changed = false
		for _, b := range fn.Blocks {
			if b == fn.Entry {
				continue
			}
			var next map[ir.ExprKey]bool
			for i, pred := range b.Preds {
				surviving := map[ir.ExprKey]bool{}
				for k := range pred.AvailInExp {
					if !pred.ExprKill[k] {
						surviving[k] = true
					}
				}
				for k := range pred.DEExprs {
					surviving[k] = true
				}
				if i == 0 {
					next = surviving
				} else {
					next = intersectExprSet(next, surviving)
				}
			}
			if next == nil {
				next = map[ir.ExprKey]bool{}
			}
			if !sameExprSet(next, b.AvailInExp) {
				b.AvailInExp = next
				changed = true
			}
		}
	}
}

func cloneExprSet(m map[ir.ExprKey]bool) map[ir.ExprKey]bool {
	out := make(map[ir.ExprKey]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func intersectExprSet(a, b map[ir.ExprKey]bool) map[ir.ExprKey]bool {
	out := map[ir.ExprKey]bool{}
	for k := range a {
		if b[k] {
			out[k] = true
		}
	}
	return out
}

func sameExprSet(a, b map[ir.ExprKey]bool) bool {
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

func exprGenKill(stmt ir.Statement, universe []ir.ExprKey, globals map[*ir.Symbol]bool) (gen *ir.ExprKey, killed map[ir.ExprKey]bool) {
	killed = map[ir.ExprKey]bool{}

	touches := func(sym *ir.Symbol) {
		if sym == nil {
			return
		}
		for _, e := range universe {
			if e.Left == sym || e.Right == sym {
				killed[e] = true
			}
		}
	}

	switch s := stmt.(type) {
	case *ir.Binary:
		touches(s.Result)
		gen = &ir.ExprKey{Op: s.Op, Left: s.Left, Right: s.Right}
	case *ir.Call:
		touches(s.Result)
		for g := range globals {
			touches(g)
		}
	default:
		touches(Kill(stmt))
	}
	return gen, killed
}

func allExprKeys(fn *ir.Function) []ir.ExprKey {
	seen := map[ir.ExprKey]bool{}
	var out []ir.ExprKey
	for _, stmt := range fn.Stmts.Slice() {
		if b, ok := stmt.(*ir.Binary); ok {
			k := ir.ExprKey{Op: b.Op, Left: b.Left, Right: b.Right}
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}
