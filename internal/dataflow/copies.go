package dataflow

import "tacc/internal/ir"

// copyGenKill returns the (result, source) pair a Copy statement generates,
// plus the set of pairs a statement kills because it redefines their result
// or source. universe is every Copy pair in the function — the set spec
// §4.3 calls U.
func copyGenKill(stmt ir.Statement, universe []ir.CopyPair, globals map[*ir.Symbol]bool) (gen *ir.CopyPair, killed map[ir.CopyPair]bool) {
	killed = map[ir.CopyPair]bool{}

	touches := func(sym *ir.Symbol) {
		if sym == nil {
			return
		}
		for _, p := range universe {
			if p.Result == sym || p.Source == sym {
				killed[p] = true
			}
		}
	}

	switch s := stmt.(type) {
	case *ir.Copy:
		touches(s.Result)
		gen = &ir.CopyPair{Result: s.Result, Source: s.Expr}
	case *ir.Call:
		touches(s.Result)
		for g := range globals {
			if ir.IsGlobalScalar(g) {
				touches(g)
			}
		}
	default:
		touches(Kill(stmt))
	}
	return gen, killed
}

// AvailableCopies runs forward, must available-copies analysis (spec §4.3)
// and stores DECopies/CopyKill/AvailIn on each Block. AvailIn(entry) is
// always empty; every other block starts at the universe U.
func AvailableCopies(fn *ir.Function) {
	globals := GlobalScalars(fn)
	universe := allCopyPairs(fn)

	for _, b := range fn.Blocks {
		gen := map[ir.CopyPair]bool{}
		kill := map[ir.CopyPair]bool{}
		for _, stmt := range b.Stmts() {
			g, k := copyGenKill(stmt, universe, globals)
			for p := range k {
				kill[p] = true
				delete(gen, p)
			}
			if g != nil {
				gen[*g] = true
			}
		}
		b.DECopies = gen
		b.CopyKill = kill
	}

	full := map[ir.CopyPair]bool{}
	for _, p := range universe {
		full[p] = true
	}
	for _, b := range fn.Blocks {
		if b == fn.Entry {
			b.AvailIn = map[ir.CopyPair]bool{}
		} else {
			b.AvailIn = cloneSet(full)
		}
	}

	changed := true
	for changed {
		changed = false
		for _, b := range fn.Blocks {
			if b == fn.Entry {
				continue
			}
			var next map[ir.CopyPair]bool
			for i, pred := range b.Preds {
				surviving := map[ir.CopyPair]bool{}
				for p := range pred.AvailIn {
					if !pred.CopyKill[p] {
						surviving[p] = true
					}
				}
				for p := range pred.DECopies {
					surviving[p] = true
				}
				if i == 0 {
					next = surviving
				} else {
					next = intersect(next, surviving)
				}
			}
			if next == nil {
				next = map[ir.CopyPair]bool{}
			}
			if !sameCopySet(next, b.AvailIn) {
				b.AvailIn = next
				changed = true
			}
		}
	}
}

func allCopyPairs(fn *ir.Function) []ir.CopyPair {
	seen := map[ir.CopyPair]bool{}
	var out []ir.CopyPair
	for _, stmt := range fn.Stmts.Slice() {
		if c, ok := stmt.(*ir.Copy); ok {
			p := ir.CopyPair{Result: c.Result, Source: c.Expr}
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

func cloneSet(m map[ir.CopyPair]bool) map[ir.CopyPair]bool {
	out := make(map[ir.CopyPair]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func intersect(a, b map[ir.CopyPair]bool) map[ir.CopyPair]bool {
	out := map[ir.CopyPair]bool{}
	for k := range a {
		if b[k] {
			out[k] = true
		}
	}
	return out
}

func sameCopySet(a, b map[ir.CopyPair]bool) bool {
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
