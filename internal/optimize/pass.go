// Package optimize implements the local fixed-point optimizer: algebraic
// simplification, constant folding, per-block local value numbering, copy
// propagation, dead-code elimination, and an optional common-subexpression
// pass, driven to a fixed point over the statement list (spec §4.4, §4.5).
// Grounded on the original's optimizer.cpp, whose `optimizeStatements`
// drives exactly these passes in this order behind the same enable flags.
package optimize

import "tacc/internal/ir"

// Pass is one fixed-point iteration step. It mutates fn.Stmts in place and
// reports whether it changed anything; lits mints any new literal Symbols
// the pass needs (e.g. the "0" a simplification rewrites into). Passes that
// never need a fresh literal simply ignore lits.
type Pass func(fn *ir.Function, lits *ir.LiteralPool) bool
