// Package dataflow computes the per-block gen/kill sets and the fixed-point
// analyses (live variables, available copies, available expressions) that
// drive every pass in internal/optimize (spec §4.3).
package dataflow

import "tacc/internal/ir"

// Uses returns the Symbols a statement reads, numeric literal operands
// included; liveness and DCE skip the literals themselves with ir.IsNumber.
func Uses(stmt ir.Statement) []*ir.Symbol {
	switch s := stmt.(type) {
	case *ir.Branch:
		return []*ir.Symbol{s.Left, s.Right}
	case *ir.Call:
		return append([]*ir.Symbol(nil), s.Args...)
	case *ir.Return:
		if s.Expr != nil {
			return []*ir.Symbol{s.Expr}
		}
	case *ir.Binary:
		return []*ir.Symbol{s.Left, s.Right}
	case *ir.Unary:
		return []*ir.Symbol{s.Expr}
	case *ir.Copy:
		return []*ir.Symbol{s.Expr}
	case *ir.Index:
		return []*ir.Symbol{s.Array, s.Idx}
	case *ir.Update:
		return []*ir.Symbol{s.Array, s.Idx, s.Expr}
	}
	return nil
}

// Kill returns the single Symbol a statement locally (re)defines, or nil.
// Only Binary, Unary, Copy, Index, and Call ever kill a scalar; Update
// writes through a pointer/array and so never kills a whole Symbol.
func Kill(stmt ir.Statement) *ir.Symbol {
	switch s := stmt.(type) {
	case *ir.Call:
		return s.Result
	case *ir.Binary:
		return s.Result
	case *ir.Unary:
		return s.Result
	case *ir.Copy:
		return s.Result
	case *ir.Index:
		return s.Result
	}
	return nil
}

// IsCall reports whether a statement is a Call, which spec §4.3 treats as
// an implicit use of every non-function global when computing gen, and as
// a universal kill of copies/expressions touching globals.
func IsCall(stmt ir.Statement) bool {
	_, ok := stmt.(*ir.Call)
	return ok
}
