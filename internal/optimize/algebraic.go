package optimize

import "tacc/internal/ir"

// AlgebraicSimplify rewrites identity and self-cancelling patterns, walking
// the whole statement list once (spec §4.4). Grounded on Binary::simplify,
// Copy::simplify, and Branch::simplify in the original's Statement.cpp.
func AlgebraicSimplify(fn *ir.Function, lits *ir.LiteralPool) bool {
	changed := false
	for _, e := range fn.Stmts.AllElements() {
		stmt := ir.At(e)
		switch s := stmt.(type) {
		case *ir.Binary:
			if r := simplifyBinary(s, lits); r != nil {
				fn.Stmts.Set(e, r)
				changed = true
			}
		case *ir.Copy:
			if simplifyCopy(s) {
				fn.Stmts.Remove(e)
				changed = true
			}
		case *ir.Branch:
			if r := simplifyBranch(s, lits); r != nil {
				fn.Stmts.Set(e, r)
				changed = true
			}
		}
	}
	return changed
}

func isLit(s *ir.Symbol, value string) bool {
	return s != nil && s.Knd == ir.NUM && s.Name == value
}

// simplifyBinary returns a replacement Statement, or nil if s is already in
// normal form. x+0/0+x, x*1/1*x, x*0/0*x, x-0, 0-x, x-x, x/1, 0/x, and
// relational self-comparisons all collapse per the original's table.
func simplifyBinary(s *ir.Binary, lits *ir.LiteralPool) ir.Statement {
	zero := func() *ir.Symbol { return lits.MakeLiteral("0", s.Result.Typ.Spec) }
	one := func() *ir.Symbol { return lits.MakeLiteral("1", s.Result.Typ.Spec) }

	switch s.Op {
	case ir.ADD:
		if isLit(s.Right, "0") {
			return &ir.Copy{Result: s.Result, Expr: s.Left}
		}
		if isLit(s.Left, "0") {
			return &ir.Copy{Result: s.Result, Expr: s.Right}
		}
	case ir.MUL:
		if isLit(s.Right, "1") {
			return &ir.Copy{Result: s.Result, Expr: s.Left}
		}
		if isLit(s.Left, "1") {
			return &ir.Copy{Result: s.Result, Expr: s.Right}
		}
		if isLit(s.Right, "0") || isLit(s.Left, "0") {
			return &ir.Copy{Result: s.Result, Expr: zero()}
		}
	case ir.SUB:
		if isLit(s.Right, "0") {
			return &ir.Copy{Result: s.Result, Expr: s.Left}
		}
		if isLit(s.Left, "0") {
			return &ir.Unary{Op: ir.NEGATE, Result: s.Result, Expr: s.Right}
		}
		if s.Left == s.Right {
			return &ir.Copy{Result: s.Result, Expr: zero()}
		}
	case ir.DIV:
		if isLit(s.Right, "1") {
			return &ir.Copy{Result: s.Result, Expr: s.Left}
		}
		if isLit(s.Left, "0") {
			return &ir.Copy{Result: s.Result, Expr: zero()}
		}
	case ir.EQ, ir.LE, ir.GE:
		if s.Left == s.Right {
			return &ir.Copy{Result: s.Result, Expr: one()}
		}
	case ir.NE, ir.GT, ir.LT:
		if s.Left == s.Right {
			return &ir.Copy{Result: s.Result, Expr: zero()}
		}
	}
	return nil
}

// simplifyCopy reports whether s is a self-copy (result == expr), which
// AlgSimp drops entirely rather than rewriting, matching Copy::simplify
// returning nullptr.
func simplifyCopy(s *ir.Copy) bool { return s.Result == s.Expr }

// simplifyBranch folds a self-comparison branch to an always/never-taken
// form by rewriting its operands to freshly-interned NUM literals, leaving
// the taken/not-taken decision to ConstantFold on the next iteration (the
// original's Branch::simplify does the same: it replaces the operands with
// literal "0"/"0" symbols so its own isNumber(_left) && isNumber(_right)
// check in cfold succeeds regardless of what the original operands were).
func simplifyBranch(s *ir.Branch, lits *ir.LiteralPool) ir.Statement {
	if s.Left != s.Right {
		return nil
	}
	zero := lits.MakeLiteral("0", s.Left.Typ.Spec)
	switch s.Op {
	case ir.EQ, ir.LE, ir.GE:
		return &ir.Branch{Op: ir.EQ, Left: zero, Right: zero, To: s.To}
	case ir.NE, ir.GT, ir.LT:
		return &ir.Branch{Op: ir.NE, Left: zero, Right: zero, To: s.To}
	}
	return nil
}
