package optimize

import (
	"strconv"

	"tacc/internal/ir"
)

// ConstantFold evaluates Binary and Branch statements whose operands are
// both NUM literals, replacing a Binary with a Copy of the computed literal
// and a Branch with either an unconditional Jump (condition true) or
// removing the statement entirely (condition false). Grounded on
// Binary::cfold and Branch::cfold in Statement.cpp.
func ConstantFold(fn *ir.Function, lits *ir.LiteralPool) bool {
	changed := false
	for _, e := range fn.Stmts.AllElements() {
		switch s := ir.At(e).(type) {
		case *ir.Binary:
			if r := foldBinary(s, lits); r != nil {
				fn.Stmts.Set(e, r)
				changed = true
			}
		case *ir.Branch:
			switch r, remove := foldBranch(s); {
			case remove:
				fn.Stmts.Remove(e)
				changed = true
			case r != nil:
				fn.Stmts.Set(e, r)
				changed = true
			}
		}
	}
	return changed
}

func litInt(s *ir.Symbol) (int, bool) {
	if s == nil || s.Knd != ir.NUM {
		return 0, false
	}
	n, err := strconv.Atoi(s.Name)
	return n, err == nil
}

func boolLit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func foldBinary(s *ir.Binary, lits *ir.LiteralPool) ir.Statement {
	l, lok := litInt(s.Left)
	r, rok := litInt(s.Right)
	if !lok || !rok {
		return nil
	}

	var value string
	switch s.Op {
	case ir.ADD:
		value = strconv.Itoa(l + r)
	case ir.SUB:
		value = strconv.Itoa(l - r)
	case ir.MUL:
		value = strconv.Itoa(l * r)
	case ir.DIV:
		if r == 0 {
			return nil
		}
		value = strconv.Itoa(l / r)
	case ir.MOD:
		if r == 0 {
			return nil
		}
		value = strconv.Itoa(l % r)
	case ir.EQ:
		value = boolLit(l == r)
	case ir.NE:
		value = boolLit(l != r)
	case ir.LT:
		value = boolLit(l < r)
	case ir.GT:
		value = boolLit(l > r)
	case ir.LE:
		value = boolLit(l <= r)
	case ir.GE:
		value = boolLit(l >= r)
	case ir.LAND:
		value = boolLit(l != 0 && r != 0)
	case ir.LOR:
		value = boolLit(l != 0 || r != 0)
	default:
		return nil
	}

	return &ir.Copy{Result: s.Result, Expr: lits.MakeLiteral(value, s.Result.Typ.Spec)}
}

// foldBranch reports the replacement statement (an unconditional Jump) or,
// when remove is true, that the Branch should simply be dropped because its
// condition is statically false and it would never be taken.
func foldBranch(s *ir.Branch) (replacement ir.Statement, remove bool) {
	l, lok := litInt(s.Left)
	r, rok := litInt(s.Right)
	if !lok || !rok {
		return nil, false
	}

	var taken bool
	switch s.Op {
	case ir.EQ:
		taken = l == r
	case ir.NE:
		taken = l != r
	case ir.LT:
		taken = l < r
	case ir.GT:
		taken = l > r
	case ir.LE:
		taken = l <= r
	case ir.GE:
		taken = l >= r
	default:
		return nil, false
	}

	if taken {
		return &ir.Jump{To: s.To}, false
	}
	return nil, true
}
