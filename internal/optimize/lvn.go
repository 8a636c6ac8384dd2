package optimize

import (
	"tacc/internal/dataflow"
	"tacc/internal/ir"
)

// binKey canonicalizes a Binary operand pair by value number: for a
// commutative op the numbers are sorted ascending; for a relational op that
// has a Dual, GT/GE are rewritten to their LT/LE dual with operands
// swapped, so "a > b" and "b < a" land on the same key. Grounded on
// Binary::valnum in Statement.cpp, which performs the identical
// canonicalization with its `duals` table before the linear scan of
// expr_int.
type binKey struct {
	op          ir.Op
	left, right int
}

func canonicalKey(op ir.Op, left, right int) binKey {
	if op.Commutative() {
		if left > right {
			left, right = right, left
		}
		return binKey{op: op, left: left, right: right}
	}
	if dual, ok := op.Dual(); ok && op != ir.LT && op != ir.LE {
		return binKey{op: dual, left: right, right: left}
	}
	return binKey{op: op, left: left, right: right}
}

// blockValueNumbers holds one block's scratch tables: the LVN open question
// in spec §9 is resolved by never carrying these across a block boundary
// (the original shares one value_num counter and sym_int/expr_int map for
// the whole function, which is unsound whenever two blocks are not
// dominance-equivalent for the same expression).
type blockValueNumbers struct {
	next    int
	numOf   map[*ir.Symbol]int
	reprOf  map[int]*ir.Symbol
	exprNum map[binKey]int
}

func newBlockValueNumbers() *blockValueNumbers {
	return &blockValueNumbers{numOf: map[*ir.Symbol]int{}, reprOf: map[int]*ir.Symbol{}, exprNum: map[binKey]int{}}
}

func (v *blockValueNumbers) valueOf(s *ir.Symbol) int {
	if n, ok := v.numOf[s]; ok {
		return n
	}
	n := v.next
	v.next++
	v.numOf[s] = n
	v.reprOf[n] = s
	return n
}

func (v *blockValueNumbers) forget(s *ir.Symbol) {
	if n, ok := v.numOf[s]; ok {
		delete(v.numOf, s)
		if v.reprOf[n] == s {
			delete(v.reprOf, n)
		}
	}
}

// LocalValueNumber runs local value numbering independently in each block,
// replacing a recomputed expression with a Copy of the symbol that already
// holds its value. Grounded on Binary::valnum / Unary::valnum / Copy::valnum
// / Call::valnum, scoped per block rather than per function.
func LocalValueNumber(fn *ir.Function, lits *ir.LiteralPool) bool {
	changed := false
	globals := dataflow.GlobalScalars(fn)

	for _, b := range fn.Blocks {
		v := newBlockValueNumbers()
		for _, e := range b.Elements() {
			switch s := ir.At(e).(type) {
			case *ir.Copy:
				n := v.valueOf(s.Expr)
				v.forget(s.Result)
				v.numOf[s.Result] = n
				if _, ok := v.reprOf[n]; !ok {
					v.reprOf[n] = s.Result
				}
			case *ir.Binary:
				key := canonicalKey(s.Op, v.valueOf(s.Left), v.valueOf(s.Right))
				if n, ok := v.exprNum[key]; ok {
					if repr := v.reprOf[n]; repr != nil && repr != s.Result {
						fn.Stmts.Set(e, &ir.Copy{Result: s.Result, Expr: repr})
						v.forget(s.Result)
						v.numOf[s.Result] = n
						changed = true
						continue
					}
				}
				v.forget(s.Result)
				n := v.valueOf(s.Result)
				v.exprNum[key] = n
			case *ir.Unary:
				if s.Op != ir.NEGATE {
					v.forget(s.Result)
					continue
				}
				key := binKey{op: negateMarker, left: -1, right: v.valueOf(s.Expr)}
				if n, ok := v.exprNum[key]; ok {
					if repr := v.reprOf[n]; repr != nil && repr != s.Result {
						fn.Stmts.Set(e, &ir.Copy{Result: s.Result, Expr: repr})
						v.forget(s.Result)
						v.numOf[s.Result] = n
						changed = true
						continue
					}
				}
				v.forget(s.Result)
				n := v.valueOf(s.Result)
				v.exprNum[key] = n
			case *ir.Call:
				v.forget(s.Result)
				for g := range globals {
					v.forget(g)
				}
			default:
				if k := dataflow.Kill(s); k != nil {
					v.forget(k)
				}
			}
		}
	}
	return changed
}

// negateMarker is a sentinel Op value (outside the real Op range) used only
// as the discriminator for unary-negate keys in blockValueNumbers.exprNum.
const negateMarker ir.Op = -1
