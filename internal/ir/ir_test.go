package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacc/internal/ir"
)

func TestSymbolTableInternsAcrossChildScopes(t *testing.T) {
	root := ir.NewSymbolTable()
	a := root.Declare("a", ir.Type{Spec: ir.Word}, ir.GLOBAL)

	child := root.NewChild()
	_, ok := child.Lookup("a")
	require.True(t, ok)

	b := child.Declare("b", ir.Type{Spec: ir.Word}, ir.LOCAL)
	_, ok = root.Lookup("b")
	assert.False(t, ok, "a parent scope must not see a child's declarations")

	assert.NotEqual(t, a.ID, b.ID)
}

func TestSymbolTableTempsGetDistinctNames(t *testing.T) {
	root := ir.NewSymbolTable()
	t0 := root.NewTemp(ir.Type{Spec: ir.Word})
	t1 := root.NewTemp(ir.Type{Spec: ir.Word})
	assert.Equal(t, "t0", t0.Name)
	assert.Equal(t, "t1", t1.Name)
	assert.NotEqual(t, t0.ID, t1.ID)
}

func TestSharedCountersSpanChildScopes(t *testing.T) {
	root := ir.NewSymbolTable()
	root.NewTemp(ir.Type{Spec: ir.Word})
	child := root.NewChild()
	t1 := child.NewTemp(ir.Type{Spec: ir.Word})
	assert.Equal(t, "t1", t1.Name, "temp numbering must be shared across a function's nested scopes")
}

func TestLiteralPoolInternsByValue(t *testing.T) {
	root := ir.NewSymbolTable()
	pool := ir.NewLiteralPool(root)

	a := pool.MakeLiteral("0", ir.Word)
	b := pool.MakeLiteral("0", ir.Word)
	assert.Same(t, a, b, "the same textual literal value must resolve to one Symbol identity")
	assert.True(t, ir.IsNumber(a))

	c := pool.MakeLiteral("1", ir.Word)
	assert.NotSame(t, a, c)
}

func TestLiteralPoolDistinguishesStringsAndChars(t *testing.T) {
	root := ir.NewSymbolTable()
	pool := ir.NewLiteralPool(root)

	s1 := pool.MakeStringLiteral(".LC0")
	s2 := pool.MakeStringLiteral(".LC0")
	assert.Same(t, s1, s2)

	c := pool.MakeCharLiteral('x')
	assert.Equal(t, ir.Byte, c.Typ.Spec)
}

func TestOpInverseIsInvolution(t *testing.T) {
	for _, op := range []ir.Op{ir.EQ, ir.NE, ir.LT, ir.GE, ir.GT, ir.LE} {
		assert.Equal(t, op, op.Inverse().Inverse())
	}
	assert.NotEqual(t, ir.EQ, ir.EQ.Inverse())
}

func TestOpDualOnlyDefinedForOrderingRelations(t *testing.T) {
	dual, ok := ir.LT.Dual()
	assert.True(t, ok)
	assert.Equal(t, ir.GT, dual)

	_, ok = ir.EQ.Dual()
	assert.False(t, ok, "== has no dual, it is already commutative")
}

func TestIsGlobalScalarExcludesFunctions(t *testing.T) {
	fn := &ir.Symbol{Knd: ir.GLOBAL, Typ: ir.Type{Params: []ir.Type{}}}
	scalar := &ir.Symbol{Knd: ir.GLOBAL, Typ: ir.Type{Spec: ir.Word}}
	assert.False(t, ir.IsGlobalScalar(fn))
	assert.True(t, ir.IsGlobalScalar(scalar))
	assert.False(t, ir.IsGlobalScalar(nil))
}

func TestBlockStmtsSkipsBoundaryLabels(t *testing.T) {
	fn, entry := buildTwoStatementBlock(t)
	stmts := entry.Stmts()
	require.Len(t, stmts, 1)
	_, isCopy := stmts[0].(*ir.Copy)
	assert.True(t, isCopy)
	_ = fn
}

func buildTwoStatementBlock(t *testing.T) (*ir.Function, *ir.Block) {
	t.Helper()
	table := ir.NewSymbolTable()
	list := ir.NewStmtList()

	entryLbl := &ir.Label{Number: 0}
	x := table.Declare("x", ir.Type{Spec: ir.Word}, ir.LOCAL)
	one := ir.NewLiteralPool(table).MakeLiteral("1", ir.Word)
	exitLbl := &ir.Label{Number: 1}

	first := list.PushBack(entryLbl)
	list.PushBack(&ir.Copy{Result: x, Expr: one})
	last := list.PushBack(exitLbl)

	block := &ir.Block{First: first, Last: last}
	return &ir.Function{Name: table.Declare("f", ir.Type{}, ir.GLOBAL), Stmts: list, Entry: block, Blocks: []*ir.Block{block}}, block
}

func TestPrintRendersLabelsAndIndentedStatements(t *testing.T) {
	table := ir.NewSymbolTable()
	list := ir.NewStmtList()
	pool := ir.NewLiteralPool(table)

	a := table.Declare("a", ir.Type{Spec: ir.Word}, ir.LOCAL)
	b := table.Declare("b", ir.Type{Spec: ir.Word}, ir.LOCAL)
	sum := table.NewTemp(ir.Type{Spec: ir.Word})
	l0 := &ir.Label{Number: 0}

	list.PushBack(l0)
	list.PushBack(&ir.Binary{Op: ir.ADD, Result: sum, Left: a, Right: b})
	list.PushBack(&ir.Return{Expr: sum})

	fn := &ir.Function{Name: table.Declare("add", ir.Type{}, ir.GLOBAL), Stmts: list}
	out := ir.Print(fn)

	assert.Contains(t, out, "L0:\n")
	assert.Contains(t, out, "\tt0 := a + b\n")
	assert.Contains(t, out, "\treturn t0\n")

	_ = pool
}

func TestPrintRendersCallWithAndWithoutResult(t *testing.T) {
	table := ir.NewSymbolTable()
	list := ir.NewStmtList()

	puts := table.Declare("puts", ir.Type{}, ir.GLOBAL)
	r := table.NewTemp(ir.Type{Spec: ir.Word})
	a := table.Declare("a", ir.Type{Spec: ir.Word}, ir.LOCAL)

	list.PushBack(&ir.Call{Result: r, Func: puts, Args: []*ir.Symbol{a}})
	list.PushBack(&ir.Call{Func: puts, Args: []*ir.Symbol{a}})

	fn := &ir.Function{Stmts: list}
	out := ir.Print(fn)

	assert.Contains(t, out, "t0 := call puts(a)")
	assert.Contains(t, out, "\tcall puts(a)\n")
}
