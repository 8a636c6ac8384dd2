// Package translate lowers internal/ast trees into internal/ir three-address
// code, grounded directly on the original's translator.cpp: post-order
// expression evaluation into fresh temporaries, test()-style short-circuit
// boolean lowering using the fixed relational inverse table (ir.Op.Inverse),
// and a function body framed by a leading Label/Null/Label and a trailing
// Label (translator.cpp's own translate() entry point).
package translate

import (
	"fmt"
	"strconv"

	"tacc/internal/ast"
	"tacc/internal/ir"
)

// Translator lowers a whole Program sharing one root SymbolTable (globals
// and function signatures) and one LiteralPool, so that every literal value
// and every global reference resolves to the same Symbol identity across
// function boundaries — matching translator.cpp's per-translation-unit
// state, threaded explicitly here instead of held in package globals.
type Translator struct {
	globals *ir.SymbolTable
	lits    *ir.LiteralPool
	strNum  int
	strTab  map[string]*ir.Symbol
}

func New(globals *ir.SymbolTable, lits *ir.LiteralPool) *Translator {
	return &Translator{globals: globals, lits: lits, strTab: map[string]*ir.Symbol{}}
}

// TranslateProgram lowers every function in prog. Globals and function
// signatures must already be declared in the Translator's root SymbolTable
// (internal/sema.BuildGlobalScope does this).
func (t *Translator) TranslateProgram(prog *ast.Program) []*ir.Function {
	out := make([]*ir.Function, 0, len(prog.Functions))
	for _, f := range prog.Functions {
		out = append(out, t.TranslateFunction(f))
	}
	return out
}

// funcTranslator holds the per-function state: the function's own local
// scope (a child of the Translator's globals) and its label counter, which
// restarts at 0 for every function, matching the textual "L0:" convention
// spec §6 prints for each function's TAC dump independently.
type funcTranslator struct {
	*Translator
	locals   *ir.SymbolTable
	fn       *ir.Function
	labelNum int
}

func (t *Translator) TranslateFunction(f *ast.Function) *ir.Function {
	sym, ok := t.globals.Lookup(f.Name)
	if !ok {
		panic(fmt.Sprintf("translate: function %q not declared in global scope", f.Name))
	}

	locals := t.globals.NewChild()
	fn := &ir.Function{
		Name:   sym,
		Stmts:  ir.NewStmtList(),
		Locals: locals,
	}

	ft := &funcTranslator{Translator: t, locals: locals, fn: fn}

	for _, p := range f.Params {
		psym := locals.Declare(p.Name, ir.Type{Spec: specOf(p.Type)}, ir.LOCAL)
		fn.Params = append(fn.Params, psym)
	}

	entry := ft.newLabel()
	ft.emit(entry)
	ft.emit(&ir.Null{})
	body := ft.newLabel()
	ft.emit(body)

	ft.genStmt(f.Body)

	if f.Return.Name == "void" {
		ft.emit(&ir.Return{})
	}

	exit := ft.newLabel()
	ft.emit(exit)

	return fn
}

func specOf(t ast.Type) ir.Specifier {
	if t.Name == "byte" {
		return ir.Byte
	}
	return ir.Word
}

func (ft *funcTranslator) newLabel() *ir.Label {
	l := &ir.Label{Number: ft.labelNum}
	ft.labelNum++
	return l
}

func (ft *funcTranslator) emit(s ir.Statement) { ft.fn.Stmts.PushBack(s) }

func (ft *funcTranslator) newTemp(typ ir.Type) *ir.Symbol { return ft.locals.NewTemp(typ) }

// --- statements ---

func (ft *funcTranslator) genStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Block:
		for _, st := range n.Stmts {
			ft.genStmt(st)
		}
	case *ast.If:
		ft.genIf(n)
	case *ast.While:
		ft.genWhile(n)
	case *ast.DoWhile:
		ft.genDoWhile(n)
	case *ast.For:
		ft.genFor(n)
	case *ast.Return:
		if n.Value != nil {
			ft.emit(&ir.Return{Expr: ft.genExpr(n.Value)})
		} else {
			ft.emit(&ir.Return{})
		}
	case *ast.VarDecl:
		ft.genVarDecl(n)
	case *ast.Assign:
		sym := ft.lookupLocal(n.Name)
		ft.emit(&ir.Copy{Result: sym, Expr: ft.genExpr(n.Value)})
	case *ast.IndexAssign:
		ft.genIndexAssign(n)
	case *ast.ExprStmt:
		ft.genExpr(n.Expr)
	}
}

func (ft *funcTranslator) genVarDecl(n *ast.VarDecl) {
	typ := ir.Type{Spec: specOf(n.Type), Length: n.Size}
	sym := ft.locals.Declare(n.Name, typ, ir.LOCAL)
	if n.Init != nil {
		ft.emit(&ir.Copy{Result: sym, Expr: ft.genExpr(n.Init)})
	}
}

func (ft *funcTranslator) genIf(n *ast.If) {
	if n.Else == nil {
		end := ft.newLabel()
		ft.branchOn(n.Cond, end, false)
		ft.genStmt(n.Then)
		ft.emit(end)
		return
	}
	elseL := ft.newLabel()
	end := ft.newLabel()
	ft.branchOn(n.Cond, elseL, false)
	ft.genStmt(n.Then)
	ft.emit(&ir.Jump{To: end})
	ft.emit(elseL)
	ft.genStmt(n.Else)
	ft.emit(end)
}

func (ft *funcTranslator) genWhile(n *ast.While) {
	top := ft.newLabel()
	end := ft.newLabel()
	ft.emit(top)
	ft.branchOn(n.Cond, end, false)
	ft.genStmt(n.Body)
	ft.emit(&ir.Jump{To: top})
	ft.emit(end)
}

func (ft *funcTranslator) genDoWhile(n *ast.DoWhile) {
	top := ft.newLabel()
	ft.emit(top)
	ft.genStmt(n.Body)
	ft.branchOn(n.Cond, top, true)
}

func (ft *funcTranslator) genFor(n *ast.For) {
	if n.Init != nil {
		ft.genStmt(n.Init)
	}
	top := ft.newLabel()
	end := ft.newLabel()
	ft.emit(top)
	if n.Cond != nil {
		ft.branchOn(n.Cond, end, false)
	}
	ft.genStmt(n.Body)
	if n.Post != nil {
		ft.genStmt(n.Post)
	}
	ft.emit(&ir.Jump{To: top})
	ft.emit(end)
}

func (ft *funcTranslator) genIndexAssign(n *ast.IndexAssign) {
	arr := ft.lookupLocal(n.Name)
	idx := ft.scaleIndex(arr, ft.genExpr(n.Index))
	ft.emit(&ir.Update{Array: arr, Idx: idx, Expr: ft.genExpr(n.Value)})
}

func (ft *funcTranslator) lookupLocal(name string) *ir.Symbol {
	sym, ok := ft.locals.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("translate: identifier %q not declared (sema should have rejected this)", name))
	}
	return sym
}

// scaleIndex multiplies idx by the array's element size when that size is
// greater than one byte (spec §2.2's enrichment over the original, which
// only ever indexed byte arrays): word arrays need their index scaled by 4
// before it addresses the right element.
func (ft *funcTranslator) scaleIndex(arr *ir.Symbol, idx *ir.Symbol) *ir.Symbol {
	size := arr.Typ.Size()
	if size <= 1 {
		return idx
	}
	if idx.Typ.Spec == ir.Byte {
		idx = ft.widen(idx)
	}
	lit := ft.lits.MakeLiteral(strconv.Itoa(size), ir.Word)
	result := ft.newTemp(ir.Type{Spec: ir.Word})
	ft.emit(&ir.Binary{Op: ir.MUL, Result: result, Left: idx, Right: lit})
	return result
}

// widen emits a WIDEN of s into a fresh word temp; a numeric literal is
// returned as is, since no statement is ever emitted for a literal.
func (ft *funcTranslator) widen(s *ir.Symbol) *ir.Symbol {
	if ir.IsNumber(s) {
		return s
	}
	result := ft.newTemp(ir.Type{Spec: ir.Word})
	ft.emit(&ir.Unary{Op: ir.WIDEN, Result: result, Expr: s})
	return result
}

// --- expressions ---

func (ft *funcTranslator) genExpr(e ast.Expr) *ir.Symbol {
	switch n := e.(type) {
	case *ast.Name:
		return ft.lookupLocal(n.Ident)
	case *ast.IntLit:
		spec := ir.Word
		if n.Value >= -128 && n.Value <= 127 {
			spec = ir.Byte
		}
		return ft.lits.MakeLiteral(strconv.FormatInt(n.Value, 10), spec)
	case *ast.CharLit:
		return ft.lits.MakeCharLiteral(n.Value)
	case *ast.StrLit:
		return ft.internString(n.Value)
	case *ast.Call:
		return ft.genCall(n)
	case *ast.Index:
		return ft.genIndex(n)
	case *ast.Unary:
		return ft.genUnary(n)
	case *ast.Binary:
		return ft.genBinary(n)
	case *ast.Logical:
		return ft.materializeBool(n)
	}
	panic(fmt.Sprintf("translate: unhandled expression %T", e))
}

// internString interns each distinct string literal value once per program
// under a fresh ".LC<n>" label, mirroring the original's string-pool labels.
func (t *Translator) internString(value string) *ir.Symbol {
	if sym, ok := t.strTab[value]; ok {
		return sym
	}
	label := fmt.Sprintf(".LC%d", t.strNum)
	t.strNum++
	sym := t.lits.MakeStringLiteral(label)
	t.strTab[value] = sym
	return sym
}

func (ft *funcTranslator) genCall(n *ast.Call) *ir.Symbol {
	fsym, ok := ft.globals.Lookup(n.Name)
	if !ok {
		panic(fmt.Sprintf("translate: call to undeclared function %q", n.Name))
	}
	args := make([]*ir.Symbol, len(n.Args))
	for i, a := range n.Args {
		args[i] = ft.genExpr(a)
	}
	var result *ir.Symbol
	if fsym.Typ.ReturnTyp != nil {
		result = ft.newTemp(*fsym.Typ.ReturnTyp)
	}
	ft.emit(&ir.Call{Result: result, Func: fsym, Args: args})
	return result
}

func (ft *funcTranslator) genIndex(n *ast.Index) *ir.Symbol {
	arrName, ok := n.Array.(*ast.Name)
	if !ok {
		panic("translate: indexed expression is not a simple array name")
	}
	arr := ft.lookupLocal(arrName.Ident)
	idx := ft.scaleIndex(arr, ft.genExpr(n.Idx))
	result := ft.newTemp(ir.Type{Spec: arr.Typ.Spec})
	ft.emit(&ir.Index{Result: result, Array: arr, Idx: idx})
	return result
}

func (ft *funcTranslator) genUnary(n *ast.Unary) *ir.Symbol {
	if n.Op == ast.Not {
		return ft.materializeBool(n)
	}
	v := ft.genExpr(n.Operand)
	result := ft.newTemp(v.Typ)
	ft.emit(&ir.Unary{Op: ir.NEGATE, Result: result, Expr: v})
	return result
}

func (ft *funcTranslator) genBinary(n *ast.Binary) *ir.Symbol {
	if isRelational(n.Op) {
		return ft.materializeBool(n)
	}
	l := ft.genExpr(n.Left)
	r := ft.genExpr(n.Right)
	l, r, spec := ft.widenPair(l, r)
	result := ft.newTemp(ir.Type{Spec: spec})
	ft.emit(&ir.Binary{Op: toIrOp(n.Op), Result: result, Left: l, Right: r})
	return result
}

// widenPair widens whichever of l/r is a byte to a word when the other is a
// word, so a Binary never mixes specifiers except for a byte numeric literal
// operand, which widen leaves as is (translator.cpp's INT/widen case).
func (ft *funcTranslator) widenPair(l, r *ir.Symbol) (*ir.Symbol, *ir.Symbol, ir.Specifier) {
	if l.Typ.Spec == r.Typ.Spec {
		return l, r, l.Typ.Spec
	}
	if l.Typ.Spec == ir.Byte {
		return ft.widen(l), r, ir.Word
	}
	return l, ft.widen(r), ir.Word
}

// materializeBool evaluates a relational/logical expression used as a value
// (e.g. "x = a < b;") by branching into one of two Copy-of-literal arms,
// the same target/skip-label construction translator.cpp uses for AND/OR
// wherever they appear outside of a direct control-flow test.
func (ft *funcTranslator) materializeBool(e ast.Expr) *ir.Symbol {
	trueL := ft.newLabel()
	end := ft.newLabel()
	result := ft.newTemp(ir.Type{Spec: ir.Byte})

	ft.branchOn(e, trueL, true)
	ft.emit(&ir.Copy{Result: result, Expr: ft.lits.MakeLiteral("0", ir.Byte)})
	ft.emit(&ir.Jump{To: end})
	ft.emit(trueL)
	ft.emit(&ir.Copy{Result: result, Expr: ft.lits.MakeLiteral("1", ir.Byte)})
	ft.emit(end)
	return result
}

// branchOn emits code such that control reaches label exactly when e
// evaluates to wantTrue, falling through otherwise. Logical And/Or recurse
// short-circuit-style; a bare relational comparison emits a single Branch,
// using ir.Op.Inverse() to flip the comparison when wantTrue is false
// instead of materializing a separate true-branch and jump — the same
// "jump on the negated condition, let the taken arm fall through" shape
// translator.cpp's if/while lowering uses its inverse table for.
func (ft *funcTranslator) branchOn(e ast.Expr, label *ir.Label, wantTrue bool) {
	switch n := e.(type) {
	case *ast.Unary:
		if n.Op == ast.Not {
			ft.branchOn(n.Operand, label, !wantTrue)
			return
		}
	case *ast.Logical:
		ft.branchOnLogical(n, label, wantTrue)
		return
	case *ast.Binary:
		if isRelational(n.Op) {
			l := ft.genExpr(n.Left)
			r := ft.genExpr(n.Right)
			l, r, _ = ft.widenPair(l, r)
			op := toIrOp(n.Op)
			if !wantTrue {
				op = op.Inverse()
			}
			ft.emit(&ir.Branch{Op: op, Left: l, Right: r, To: label})
			return
		}
	}
	v := ft.genExpr(e)
	zero := ft.lits.MakeLiteral("0", v.Typ.Spec)
	op := ir.NE
	if !wantTrue {
		op = ir.EQ
	}
	ft.emit(&ir.Branch{Op: op, Left: v, Right: zero, To: label})
}

func (ft *funcTranslator) branchOnLogical(n *ast.Logical, label *ir.Label, wantTrue bool) {
	if n.Op == ast.And {
		if wantTrue {
			skip := ft.newLabel()
			ft.branchOn(n.Left, skip, false)
			ft.branchOn(n.Right, label, true)
			ft.emit(skip)
		} else {
			ft.branchOn(n.Left, label, false)
			ft.branchOn(n.Right, label, false)
		}
		return
	}
	// Or
	if wantTrue {
		ft.branchOn(n.Left, label, true)
		ft.branchOn(n.Right, label, true)
	} else {
		skip := ft.newLabel()
		ft.branchOn(n.Left, skip, true)
		ft.branchOn(n.Right, label, false)
		ft.emit(skip)
	}
}

func isRelational(op ast.BinOp) bool {
	switch op {
	case ast.Eq, ast.Ne, ast.Lt, ast.Gt, ast.Le, ast.Ge:
		return true
	}
	return false
}

func toIrOp(op ast.BinOp) ir.Op {
	switch op {
	case ast.Add:
		return ir.ADD
	case ast.Sub:
		return ir.SUB
	case ast.Mul:
		return ir.MUL
	case ast.Div:
		return ir.DIV
	case ast.Mod:
		return ir.MOD
	case ast.Eq:
		return ir.EQ
	case ast.Ne:
		return ir.NE
	case ast.Lt:
		return ir.LT
	case ast.Gt:
		return ir.GT
	case ast.Le:
		return ir.LE
	case ast.Ge:
		return ir.GE
	}
	panic("translate: unhandled ast.BinOp")
}
