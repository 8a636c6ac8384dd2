package sema

import (
	"fmt"

	"tacc/internal/ast"
	"tacc/internal/diag"
	"tacc/internal/ir"
	"tacc/token"
)

// env is a chain of lexical scopes over ast.Type, used only to reject
// obviously ill-typed programs (undeclared names, arity mismatches, array
// misuse) per SPEC_FULL §2.3 — it is intentionally simpler than the
// ir.SymbolTable translate uses, since the checker never needs Symbol
// identity, only declared-ness and type.
type env struct {
	vars   map[string]ast.Type
	arrays map[string]bool
	parent *env
}

func newEnv(parent *env) *env {
	return &env{vars: map[string]ast.Type{}, arrays: map[string]bool{}, parent: parent}
}

func (e *env) declare(name string, t ast.Type, isArray bool) {
	e.vars[name] = t
	e.arrays[name] = isArray
}

func (e *env) lookup(name string) (ast.Type, bool, bool) {
	for s := e; s != nil; s = s.parent {
		if t, ok := s.vars[name]; ok {
			return t, s.arrays[name], true
		}
	}
	return ast.Type{}, false, false
}

// Checker performs a minimal, best-effort type check over a Program,
// collecting diag.CompilerErrors rather than panicking — the goal is to
// reject obviously broken programs, not to implement full C semantics.
type Checker struct {
	globals *ir.SymbolTable
	funcs   map[string]*ast.Function
	report  *diag.Reporter
}

// Check walks prog against the scope built by BuildGlobalScope and returns a
// Reporter holding every diagnostic found; callers should check
// Reporter.HasErrors() before handing the program to internal/translate.
func Check(prog *ast.Program, globals *ir.SymbolTable) *diag.Reporter {
	c := &Checker{globals: globals, funcs: map[string]*ast.Function{}, report: diag.NewReporter()}
	for _, f := range prog.Functions {
		c.funcs[f.Name] = f
	}
	for _, g := range prog.Globals {
		c.checkNotReserved(g.Name, g.Pos)
	}
	for _, f := range prog.Functions {
		c.checkNotReserved(f.Name, f.Pos)
		c.checkFunction(f)
	}
	return c.report
}

func (c *Checker) errorf(pos ast.Position, format string, args ...interface{}) {
	c.report.Add(&diag.CompilerError{
		Level:   diag.Error,
		Line:    pos.Line,
		Message: fmt.Sprintf(format, args...),
	})
}

// checkNotReserved rejects a declaration whose spelling is a language
// keyword (grammar's literal-alternative matching only excludes keywords
// from the positions where a keyword itself is expected — @Ident still
// lexically matches one, e.g. "word if;" parses as a VarDecl named "if").
func (c *Checker) checkNotReserved(name string, pos ast.Position) {
	if token.LookupIdent(name) != token.IDENT {
		c.errorf(pos, "%q is a reserved keyword and cannot be used as an identifier", name)
	}
}

func (c *Checker) checkFunction(f *ast.Function) {
	top := newEnv(nil)
	for _, p := range f.Params {
		c.checkNotReserved(p.Name, p.Pos)
		top.declare(p.Name, p.Type, false)
	}
	c.checkStmt(f.Body, top, f)
}

func (c *Checker) checkStmt(s ast.Stmt, e *env, fn *ast.Function) {
	switch n := s.(type) {
	case *ast.Block:
		child := newEnv(e)
		for _, st := range n.Stmts {
			c.checkStmt(st, child, fn)
		}
	case *ast.If:
		c.checkExpr(n.Cond, e)
		c.checkStmt(n.Then, e, fn)
		if n.Else != nil {
			c.checkStmt(n.Else, e, fn)
		}
	case *ast.While:
		c.checkExpr(n.Cond, e)
		c.checkStmt(n.Body, e, fn)
	case *ast.DoWhile:
		c.checkStmt(n.Body, e, fn)
		c.checkExpr(n.Cond, e)
	case *ast.For:
		child := newEnv(e)
		if n.Init != nil {
			c.checkStmt(n.Init, child, fn)
		}
		if n.Cond != nil {
			c.checkExpr(n.Cond, child)
		}
		if n.Post != nil {
			c.checkStmt(n.Post, child, fn)
		}
		c.checkStmt(n.Body, child, fn)
	case *ast.Return:
		if fn.Return.Name == "void" && n.Value != nil {
			c.errorf(n.Pos, "void function %q returns a value", fn.Name)
		}
		if fn.Return.Name != "void" && n.Value == nil {
			c.errorf(n.Pos, "non-void function %q returns no value", fn.Name)
		}
		if n.Value != nil {
			c.checkExpr(n.Value, e)
		}
	case *ast.VarDecl:
		c.checkNotReserved(n.Name, n.Pos)
		if n.Size < 0 {
			c.errorf(n.Pos, "array %q has negative size", n.Name)
		}
		if n.Init != nil {
			if n.Size > 0 {
				c.errorf(n.Pos, "array %q cannot have an initializer", n.Name)
			}
			c.checkExpr(n.Init, e)
		}
		e.declare(n.Name, n.Type, n.Size > 0)
	case *ast.Assign:
		if _, _, ok := c.resolve(n.Name, e); !ok {
			c.errorf(n.Pos, "undeclared identifier %q", n.Name)
		}
		c.checkExpr(n.Value, e)
	case *ast.IndexAssign:
		if _, isArray, ok := c.resolve(n.Name, e); !ok {
			c.errorf(n.Pos, "undeclared identifier %q", n.Name)
		} else if !isArray {
			c.errorf(n.Pos, "%q is not an array", n.Name)
		}
		c.checkExpr(n.Index, e)
		c.checkExpr(n.Value, e)
	case *ast.ExprStmt:
		c.checkExpr(n.Expr, e)
	}
}

// resolve looks a name up in the lexical env first, falling back to the
// global scope (globals and function names share one namespace, like C).
func (c *Checker) resolve(name string, e *env) (ast.Type, bool, bool) {
	if t, isArray, ok := e.lookup(name); ok {
		return t, isArray, true
	}
	if sym, ok := c.globals.Lookup(name); ok {
		return ast.Type{}, sym.Typ.IsArray(), true
	}
	return ast.Type{}, false, false
}

func (c *Checker) checkExpr(expr ast.Expr, e *env) {
	switch n := expr.(type) {
	case *ast.Name:
		if _, _, ok := c.resolve(n.Ident, e); !ok {
			c.errorf(n.Pos, "undeclared identifier %q", n.Ident)
		}
	case *ast.Call:
		fn, ok := c.funcs[n.Name]
		if !ok {
			if _, ok2 := c.globals.Lookup(n.Name); !ok2 {
				c.errorf(n.Pos, "call to undeclared function %q", n.Name)
			}
		} else if len(fn.Params) != len(n.Args) {
			c.errorf(n.Pos, "%q expects %d argument(s), got %d", n.Name, len(fn.Params), len(n.Args))
		}
		for _, a := range n.Args {
			c.checkExpr(a, e)
		}
	case *ast.Index:
		if name, ok := n.Array.(*ast.Name); ok {
			if _, isArray, ok := c.resolve(name.Ident, e); ok && !isArray {
				c.errorf(n.Pos, "%q is not an array", name.Ident)
			}
		}
		c.checkExpr(n.Array, e)
		c.checkExpr(n.Idx, e)
	case *ast.Unary:
		c.checkExpr(n.Operand, e)
	case *ast.Binary:
		c.checkExpr(n.Left, e)
		c.checkExpr(n.Right, e)
	case *ast.Logical:
		c.checkExpr(n.Left, e)
		c.checkExpr(n.Right, e)
	}
}
