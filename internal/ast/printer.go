package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Printer renders a Program as an indented s-expression-like dump for the
// -A CLI flag, grounded on the teacher's internal/ast/printer.go. Every tag
// is a hand-written snake_case literal; this printer renders the source
// AST only, before translation invents any compiler-generated names.
type Printer struct {
	b     strings.Builder
	depth int
}

func NewPrinter() *Printer { return &Printer{} }

func (p *Printer) String() string { return p.b.String() }

func (p *Printer) line(format string, args ...interface{}) {
	p.b.WriteString(strings.Repeat("  ", p.depth))
	fmt.Fprintf(&p.b, format, args...)
	p.b.WriteByte('\n')
}

func (p *Printer) open(tag string, args ...interface{}) {
	p.line("("+tag, args...)
	p.depth++
}

func (p *Printer) close() {
	p.depth--
	p.line(")")
}

// PrintProgram renders prog and returns the dump text.
func PrintProgram(prog *Program) string {
	p := NewPrinter()
	p.printProgram(prog)
	return p.String()
}

func (p *Printer) printProgram(prog *Program) {
	p.open("translation_unit")
	for _, g := range prog.Globals {
		p.printGlobal(g)
	}
	for _, f := range prog.Functions {
		p.printFunction(f)
	}
	p.close()
}

func (p *Printer) printGlobal(g *GlobalVar) {
	p.open("global %s %s[%d]", g.Type.Name, g.Name, g.Size)
	if g.Init != nil {
		p.printExpr(g.Init)
	}
	p.close()
}

func (p *Printer) printFunction(f *Function) {
	params := make([]string, len(f.Params))
	for i, param := range f.Params {
		params[i] = param.Type.Name + " " + param.Name
	}
	p.open("function %s %s(%s)", f.Return.Name, f.Name, strings.Join(params, ", "))
	p.printStmt(f.Body)
	p.close()
}

func (p *Printer) printStmt(s Stmt) {
	switch n := s.(type) {
	case *Block:
		p.open("block")
		for _, st := range n.Stmts {
			p.printStmt(st)
		}
		p.close()
	case *If:
		p.open("if")
		p.printExpr(n.Cond)
		p.printStmt(n.Then)
		if n.Else != nil {
			p.printStmt(n.Else)
		}
		p.close()
	case *While:
		p.open("while")
		p.printExpr(n.Cond)
		p.printStmt(n.Body)
		p.close()
	case *DoWhile:
		p.open("do_while")
		p.printStmt(n.Body)
		p.printExpr(n.Cond)
		p.close()
	case *For:
		p.open("for")
		if n.Init != nil {
			p.printStmt(n.Init)
		}
		if n.Cond != nil {
			p.printExpr(n.Cond)
		}
		if n.Post != nil {
			p.printStmt(n.Post)
		}
		p.printStmt(n.Body)
		p.close()
	case *Return:
		p.open("return")
		if n.Value != nil {
			p.printExpr(n.Value)
		}
		p.close()
	case *VarDecl:
		p.open("var_decl %s %s[%d]", n.Type.Name, n.Name, n.Size)
		if n.Init != nil {
			p.printExpr(n.Init)
		}
		p.close()
	case *Assign:
		p.open("assign %s", n.Name)
		p.printExpr(n.Value)
		p.close()
	case *IndexAssign:
		p.open("index_assign %s", n.Name)
		p.printExpr(n.Index)
		p.printExpr(n.Value)
		p.close()
	case *ExprStmt:
		p.open("expr_stmt")
		p.printExpr(n.Expr)
		p.close()
	}
}

func (p *Printer) printExpr(e Expr) {
	switch n := e.(type) {
	case *Name:
		p.line("(name %s)", n.Ident)
	case *IntLit:
		p.line("(int %s)", strconv.FormatInt(n.Value, 10))
	case *CharLit:
		p.line("(char %q)", rune(n.Value))
	case *StrLit:
		p.line("(str %q)", n.Value)
	case *Call:
		p.open("call %s", n.Name)
		for _, a := range n.Args {
			p.printExpr(a)
		}
		p.close()
	case *Index:
		p.open("index")
		p.printExpr(n.Array)
		p.printExpr(n.Idx)
		p.close()
	case *Unary:
		p.open("unary %s", unaryOpName(n.Op))
		p.printExpr(n.Operand)
		p.close()
	case *Binary:
		p.open("binary %s", binOpName(n.Op))
		p.printExpr(n.Left)
		p.printExpr(n.Right)
		p.close()
	case *Logical:
		p.open("logical %s", logicalOpName(n.Op))
		p.printExpr(n.Left)
		p.printExpr(n.Right)
		p.close()
	}
}

func unaryOpName(op UnaryOp) string {
	switch op {
	case Not:
		return "!"
	default:
		return "-"
	}
}

func binOpName(op BinOp) string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	case Eq:
		return "=="
	case Ne:
		return "!="
	case Lt:
		return "<"
	case Gt:
		return ">"
	case Le:
		return "<="
	default:
		return ">="
	}
}

func logicalOpName(op LogicalOp) string {
	if op == Or {
		return "||"
	}
	return "&&"
}
