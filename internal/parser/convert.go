package parser

import (
	"strconv"
	"strings"

	"tacc/grammar"
	"tacc/internal/ast"
)

func posOf(line, col int) ast.Position { return ast.Position{Line: line, Col: col} }

func convertProgram(p *grammar.Program) *ast.Program {
	out := &ast.Program{}
	for _, d := range p.Decls {
		switch {
		case d.Function != nil:
			out.Functions = append(out.Functions, convertFunction(d.Function))
		case d.Global != nil:
			out.Globals = append(out.Globals, convertGlobal(d.Global))
		}
	}
	return out
}

func convertType(t *grammar.Type) ast.Type {
	if t == nil {
		return ast.Type{Name: "void"}
	}
	return ast.Type{Name: t.Name}
}

func convertGlobal(v *grammar.VarDecl) *ast.GlobalVar {
	g := &ast.GlobalVar{
		Type: convertType(v.Type),
		Name: v.Name,
		Pos:  posOf(v.Pos.Line, v.Pos.Column),
	}
	if v.Size != nil {
		g.Size = *v.Size
	}
	if v.Init != nil {
		g.Init = convertExpr(v.Init)
	}
	return g
}

func convertFunction(f *grammar.Function) *ast.Function {
	fn := &ast.Function{
		Return: ast.Type{Name: f.Return},
		Name:   f.Name,
		Pos:    posOf(f.Pos.Line, f.Pos.Column),
	}
	for _, p := range f.Params {
		fn.Params = append(fn.Params, ast.Param{
			Type: convertType(p.Type),
			Name: p.Name,
			Pos:  posOf(p.Pos.Line, p.Pos.Column),
		})
	}
	fn.Body = convertBlock(f.Body)
	return fn
}

func convertBlock(b *grammar.Block) *ast.Block {
	if b == nil {
		return &ast.Block{}
	}
	out := &ast.Block{}
	for _, s := range b.Stmts {
		out.Stmts = append(out.Stmts, convertStmt(s))
	}
	return out
}

func convertStmt(s *grammar.Stmt) ast.Stmt {
	switch {
	case s.Block != nil:
		return convertBlock(s.Block)
	case s.If != nil:
		n := s.If
		ifStmt := &ast.If{
			Cond: convertExpr(n.Cond),
			Then: convertStmt(n.Then),
			Pos:  posOf(n.Pos.Line, n.Pos.Column),
		}
		if n.Else != nil {
			ifStmt.Else = convertStmt(n.Else)
		}
		return ifStmt
	case s.While != nil:
		n := s.While
		return &ast.While{
			Cond: convertExpr(n.Cond),
			Body: convertStmt(n.Body),
			Pos:  posOf(n.Pos.Line, n.Pos.Column),
		}
	case s.DoWhile != nil:
		n := s.DoWhile
		return &ast.DoWhile{
			Body: convertStmt(n.Body),
			Cond: convertExpr(n.Cond),
			Pos:  posOf(n.Pos.Line, n.Pos.Column),
		}
	case s.For != nil:
		n := s.For
		forStmt := &ast.For{
			Body: convertStmt(n.Body),
			Pos:  posOf(n.Pos.Line, n.Pos.Column),
		}
		if n.Init != nil {
			forStmt.Init = convertForClause(n.Init)
		}
		if n.Cond != nil {
			forStmt.Cond = convertExpr(n.Cond)
		}
		if n.Post != nil {
			forStmt.Post = convertForClause(n.Post)
		}
		return forStmt
	case s.Return != nil:
		n := s.Return
		ret := &ast.Return{Pos: posOf(n.Pos.Line, n.Pos.Column)}
		if n.Expr != nil {
			ret.Value = convertExpr(n.Expr)
		}
		return ret
	case s.VarDecl != nil:
		n := s.VarDecl
		decl := &ast.VarDecl{
			Type: convertType(n.Type),
			Name: n.Name,
			Pos:  posOf(n.Pos.Line, n.Pos.Column),
		}
		if n.Size != nil {
			decl.Size = *n.Size
		}
		if n.Init != nil {
			decl.Init = convertExpr(n.Init)
		}
		return decl
	case s.Assign != nil:
		n := s.Assign
		if n.Index != nil {
			return &ast.IndexAssign{
				Name:  n.Name,
				Index: convertExpr(n.Index),
				Value: convertExpr(n.Value),
				Pos:   posOf(n.Pos.Line, n.Pos.Column),
			}
		}
		return &ast.Assign{
			Name:  n.Name,
			Value: convertExpr(n.Value),
			Pos:   posOf(n.Pos.Line, n.Pos.Column),
		}
	case s.ExprStmt != nil:
		n := s.ExprStmt
		return &ast.ExprStmt{Expr: convertExpr(n.Expr), Pos: posOf(n.Pos.Line, n.Pos.Column)}
	}
	return &ast.Block{}
}

func convertForClause(c *grammar.ForClause) ast.Stmt {
	if c.Assign != nil {
		n := c.Assign
		if n.Index != nil {
			return &ast.IndexAssign{Name: n.Name, Index: convertExpr(n.Index), Value: convertExpr(n.Value)}
		}
		return &ast.Assign{Name: n.Name, Value: convertExpr(n.Value)}
	}
	return &ast.ExprStmt{Expr: convertExpr(c.Expr)}
}

// convertExpr folds the grammar's layered Left/[]Rest shapes into a
// left-associative binary tree, one layer at a time from lowest to highest
// precedence, exactly how a hand-written recursive-descent parser would
// build the tree from the same grammar (the CST layering exists only to
// keep participle's PEG parser free of left recursion).
func convertExpr(e *grammar.Expr) ast.Expr {
	return convertLogicalOr(e.Or)
}

func convertLogicalOr(n *grammar.LogicalOr) ast.Expr {
	left := convertLogicalAnd(n.Left)
	for _, r := range n.Rest {
		right := convertLogicalAnd(r.Right)
		left = &ast.Logical{Op: ast.Or, Left: left, Right: right, Pos: left.ExprPos()}
	}
	return left
}

func convertLogicalAnd(n *grammar.LogicalAnd) ast.Expr {
	left := convertEquality(n.Left)
	for _, r := range n.Rest {
		right := convertEquality(r.Right)
		left = &ast.Logical{Op: ast.And, Left: left, Right: right, Pos: left.ExprPos()}
	}
	return left
}

func convertEquality(n *grammar.Equality) ast.Expr {
	left := convertRelational(n.Left)
	for _, r := range n.Rest {
		op := ast.Eq
		if r.Op == "!=" {
			op = ast.Ne
		}
		right := convertRelational(r.Right)
		left = &ast.Binary{Op: op, Left: left, Right: right, Pos: left.ExprPos()}
	}
	return left
}

func convertRelational(n *grammar.Relational) ast.Expr {
	left := convertAdditive(n.Left)
	for _, r := range n.Rest {
		var op ast.BinOp
		switch r.Op {
		case "<":
			op = ast.Lt
		case ">":
			op = ast.Gt
		case "<=":
			op = ast.Le
		case ">=":
			op = ast.Ge
		}
		right := convertAdditive(r.Right)
		left = &ast.Binary{Op: op, Left: left, Right: right, Pos: left.ExprPos()}
	}
	return left
}

func convertAdditive(n *grammar.Additive) ast.Expr {
	left := convertMultiplicative(n.Left)
	for _, r := range n.Rest {
		op := ast.Add
		if r.Op == "-" {
			op = ast.Sub
		}
		right := convertMultiplicative(r.Right)
		left = &ast.Binary{Op: op, Left: left, Right: right, Pos: left.ExprPos()}
	}
	return left
}

func convertMultiplicative(n *grammar.Multiplicative) ast.Expr {
	left := convertUnary(n.Left)
	for _, r := range n.Rest {
		var op ast.BinOp
		switch r.Op {
		case "*":
			op = ast.Mul
		case "/":
			op = ast.Div
		case "%":
			op = ast.Mod
		}
		right := convertUnary(r.Right)
		left = &ast.Binary{Op: op, Left: left, Right: right, Pos: left.ExprPos()}
	}
	return left
}

func convertUnary(n *grammar.Unary) ast.Expr {
	p := posOf(n.Pos.Line, n.Pos.Column)
	inner := convertPostfix(n.Postfix, p)
	if n.Op == nil {
		return inner
	}
	op := ast.Neg
	if *n.Op == "!" {
		op = ast.Not
	}
	return &ast.Unary{Op: op, Operand: inner, Pos: p}
}

func convertPostfix(n *grammar.Postfix, p ast.Position) ast.Expr {
	base := convertPrimary(n.Primary, p)
	for _, idx := range n.Index {
		base = &ast.Index{Array: base, Idx: convertExpr(idx), Pos: p}
	}
	return base
}

func convertPrimary(n *grammar.Primary, p ast.Position) ast.Expr {
	switch {
	case n.Call != nil:
		call := &ast.Call{Name: n.Call.Name, Pos: posOf(n.Call.Pos.Line, n.Call.Pos.Column)}
		for _, a := range n.Call.Args {
			call.Args = append(call.Args, convertExpr(a))
		}
		return call
	case n.Number != nil:
		v, _ := strconv.ParseInt(*n.Number, 0, 64)
		return &ast.IntLit{Value: v, Pos: p}
	case n.Char != nil:
		return &ast.CharLit{Value: decodeChar(*n.Char), Pos: p}
	case n.Str != nil:
		return &ast.StrLit{Value: decodeString(*n.Str), Pos: p}
	case n.Ident != nil:
		return &ast.Name{Ident: *n.Ident, Pos: p}
	case n.Paren != nil:
		return convertExpr(n.Paren)
	}
	return &ast.IntLit{Value: 0, Pos: p}
}

// decodeChar strips the surrounding quotes and resolves the small set of
// backslash escapes the lexer's Char token allows.
func decodeChar(lit string) byte {
	s := unquoteBody(lit)
	if len(s) == 0 {
		return 0
	}
	return s[0]
}

func decodeString(lit string) string {
	return unquoteBody(lit)
}

func unquoteBody(lit string) string {
	if len(lit) < 2 {
		return ""
	}
	body := lit[1 : len(lit)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\\' && i+1 < len(body) {
			i++
			switch body[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '0':
				b.WriteByte(0)
			default:
				b.WriteByte(body[i])
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
