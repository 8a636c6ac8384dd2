package grammar

import "github.com/alecthomas/participle/v2/lexer"

// Program is the root CST node: a sequence of top-level declarations, each
// either a global variable or a function definition, grounded on the small
// C-like source language's translation-unit shape (spec §2) and laid out in
// the teacher's own flat "sequence of top-level items" style
// (grammar.go's old Program.SourceElements).
type Program struct {
	Decls []*TopDecl `@@*`
}

// Comment tokens are elided by the lexer configuration in parser.go, so no
// CST node represents them.
type TopDecl struct {
	Function *Function `  @@`
	Global   *VarDecl  `| @@`
}

// Type is either a scalar (byte/word) or void, with an optional array rank
// carried on a declarator rather than here — arrays are sized at the
// declaration site (spec §2.1), e.g. "word a[10];".
type Type struct {
	Name string `@("byte" | "word" | "void")`
}

// VarDecl covers both a global scalar/array declaration and a local one;
// Size is present only for array declarations.
type VarDecl struct {
	Pos  lexer.Position
	Type *Type  `@@`
	Name string `@Ident`
	Size *int   `[ "[" @Integer "]" ]`
	Init *Expr  `[ "=" @@ ]`
	Semi string `";"`
}

type Function struct {
	Pos    lexer.Position
	Return string   `@("byte" | "word" | "void")`
	Name   string   `@Ident "("`
	Params []*Param `[ @@ { "," @@ } ] ")"`
	Body   *Block   `@@`
}

type Param struct {
	Pos  lexer.Position
	Type *Type  `@@`
	Name string `@Ident`
}

type Block struct {
	Stmts []*Stmt `"{" @@* "}"`
}

// Stmt is the statement-level alternation. Order matters for the PEG parser:
// more specific prefixes (keywords) are tried before the generic expression-
// or-assignment-statement fallback.
type Stmt struct {
	Block    *Block       `  @@`
	If       *IfStmt      `| @@`
	While    *WhileStmt   `| @@`
	DoWhile  *DoWhileStmt `| @@`
	For      *ForStmt     `| @@`
	Return   *ReturnStmt  `| @@`
	VarDecl  *VarDecl     `| @@`
	Assign   *AssignStmt  `| @@`
	ExprStmt *ExprStmt    `| @@`
}

type IfStmt struct {
	Pos  lexer.Position
	Cond *Expr `"if" "(" @@ ")"`
	Then *Stmt `@@`
	Else *Stmt `[ "else" @@ ]`
}

type WhileStmt struct {
	Pos  lexer.Position
	Cond *Expr `"while" "(" @@ ")"`
	Body *Stmt `@@`
}

type DoWhileStmt struct {
	Pos  lexer.Position
	Body *Stmt `"do" @@`
	Cond *Expr `"while" "(" @@ ")" ";"`
}

type ForStmt struct {
	Pos  lexer.Position
	Init *ForClause `"for" "(" @@? ";"`
	Cond *Expr      `@@? ";"`
	Post *ForClause `@@? ")"`
	Body *Stmt      `@@`
}

// ForClause covers the init/post slots of a for-header, each of which is
// either an assignment or a bare expression (spec §2.2's for-statement),
// never a full declaration.
type ForClause struct {
	Assign *AssignStmtNoSemi `  @@`
	Expr   *Expr             `| @@`
}

type ReturnStmt struct {
	Pos  lexer.Position
	Expr *Expr `"return" [ @@ ] ";"`
}

// AssignStmt is either a plain-name or indexed-name assignment target; the
// CST→AST conversion step (internal/parser) tells them apart by whether
// Index is present, lowering an indexed target to ast.IndexAssign and a
// plain one to ast.Assign (translator.cpp's '=' case on INDEX vs NAME).
type AssignStmt struct {
	Pos   lexer.Position
	Name  string `@Ident`
	Index *Expr  `[ "[" @@ "]" ]`
	Value *Expr  `"=" @@ ";"`
}

type AssignStmtNoSemi struct {
	Pos   lexer.Position
	Name  string `@Ident`
	Index *Expr  `[ "[" @@ "]" ]`
	Value *Expr  `"=" @@`
}

type ExprStmt struct {
	Pos  lexer.Position
	Expr *Expr `@@ ";"`
}

// Expr grammar, layered to avoid left recursion (participle is a PEG parser
// and cannot express "Expr -> Expr op Expr" directly): each layer is a flat
// Left/[]Rest shape that internal/parser's CST→AST conversion folds into a
// left-associative binary tree, from lowest to highest precedence —
// LogicalOr, LogicalAnd, Equality, Relational, Additive, Multiplicative,
// Unary, Postfix, Primary.
type Expr struct {
	Or *LogicalOr `@@`
}

type LogicalOr struct {
	Left *LogicalAnd    `@@`
	Rest []*OrRest      `{ @@ }`
}

type OrRest struct {
	Op    string      `@"||"`
	Right *LogicalAnd `@@`
}

type LogicalAnd struct {
	Left *Equality `@@`
	Rest []*AndRest `{ @@ }`
}

type AndRest struct {
	Op    string    `@"&&"`
	Right *Equality `@@`
}

type Equality struct {
	Left *Relational   `@@`
	Rest []*EqRest     `{ @@ }`
}

type EqRest struct {
	Op    string      `@("==" | "!=")`
	Right *Relational `@@`
}

type Relational struct {
	Left *Additive     `@@`
	Rest []*RelRest    `{ @@ }`
}

type RelRest struct {
	Op    string    `@("<=" | ">=" | "<" | ">")`
	Right *Additive `@@`
}

type Additive struct {
	Left *Multiplicative `@@`
	Rest []*AddRest      `{ @@ }`
}

type AddRest struct {
	Op    string          `@("+" | "-")`
	Right *Multiplicative `@@`
}

type Multiplicative struct {
	Left *Unary     `@@`
	Rest []*MulRest `{ @@ }`
}

type MulRest struct {
	Op    string `@("*" | "/" | "%")`
	Right *Unary `@@`
}

// Unary covers prefix negation and logical not; the small source language
// has no prefix increment/address-of (spec §2's Non-goals), matching
// translator.cpp's generate() cases for '!' and NEGATE only.
type Unary struct {
	Pos     lexer.Position
	Op      *string  `[ @("-" | "!") ]`
	Postfix *Postfix `@@`
}

type Postfix struct {
	Primary *Primary `@@`
	Index   []*Expr  `{ "[" @@ "]" }`
}

type Primary struct {
	Call   *CallExpr `  @@`
	Number *string   `| @Integer`
	Char   *string   `| @Char`
	Str    *string   `| @String`
	Ident  *string   `| @Ident`
	Paren  *Expr     `| "(" @@ ")"`
}

type CallExpr struct {
	Pos  lexer.Position
	Name string  `@Ident "("`
	Args []*Expr `[ @@ { "," @@ } ] ")"`
}
