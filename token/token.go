// SPDX-License-Identifier: Apache-2.0

// Package token names the source language's lexical categories and reserved
// keywords as a standalone table (the participle-driven lexer in package
// grammar defines its own token rules and does not use it), adapted from
// the teaching repo's flat
// TokenType constant table for the small C-like source language described
// in spec §2. internal/sema uses LookupIdent to reject a declaration whose
// spelling is a reserved keyword — the grammar's literal-alternative
// matching only rules keywords out of the positions where a keyword itself
// is expected, so "word if;" otherwise lexes and parses as an ordinary
// declaration named "if".
package token

type Type string

const (
	ILLEGAL Type = "ILLEGAL"
	EOF     Type = "EOF"

	IDENT   Type = "IDENT"
	INTEGER Type = "INTEGER"
	CHAR    Type = "CHAR"
	STRING  Type = "STRING"

	// Keywords
	BYTE   Type = "byte"
	WORD   Type = "word"
	VOID   Type = "void"
	IF     Type = "if"
	ELSE   Type = "else"
	WHILE  Type = "while"
	DO     Type = "do"
	FOR    Type = "for"
	RETURN Type = "return"
)

var keywords = map[string]Type{
	"byte":   BYTE,
	"word":   WORD,
	"void":   VOID,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"do":     DO,
	"for":    FOR,
	"return": RETURN,
}

// LookupIdent reports the keyword Type for name, or IDENT if name is an
// ordinary identifier.
func LookupIdent(name string) Type {
	if t, ok := keywords[name]; ok {
		return t
	}
	return IDENT
}
