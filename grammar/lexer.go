package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// SourceLexer is the stateful participle lexer for the small C-like source
// language (spec §2), grounded on the teacher's own KansoLexer shape (one
// "Root" state, longest-match-first ordering of comments, identifiers,
// literals, multi-character operators before single-character ones, then
// punctuation and whitespace).
var SourceLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Integer", `0x[0-9a-fA-F]+|[0-9]+`, nil},
		{"Char", `'(\\.|[^'\\])'`, nil},
		{"String", `"(\\.|[^"\\])*"`, nil},
		{"Operator", `(==|!=|<=|>=|&&|\|\||[-+*/%=<>!])`, nil},
		{"Punctuation", `[{}()\[\],;]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
