// Package parser turns source text into internal/ast trees: it drives the
// participle-based CST in package grammar and folds the CST's flat,
// left-recursion-free expression layers into left-associative ast.Binary/
// ast.Logical trees (grammar.go's doc comment explains why the CST itself
// cannot be left-recursive).
package parser

import (
	"tacc/internal/ast"
	"tacc/grammar"
)

// ParseFile parses the file at path into an *ast.Program.
func ParseFile(path string) (*ast.Program, error) {
	prog, err := grammar.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return convertProgram(prog), nil
}

// ParseString parses source (named filename for diagnostics) into an
// *ast.Program.
func ParseString(filename, source string) (*ast.Program, error) {
	prog, err := grammar.ParseString(filename, source)
	if err != nil {
		return nil, err
	}
	return convertProgram(prog), nil
}
