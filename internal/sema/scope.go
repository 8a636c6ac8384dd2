// Package sema builds the program-wide symbol scope internal/translate
// lowers against and runs a minimal type checker over the AST, grounded on
// the teacher's internal/semantic (scope tree + symbol table + type
// resolution), renamed to avoid confusion with the teacher's EVM-flavored
// package of the same concept.
package sema

import (
	"tacc/internal/ast"
	"tacc/internal/ir"
)

// SpecOf maps an ast.Type's name to the ir.Specifier it's built on; "void"
// has no ir.Specifier and must be checked separately by callers.
func SpecOf(t ast.Type) ir.Specifier {
	if t.Name == "byte" {
		return ir.Byte
	}
	return ir.Word
}

// BuildGlobalScope declares every global variable and function signature
// from prog into a fresh root SymbolTable, and returns the LiteralPool
// sharing that table's ID counter — mirroring the teacher's single shared
// symbol table per compilation unit (spec §5).
func BuildGlobalScope(prog *ast.Program) (*ir.SymbolTable, *ir.LiteralPool) {
	root := ir.NewSymbolTable()
	lits := ir.NewLiteralPool(root)

	for _, g := range prog.Globals {
		root.Declare(g.Name, ir.Type{Spec: SpecOf(g.Type), Length: g.Size}, ir.GLOBAL)
	}
	for _, f := range prog.Functions {
		root.Declare(f.Name, functionType(f), ir.GLOBAL)
	}
	return root, lits
}

func functionType(f *ast.Function) ir.Type {
	params := make([]ir.Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = ir.Type{Spec: SpecOf(p.Type)}
	}
	var ret *ir.Type
	if f.Return.Name != "void" {
		t := ir.Type{Spec: SpecOf(f.Return)}
		ret = &t
	}
	return ir.Type{Params: params, ReturnTyp: ret}
}
