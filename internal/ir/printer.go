package ir

import (
	"fmt"
	"strings"
)

// Print renders fn's statement list in the textual three-address-code form
// spec §6 pins down as the test oracle:
//
//	L0:
//		t0 := a + b
//		if t0 == 0 goto L1
//		call printf(.LC0, a)
//		goto L2
//	L1:
//		...
//	L2:
//		return t0
//
// Labels print as "L<n>:", statements are tab-indented, and every operand
// prints as its Symbol's Name (literals, globals, and temporaries all
// already carry the right printable name).
func Print(fn *Function) string {
	var b strings.Builder
	for _, stmt := range fn.Stmts.Slice() {
		writeStatement(&b, stmt)
	}
	return b.String()
}

func writeStatement(b *strings.Builder, stmt Statement) {
	switch s := stmt.(type) {
	case *Null:
		// Null statements carry no textual form; they only preserve a block.
	case *Label:
		fmt.Fprintf(b, "L%d:\n", s.Number)
	case *Jump:
		fmt.Fprintf(b, "\tgoto L%d\n", s.To.Number)
	case *Branch:
		fmt.Fprintf(b, "\tif %s %s %s goto L%d\n", s.Left, s.Op, s.Right, s.To.Number)
	case *Call:
		args := make([]string, len(s.Args))
		for i, a := range s.Args {
			args[i] = a.String()
		}
		if s.Result != nil {
			fmt.Fprintf(b, "\t%s := call %s(%s)\n", s.Result, s.Func, strings.Join(args, ", "))
		} else {
			fmt.Fprintf(b, "\tcall %s(%s)\n", s.Func, strings.Join(args, ", "))
		}
	case *Return:
		if s.Expr != nil {
			fmt.Fprintf(b, "\treturn %s\n", s.Expr)
		} else {
			fmt.Fprintf(b, "\treturn\n")
		}
	case *Binary:
		fmt.Fprintf(b, "\t%s := %s %s %s\n", s.Result, s.Left, s.Op, s.Right)
	case *Unary:
		if s.Op == NEGATE {
			fmt.Fprintf(b, "\t%s := -%s\n", s.Result, s.Expr)
		} else {
			fmt.Fprintf(b, "\t%s := widen %s\n", s.Result, s.Expr)
		}
	case *Copy:
		fmt.Fprintf(b, "\t%s := %s\n", s.Result, s.Expr)
	case *Index:
		fmt.Fprintf(b, "\t%s := %s[%s]\n", s.Result, s.Array, s.Idx)
	case *Update:
		fmt.Fprintf(b, "\t%s[%s] := %s\n", s.Array, s.Idx, s.Expr)
	default:
		panic(fmt.Sprintf("ir: unhandled statement type %T", stmt))
	}
}
