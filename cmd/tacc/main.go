// SPDX-License-Identifier: Apache-2.0

// Command tacc compiles the small C-like source language into three-address
// code and, optionally, optimizes it before printing. Output mode and pass
// selection are independent CLI switches.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"tacc/internal/ast"
	"tacc/internal/ir"
	"tacc/internal/optimize"
	"tacc/internal/parser"
	"tacc/internal/sema"
	"tacc/internal/translate"
	"tacc/repl"
)

type outputMode int

const (
	modeAssembly outputMode = iota
	modeAST
	modeTAC
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	mode := modeAssembly
	conf := optimize.Config{}
	unitID := false
	var path string

	// Every flag is its own independent case: enabling one never implies or
	// silently enables another, fixing the original CLI's fallthrough bug.
	for _, arg := range args {
		switch arg {
		case "-repl":
			repl.Start(os.Stdin, stdout)
			return 0
		case "-A":
			mode = modeAST
		case "-T":
			mode = modeTAC
		case "-S":
			mode = modeAssembly
		case "-O":
			conf = optimize.DefaultConfig()
		case "--dce":
			conf.DCE = true
		case "--cprop":
			conf.CProp = true
		case "--lvn":
			conf.LVN = true
		case "--asimp":
			conf.AlgSimp = true
		case "--cfold":
			conf.CFold = true
		case "--unit-id":
			unitID = true
		default:
			if len(arg) > 0 && arg[0] == '-' {
				fmt.Fprintf(stderr, "unrecognized option %q\n", arg)
				return 1
			}
			path = arg
		}
	}

	source, err := readSource(path)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return 1
	}

	filename := path
	if filename == "" {
		filename = "<stdin>"
	}

	prog, err := parser.ParseString(filename, source)
	if err != nil {
		// internal/parser already wrote "line N: syntax error at 'lexeme'"
		// (via grammar.reportParseError) to stderr.
		return 1
	}

	globals, lits := sema.BuildGlobalScope(prog)
	report := sema.Check(prog, globals)
	if report.HasErrors() {
		report.Print(stderr)
		return 1
	}

	fns := translate.New(globals, lits).TranslateProgram(prog)

	if unitID {
		fmt.Fprintf(stdout, "; unit %s\n", uuid.New().String())
	}

	switch mode {
	case modeAST:
		fmt.Fprint(stdout, ast.PrintProgram(prog))
	case modeTAC:
		printFunctions(stdout, fns, lits, conf)
	case modeAssembly:
		fmt.Fprintln(stdout, "; unimplemented: target assembly")
		printFunctions(stdout, fns, lits, conf)
	}

	return 0
}

func printFunctions(w io.Writer, fns []*ir.Function, lits *ir.LiteralPool, conf optimize.Config) {
	hasPass := conf.DCE || conf.AlgSimp || conf.CFold || conf.LVN || conf.CProp || conf.CSE
	for _, fn := range fns {
		if hasPass {
			optimize.Drive(fn, lits, conf)
		}
		fmt.Fprint(w, ir.Print(fn))
	}
}

func readSource(path string) (string, error) {
	var data []byte
	var err error
	if path == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}
