package grammar

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"
)

// ParseFile reads path and parses it as a Program, grounded on the
// teacher's own ParseFile (participle.Build[Program] with the stateful
// lexer, Whitespace elided, and a 3-token lookahead for the layered
// expression grammar's alternations).
func ParseFile(path string) (*Program, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseString(path, string(source))
}

// ParseString parses source (named filename for diagnostics) as a Program.
func ParseString(filename, source string) (*Program, error) {
	parser, err := participle.Build[Program](
		participle.Lexer(SourceLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(3),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	program, err := parser.ParseString(filename, source)
	if err != nil {
		reportParseError(source, err)
		return nil, err
	}
	return program, nil
}

// reportParseError prints to stderr a caret-style diagnostic that opens with
// spec §6/§7's "line N: syntax error at 'lexeme'" line, where the lexeme is
// the whitespace-delimited text at the error column, adapted from the
// teacher's own reportParseError (source line, red caret line).
func reportParseError(src string, err error) {
	pe, ok := err.(participle.Error)
	if !ok {
		color.New(color.FgRed).Fprintf(os.Stderr, "unexpected error: %s\n", err)
		return
	}

	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.New(color.FgRed).Fprintf(os.Stderr, "syntax error at unknown location: %s\n", err)
		return
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", max(pos.Column-1, 0)) + "^"
	lexeme := "end of input"
	if rest := strings.Fields(line[min(max(pos.Column-1, 0), len(line)):]); len(rest) > 0 {
		lexeme = rest[0]
	}

	fmt.Fprintf(os.Stderr, "line %d: syntax error at '%s'\n", pos.Line, lexeme)
	fmt.Fprintln(os.Stderr, line)
	color.New(color.FgHiRed).Fprintln(os.Stderr, caret)
	fmt.Fprintf(os.Stderr, "-> %s\n", pe.Message())
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
