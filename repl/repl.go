// SPDX-License-Identifier: Apache-2.0

// Package repl hosts an interactive TAC shell: each line is parsed as a
// small translation unit, lowered to TAC, optimized, and printed. Session
// entries can be saved to and loaded back from a .tacrepl.yaml transcript;
// loaded entries are appended to the session, not re-run.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"tacc/internal/ir"
	"tacc/internal/optimize"
	"tacc/internal/parser"
	"tacc/internal/sema"
	"tacc/internal/translate"
)

const PROMPT = "tacc> "

// Entry is one recorded session entry: the source snippet the user
// entered and the TAC it produced.
type Entry struct {
	Source string `yaml:"source"`
	TAC    string `yaml:"tac"`
}

// Session is the transcript persisted to .tacrepl.yaml.
type Session struct {
	Entries []Entry `yaml:"entries"`
}

// REPL holds the running optimizer configuration and accumulated
// transcript; each entry is compiled independently (the small language has
// no import/include mechanism, so there is no cross-entry global scope to
// thread).
type REPL struct {
	conf    optimize.Config
	session Session
}

func New() *REPL {
	return &REPL{conf: optimize.DefaultConfig()}
}

// Start runs the interactive loop over in, writing output to out, until in
// is exhausted or the user enters :quit.
func Start(in io.Reader, out io.Writer) {
	r := New()
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()

		if handled, quit := r.handleCommand(line, out); handled {
			if quit {
				return
			}
			continue
		}

		tac, err := r.compile(line)
		if err != nil {
			fmt.Fprintf(out, "error: %s\n", err)
			continue
		}

		fmt.Fprint(out, tac)
		r.session.Entries = append(r.session.Entries, Entry{Source: line, TAC: tac})
	}
}

// handleCommand recognizes ":quit", ":save <path>", and ":load <path>";
// any other line is ordinary source text.
func (r *REPL) handleCommand(line string, out io.Writer) (handled, quit bool) {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == ":quit":
		return true, true
	case strings.HasPrefix(trimmed, ":save "):
		path := strings.TrimSpace(strings.TrimPrefix(trimmed, ":save "))
		if err := r.save(path); err != nil {
			fmt.Fprintf(out, "error: %s\n", err)
		}
		return true, false
	case strings.HasPrefix(trimmed, ":load "):
		path := strings.TrimSpace(strings.TrimPrefix(trimmed, ":load "))
		if err := r.load(path); err != nil {
			fmt.Fprintf(out, "error: %s\n", err)
		} else {
			fmt.Fprintf(out, "loaded %d entries from %s\n", len(r.session.Entries), path)
		}
		return true, false
	}
	return false, false
}

// compile lowers source (one translation unit) to TAC, optimizing with the
// REPL's current pass configuration.
func (r *REPL) compile(source string) (string, error) {
	prog, err := parser.ParseString("<repl>", source)
	if err != nil {
		return "", errors.Wrap(err, "parse")
	}

	globals, lits := sema.BuildGlobalScope(prog)
	report := sema.Check(prog, globals)
	if report.HasErrors() {
		var b strings.Builder
		report.Print(&b)
		return "", errors.New(strings.TrimSpace(b.String()))
	}

	fns := translate.New(globals, lits).TranslateProgram(prog)

	var b strings.Builder
	for _, fn := range fns {
		optimize.Drive(fn, lits, r.conf)
		fmt.Fprint(&b, ir.Print(fn))
	}
	return b.String(), nil
}

// save writes the current transcript to path as YAML.
func (r *REPL) save(path string) error {
	data, err := yaml.Marshal(r.session)
	if err != nil {
		return errors.Wrap(err, "marshal session")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// load reads a transcript from path, appending its entries to the current
// session (it does not replay them — source is only recorded for review).
func (r *REPL) load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	var loaded Session
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return errors.Wrap(err, "unmarshal session")
	}
	r.session.Entries = append(r.session.Entries, loaded.Entries...)
	return nil
}
