/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/launix-de/dyneval/eval"
	"github.com/launix-de/dyneval/expand"
	"github.com/launix-de/dyneval/logger"
	"github.com/launix-de/dyneval/syntax"
)

const newprompt = "\033[32m>\033[0m "
const contprompt = "\033[32m.\033[0m "
const resultprompt = "\033[31m=\033[0m "

const banner = `dyneval Copyright (C) 2026   Carl-Philip Hänsch
    This program comes with ABSOLUTELY NO WARRANTY;
    This is free software, and you are welcome to redistribute it
    under certain conditions;

    Type :help to show help

`

func newReplCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read function bodies and macro definitions interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), banner)
			return a.repl(cmd.Context())
		},
	}
}

// session is the state of one repl: result type, environment and the
// macros defined so far.
type session struct {
	app   *app
	ctx   context.Context
	typ   string
	env   string
	table *syntax.MacroTable
}

func (a *app) newSession(ctx context.Context) *session {
	return &session{app: a, ctx: logger.NewContextWithLogger(ctx, a.log), typ: "any", table: a.macroTable()}
}

func (a *app) repl(ctx context.Context) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            newprompt,
		HistoryFile:       ".dyneval-history.tmp",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer l.Close()
	l.CaptureExitSignal()

	s := a.newSession(ctx)
	w := l.Stdout()
	oldline := ""
	for {
		line, err := l.Readline()
		line = oldline + line
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			oldline = ""
			l.SetPrompt(newprompt)
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		// anti-panic func
		func() {
			defer func() {
				if r := recover(); r != nil {
					fmt.Fprintln(w, "panic:", r, string(debug.Stack()))
					oldline = ""
					l.SetPrompt(newprompt)
				}
			}()
			if s.incomplete(line) {
				// keep oldline
				oldline = line + "\n"
				l.SetPrompt(contprompt)
				return
			}
			s.handle(line, w)
			oldline = ""
			l.SetPrompt(newprompt)
		}()
	}
	return nil
}

// incomplete reports whether line has unclosed delimiters and the repl
// should read on.
func (s *session) incomplete(line string) bool {
	_, err := syntax.Parse("repl", line)
	var d *syntax.Diagnostic
	return errors.As(err, &d) && strings.HasPrefix(d.Message, "expecting matching ")
}

// handle runs one complete input: a :command, or source that is macro
// expanded and, if anything is left, evaluated.
func (s *session) handle(line string, w io.Writer) {
	if strings.HasPrefix(strings.TrimSpace(line), ":") {
		s.command(strings.Fields(strings.TrimSpace(line)), w)
		return
	}

	cx := syntax.NewExtCtxt(s.ctx, s.table)
	body, err := expand.Source(cx, "repl", line)
	if err != nil {
		fmt.Fprintln(w, err)
		return
	}
	for _, d := range cx.Diagnostics() {
		fmt.Fprintln(w, indentContinuation(d.Error()))
	}
	if cx.HasErrors() || strings.TrimSpace(body) == "" {
		return
	}

	result, err := s.app.evalBody(s.ctx, s.env, s.typ, body, isExpression(body))
	if err != nil {
		if text, ok := eval.IsDiagnostic(err); ok {
			fmt.Fprint(w, text)
		} else {
			fmt.Fprintln(w, err)
		}
		return
	}
	fmt.Fprint(w, resultprompt)
	fmt.Fprintln(w, result)
}

func (s *session) command(args []string, w io.Writer) {
	switch args[0] {
	case ":type":
		if len(args) == 1 {
			fmt.Fprintln(w, s.typ)
			return
		}
		typ := strings.Join(args[1:], " ")
		if err := checkType(typ); err != nil {
			fmt.Fprintln(w, err)
			return
		}
		s.typ = typ
	case ":env":
		if len(args) == 1 {
			s.env = ""
			return
		}
		env, err := readEnvironment(args[1])
		if err != nil {
			fmt.Fprintln(w, err)
			return
		}
		s.env = env
	case ":modules":
		for _, m := range eval.Modules() {
			fmt.Fprintf(w, "%s  %8s  %s\n", m.ID, units.HumanSize(float64(m.Size)), m.Loaded.Format(time.RFC3339))
		}
	case ":help":
		fmt.Fprintln(w, `:type [T]    show or set the result type (default any)
:env [FILE]  use FILE as environment, or clear it
:modules     list loaded modules
:help        this help

Expressions are printed, other input is run as a function body.
Macros:`)
		for _, name := range s.table.Names() {
			m, _ := s.table.Lookup(name)
			fmt.Fprintf(w, "  %s!  %s\n", name, m.Desc)
		}
	default:
		fmt.Fprintf(w, "unknown command %s, try :help\n", args[0])
	}
}
