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
	"fmt"
	"go/parser"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/launix-de/dyneval/eval"
	"github.com/launix-de/dyneval/expand"
	"github.com/launix-de/dyneval/logger"
	"github.com/launix-de/dyneval/syntax"
)

func newEvalCommand(a *app) *cobra.Command {
	var typ, envFile string
	var expr bool
	cmd := &cobra.Command{
		Use:   "eval [flags] BODY",
		Short: "Compile a function body, call it and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkType(typ); err != nil {
				return err
			}
			env, err := readEnvironment(envFile)
			if err != nil {
				return err
			}
			result, err := a.evalBody(cmd.Context(), env, typ, args[0], expr)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&typ, "type", "t", "any", "Result type of the body")
	cmd.Flags().StringVar(&envFile, "env", "", "File with imports and helpers placed before the function")
	cmd.Flags().BoolVarP(&expr, "expr", "e", false, "BODY is a single expression")
	return cmd
}

func readEnvironment(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// checkType rejects result types that are not Go type expressions before
// a build is started for them.
func checkType(typ string) error {
	if typ == "" {
		return nil
	}
	_, err := eval.ParseSignature("() " + typ)
	return err
}

// wrapBody turns body into the body of a func() any: a typed body runs in
// a closure returning typ, whose result is converted on return.
func wrapBody(typ, body string, expr bool) string {
	if expr {
		body = "return " + body
	}
	switch typ {
	case "", "any", "interface{}":
		return body
	}
	return "return func() " + typ + " {\n" + body + "\n}()"
}

func (a *app) evalBody(ctx context.Context, env, typ, body string, expr bool) (any, error) {
	f, err := eval.CompileFn[func() any](ctx, a.ev, env, eval.Returns("any"), wrapBody(typ, body, expr))
	if err != nil {
		return nil, err
	}
	return f.Fn()(), nil
}

// isExpression reports whether line parses as a single Go expression.
func isExpression(line string) bool {
	_, err := parser.ParseExpr(line)
	return err == nil
}

func newExpandCommand(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "expand [flags] FILE",
		Short: "Expand the macros of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.expandFile(cmd.Context(), args[0], out, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write the expansion to this file instead of stdout")
	return cmd
}

// expandFile expands path with a fresh macro table. Diagnostics go to
// errw; any error level diagnostic fails the expansion.
func (a *app) expandFile(ctx context.Context, path, out string, w, errw io.Writer) error {
	text, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	cx := syntax.NewExtCtxt(logger.NewContextWithLogger(ctx, a.log), a.macroTable())
	result, err := expand.Source(cx, path, string(text))
	if err != nil {
		return err
	}
	for _, d := range cx.Diagnostics() {
		fmt.Fprintln(errw, indentContinuation(d.Error()))
	}
	if cx.HasErrors() {
		return errReported
	}
	if out == "" || out == "-" {
		_, err = io.WriteString(w, result)
		return err
	}
	return os.WriteFile(out, []byte(result), 0o644)
}

// indentContinuation indents the lines after the first, multi-line
// toolchain output stays attached to its location.
func indentContinuation(msg string) string {
	msg = strings.TrimRight(msg, "\n")
	return strings.ReplaceAll(msg, "\n", "\n\t")
}
