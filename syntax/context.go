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
package syntax

import (
	"context"
	"fmt"
	"strconv"
)

type Level int

const (
	Error Level = iota + 1
	Warning
)

func (l Level) String() string {
	if l == Warning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a message attached to a source location.
type Diagnostic struct {
	Span    Span
	Level   Level
	Message string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Span, d.Level, d.Message)
}

// DefaultRecursionLimit bounds how deep macro results may expand into
// further macro invocations.
const DefaultRecursionLimit = 64

// ExtCtxt is the state of one expansion run. It carries the macro table, so
// a macro that defines macros changes only this run's table and later
// invocations of the same run see the change.
type ExtCtxt struct {
	RecursionLimit int

	ctx   context.Context
	table *MacroTable
	diags []Diagnostic
	depth int
}

func NewExtCtxt(ctx context.Context, table *MacroTable) *ExtCtxt {
	if ctx == nil {
		ctx = context.Background()
	}
	if table == nil {
		table = NewMacroTable()
	}
	return &ExtCtxt{RecursionLimit: DefaultRecursionLimit, ctx: ctx, table: table}
}

func (cx *ExtCtxt) Context() context.Context { return cx.ctx }
func (cx *ExtCtxt) Table() *MacroTable       { return cx.table }

func (cx *ExtCtxt) Errorf(sp Span, format string, args ...any) {
	cx.diags = append(cx.diags, Diagnostic{Span: sp, Level: Error, Message: fmt.Sprintf(format, args...)})
}

func (cx *ExtCtxt) Warnf(sp Span, format string, args ...any) {
	cx.diags = append(cx.diags, Diagnostic{Span: sp, Level: Warning, Message: fmt.Sprintf(format, args...)})
}

func (cx *ExtCtxt) Diagnostics() []Diagnostic {
	return cx.diags
}

func (cx *ExtCtxt) HasErrors() bool {
	for _, d := range cx.diags {
		if d.Level == Error {
			return true
		}
	}
	return false
}

// Nest enters one level of macro expansion. ok is false once the recursion
// limit is reached; leave must be called when ok is true.
func (cx *ExtCtxt) Nest() (leave func(), ok bool) {
	if cx.depth >= cx.RecursionLimit {
		return nil, false
	}
	cx.depth++
	return func() { cx.depth-- }, true
}

func (cx *ExtCtxt) Depth() int { return cx.depth }

// ExprUint builds an unsigned integer literal.
func (cx *ExtCtxt) ExprUint(sp Span, v uint64) TokenTree {
	return &Token{Kind: Literal, Text: strconv.FormatUint(v, 10), Pos: sp}
}

func (cx *ExtCtxt) ExprInt(sp Span, v int64) TokenTree {
	if v < 0 {
		// keep the sign inside one expression
		return &Delimited{
			Open:  &Token{Kind: Punct, Text: "(", Pos: sp},
			Close: &Token{Kind: Punct, Text: ")", Pos: sp},
			Trees: []TokenTree{&Token{Kind: Literal, Text: strconv.FormatInt(v, 10), Pos: sp}},
		}
	}
	return &Token{Kind: Literal, Text: strconv.FormatInt(v, 10), Pos: sp}
}

func (cx *ExtCtxt) ExprString(sp Span, s string) TokenTree {
	return &Token{Kind: Literal, Text: strconv.Quote(s), Pos: sp}
}

func (cx *ExtCtxt) Ident(sp Span, name string) TokenTree {
	return &Token{Kind: Ident, Text: name, Pos: sp}
}
