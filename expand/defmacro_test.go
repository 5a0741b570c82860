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
package expand

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/launix-de/dyneval/eval"
	"github.com/launix-de/dyneval/internal/testtool"
	"github.com/launix-de/dyneval/logger"
	"github.com/launix-de/dyneval/syntax"
)

const romanMacro = `defmacro!(rn, {
	if len(args) != 1 {
		cx.Errorf(sp, "argument should be a single identifier")
		return syntax.DummyResult(sp)
	}
	tok, ok := args[0].(*syntax.Token)
	if !ok || tok.Kind != syntax.Ident {
		cx.Errorf(sp, "argument should be a single identifier")
		return syntax.DummyResult(sp)
	}
	numerals := map[byte]uint64{'M': 1000, 'D': 500, 'C': 100, 'L': 50, 'X': 10, 'V': 5, 'I': 1}
	text := strings.ToUpper(tok.Text)
	var total uint64
	for i := 0; i < len(text); i++ {
		v, ok := numerals[text[i]]
		if !ok {
			cx.Errorf(sp, "bad roman numeral")
			return syntax.DummyResult(sp)
		}
		if i+1 < len(text) && numerals[text[i+1]] > v {
			total -= v
		} else {
			total += v
		}
	}
	return syntax.MacEager(cx.ExprUint(sp, total))
})`

func TestDefmacroBadArguments(t *testing.T) {
	table := syntax.NewMacroTable()
	Register(table, eval.New(eval.DefaultSettings()))
	cx := syntax.NewExtCtxt(context.Background(), table)

	got, err := Source(cx, "t.go", "defmacro!(rn { 1 })\nx := rn!(X)\n")
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	diags := cx.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("diagnostics = %v", diags)
	}
	if diags[0].Message != "bad arguments: expected defmacro!(name, { body })" {
		t.Fatalf("first diagnostic = %v", diags[0])
	}
	if diags[1].Message != "cannot find macro `rn` in this scope" {
		t.Fatalf("second diagnostic = %v", diags[1])
	}
	if _, ok := table.Lookup("rn"); ok {
		t.Fatal("malformed definition installed a macro")
	}
	if got != "\nx :=\n" {
		t.Fatalf("Source = %q", got)
	}
}

func TestDefmacroInternalError(t *testing.T) {
	s := eval.DefaultSettings()
	s.GoBin = testtool.FakeGo(t, "exit 0") // succeeds without producing a module
	s.ModuleDir = t.TempDir()
	table := syntax.NewMacroTable()
	Register(table, eval.New(s))
	cx := syntax.NewExtCtxt(context.Background(), table)

	got, err := Source(cx, "t.go", "defmacro!(m, { return nil })\nm!()\n")
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	diags := cx.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("diagnostics = %v", diags)
	}
	if diags[0].Message != "internal error" || diags[0].Span.Line != 1 || diags[0].Span.Col != 1 {
		t.Fatalf("first diagnostic = %v", diags[0])
	}
	if diags[1].Message != "cannot find macro `m` in this scope" || diags[1].Span.Line != 2 {
		t.Fatalf("second diagnostic = %v", diags[1])
	}
	if _, ok := table.Lookup("m"); ok {
		t.Fatal("failed build installed a macro")
	}
	if got != "\n" {
		t.Fatalf("Source = %q", got)
	}
}

func TestDefmacroOperands(t *testing.T) {
	tests := []struct {
		src string
		ok  bool
	}{
		{"rn, { x }", true},
		{"rn, x", true},
		{"rn { x }", false},
		{"1, { x }", false},
		{"rn; { x }", false},
		{"rn, { x }, y", false},
		{"", false},
	}
	for _, tt := range tests {
		f, err := syntax.Parse("t.go", tt.src)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.src, err)
		}
		if _, _, ok := defmacroOperands(f.Trees); ok != tt.ok {
			t.Fatalf("defmacroOperands(%q) = %v, want %v", tt.src, ok, tt.ok)
		}
	}
}

func TestDefmacroRoman(t *testing.T) {
	testtool.RequirePlugins(t)
	testtool.RequireUninstrumented(t)

	table := syntax.NewMacroTable()
	Register(table, eval.New(eval.DefaultSettings()))
	ctx := logger.NewContextWithLogger(context.Background(), zaptest.NewLogger(t))
	cx := syntax.NewExtCtxt(ctx, table)

	got, err := Source(cx, "roman.go", romanMacro+"\nvar year = rn!(MMXV)\n")
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	if cx.HasErrors() {
		t.Fatalf("diagnostics = %v", cx.Diagnostics())
	}
	if got != "\nvar year = 2015\n" {
		t.Fatalf("Source = %q", got)
	}

	// the macro stays defined for later sources of the same table
	got, err = Source(cx, "later.go", "f(rn!(xiv), rn!(MCMXCIX))")
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	if got != "f(14, 1999)" || cx.HasErrors() {
		t.Fatalf("Source = %q, diagnostics %v", got, cx.Diagnostics())
	}

	// diagnostics reported by compiled code reach the context
	Source(cx, "bad.go", "rn!(1, 2)")
	diags := cx.Diagnostics()
	if len(diags) != 1 || diags[0].Message != "argument should be a single identifier" {
		t.Fatalf("diagnostics = %v", diags)
	}
}

func TestDefmacroDiagnostic(t *testing.T) {
	testtool.RequirePlugins(t)
	testtool.RequireUninstrumented(t)

	table := syntax.NewMacroTable()
	Register(table, eval.New(eval.DefaultSettings()))
	cx := syntax.NewExtCtxt(context.Background(), table)

	if _, err := Source(cx, "t.go", "defmacro!(broken, { return 1 })"); err != nil {
		t.Fatalf("Source: %v", err)
	}
	diags := cx.Diagnostics()
	if len(diags) != 1 || !strings.Contains(diags[0].Message, "eval.go") {
		t.Fatalf("diagnostics = %v", diags)
	}
	if _, ok := table.Lookup("broken"); ok {
		t.Fatal("failed definition installed a macro")
	}
}
