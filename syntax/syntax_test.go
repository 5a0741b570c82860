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
	"errors"
	"strings"
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	sources := []string{
		"",
		"x",
		"  // leading comment\nfunc f() { return a[1] + b(2, 3) }\n",
		"rn!(MMXV) /* trailing */ \n",
		"s := `raw\nstring` + \"quoted\" + 'c'\n",
		"a <<= 2; b &^= c; d := e... ; f != g",
		"x := 1.5e3 // läuft\n",
	}
	for _, src := range sources {
		f, err := Parse("test.go", src)
		if err != nil {
			t.Fatalf("Parse(%q): %v", src, err)
		}
		if got := f.String(); got != src {
			t.Fatalf("round trip of %q gave %q", src, got)
		}
	}
}

func TestParseNesting(t *testing.T) {
	f, err := Parse("test.go", "m!( a, { b [c] } )")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Trees) != 3 {
		t.Fatalf("top level trees = %d, want 3", len(f.Trees))
	}
	name := f.Trees[0].(*Token)
	bang := f.Trees[1].(*Token)
	group := f.Trees[2].(*Delimited)
	if !name.Is(Ident, "m") || !bang.Is(Punct, "!") || bang.Leading != "" {
		t.Fatalf("unexpected invocation tokens %+v %+v", name, bang)
	}
	if group.Delim() != '(' || len(group.Trees) != 3 {
		t.Fatalf("group = %q with %d trees", group.Delim(), len(group.Trees))
	}
	block := group.Trees[2].(*Delimited)
	if block.Delim() != '{' || len(block.Trees) != 2 {
		t.Fatalf("block = %q with %d trees", block.Delim(), len(block.Trees))
	}
	if got := RenderTree(block); got != "{ b [c] }" {
		t.Fatalf("RenderTree = %q", got)
	}
}

func TestParseOperators(t *testing.T) {
	f, err := Parse("test.go", "a<<=b&&c:=d")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var texts []string
	for _, tree := range f.Trees {
		texts = append(texts, tree.(*Token).Text)
	}
	if got := strings.Join(texts, " "); got != "a <<= b && c := d" {
		t.Fatalf("tokens = %q", got)
	}
}

func TestParsePositions(t *testing.T) {
	f, err := Parse("pos.go", "a\n  b += c")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	op := f.Trees[2].(*Token)
	if op.Text != "+=" || op.Pos.Line != 2 || op.Pos.Col != 5 {
		t.Fatalf("operator at %v", op.Pos)
	}
	c := f.Trees[3].(*Token)
	if c.Pos.String() != "pos.go:2:8" || c.Leading != " " {
		t.Fatalf("c at %v with leading %q", c.Pos, c.Leading)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a )", "unexpected )"},
		{"( a ]", "unexpected ]"},
		{"f(a, {b}", "expecting matching )"},
		{`"open`, "literal not terminated"},
	}
	for _, tt := range tests {
		_, err := Parse("bad.go", tt.src)
		var d *Diagnostic
		if !errors.As(err, &d) {
			t.Fatalf("Parse(%q) = %v, want diagnostic", tt.src, err)
		}
		if !strings.Contains(d.Message, tt.want) || d.Span.Source != "bad.go" {
			t.Fatalf("Parse(%q) = %v, want %q", tt.src, d, tt.want)
		}
	}
}

func TestWithLeading(t *testing.T) {
	f, err := Parse("test.go", "  (x)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	moved := WithLeading(f.Trees[0], "\n")
	if Leading(moved) != "\n" || Leading(f.Trees[0]) != "  " {
		t.Fatal("WithLeading must copy the tree")
	}
	if got := Render([]TokenTree{moved}); got != "\n(x)" {
		t.Fatalf("Render = %q", got)
	}
}

func TestMacroTable(t *testing.T) {
	table := NewMacroTable()
	noop := ExpanderFunc(func(cx *ExtCtxt, sp Span, args []TokenTree) MacResult { return MacEager() })
	if table.Define("b", "second", noop) {
		t.Fatal("first definition reported as replacement")
	}
	table.Define("a", "first", noop)
	if !table.Insert(&Macro{Name: "b", Desc: "redefined", Expander: noop}) {
		t.Fatal("redefinition not reported")
	}
	if got := strings.Join(table.Names(), ","); got != "a,b" || table.Len() != 2 {
		t.Fatalf("Names = %q", got)
	}
	m, ok := table.Lookup("b")
	if !ok || m.Desc != "redefined" {
		t.Fatalf("Lookup(b) = %+v, %v", m, ok)
	}
	if _, ok := table.Lookup("c"); ok {
		t.Fatal("Lookup of undefined macro succeeded")
	}
}

func TestExtCtxt(t *testing.T) {
	cx := NewExtCtxt(nil, nil)
	if cx.Context() != context.Background() || cx.Table() == nil {
		t.Fatal("defaults not applied")
	}
	sp := Span{Source: "x.go", Line: 1, Col: 2}
	cx.Warnf(sp, "careful")
	if cx.HasErrors() {
		t.Fatal("warning counted as error")
	}
	cx.Errorf(sp, "bad %d", 7)
	if !cx.HasErrors() || len(cx.Diagnostics()) != 2 {
		t.Fatalf("diagnostics = %v", cx.Diagnostics())
	}
	if got := cx.Diagnostics()[1].Error(); got != "x.go:1:2: error: bad 7" {
		t.Fatalf("Error() = %q", got)
	}

	cx.RecursionLimit = 2
	leave1, ok := cx.Nest()
	if !ok {
		t.Fatal("first level refused")
	}
	leave2, ok := cx.Nest()
	if !ok {
		t.Fatal("second level refused")
	}
	if _, ok := cx.Nest(); ok {
		t.Fatal("limit not enforced")
	}
	leave2()
	leave1()
	if cx.Depth() != 0 {
		t.Fatalf("depth = %d after leaving", cx.Depth())
	}
}

func TestBuilders(t *testing.T) {
	cx := NewExtCtxt(context.Background(), nil)
	sp := Span{}
	tests := []struct {
		tree TokenTree
		want string
	}{
		{cx.ExprUint(sp, 2015), "2015"},
		{cx.ExprInt(sp, -3), "(-3)"},
		{cx.ExprInt(sp, 3), "3"},
		{cx.ExprString(sp, "a\"b"), `"a\"b"`},
		{cx.Ident(sp, "x"), "x"},
	}
	for _, tt := range tests {
		if got := RenderTree(tt.tree); got != tt.want {
			t.Fatalf("rendered %q, want %q", got, tt.want)
		}
	}
}

func TestRenderSeparatesBuiltWords(t *testing.T) {
	cx := NewExtCtxt(context.Background(), nil)
	sp := Span{}
	trees := []TokenTree{
		cx.Ident(sp, "var"), cx.Ident(sp, "x"), cx.Ident(sp, "uint64"),
		&Token{Kind: Punct, Text: "=", Pos: sp},
		cx.ExprUint(sp, 7),
	}
	if got := Render(trees); got != "var x uint64=7" {
		t.Fatalf("Render = %q", got)
	}
	call := &Delimited{
		Open:  &Token{Kind: Punct, Text: "(", Pos: sp},
		Close: &Token{Kind: Punct, Text: ")", Pos: sp},
		Trees: []TokenTree{cx.ExprString(sp, "a")},
	}
	if got := Render([]TokenTree{cx.Ident(sp, "f"), call, cx.Ident(sp, "g")}); got != `f("a")g` {
		t.Fatalf("Render = %q", got)
	}
}
