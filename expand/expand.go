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
	"fmt"

	"github.com/launix-de/dyneval/syntax"
)

// Source tokenizes text, expands it with cx and prints the result. A
// tokenizer error is returned as is; expansion errors are collected in cx.
func Source(cx *syntax.ExtCtxt, source, text string) (string, error) {
	f, err := syntax.Parse(source, text)
	if err != nil {
		return "", err
	}
	f.Trees = Expand(cx, f.Trees)
	return f.String(), nil
}

// Expand replaces every `name!(...)` invocation in trees, left to right.
// A definition made by one invocation is visible to every invocation after
// it. Results are expanded again until no invocations are left or the
// recursion limit of cx is reached.
func Expand(cx *syntax.ExtCtxt, trees []syntax.TokenTree) []syntax.TokenTree {
	out := make([]syntax.TokenTree, 0, len(trees))
	for i := 0; i < len(trees); i++ {
		if name, group, ok := invocationAt(trees, i); ok {
			replacement := invoke(cx, name, group)
			if len(replacement) > 0 {
				replacement[0] = syntax.WithLeading(replacement[0], name.Leading)
			}
			out = append(out, replacement...)
			i += 2
			continue
		}
		if d, ok := trees[i].(*syntax.Delimited); ok {
			out = append(out, &syntax.Delimited{Open: d.Open, Close: d.Close, Trees: Expand(cx, d.Trees)})
			continue
		}
		out = append(out, trees[i])
	}
	return out
}

// invocationAt matches `ident ! group` at trees[i].
func invocationAt(trees []syntax.TokenTree, i int) (*syntax.Token, *syntax.Delimited, bool) {
	if i+2 >= len(trees) {
		return nil, nil, false
	}
	name, ok := trees[i].(*syntax.Token)
	if !ok || name.Kind != syntax.Ident {
		return nil, nil, false
	}
	bang, ok := trees[i+1].(*syntax.Token)
	if !ok || !bang.Is(syntax.Punct, "!") || bang.Leading != "" {
		return nil, nil, false
	}
	group, ok := trees[i+2].(*syntax.Delimited)
	if !ok {
		return nil, nil, false
	}
	return name, group, true
}

func invoke(cx *syntax.ExtCtxt, name *syntax.Token, group *syntax.Delimited) []syntax.TokenTree {
	sp := name.Pos.To(group.Close.Pos)
	m, ok := cx.Table().Lookup(name.Text)
	if !ok {
		cx.Errorf(sp, "cannot find macro `%s` in this scope", name.Text)
		return nil
	}
	leave, ok := cx.Nest()
	if !ok {
		cx.Errorf(sp, "recursion limit reached while expanding `%s!`", name.Text)
		return nil
	}
	defer leave()

	result := call(cx, m, sp, group.Trees)
	if result == nil {
		return nil
	}
	return Expand(cx, result.Trees())
}

// call runs the expander; a panic degrades this one invocation.
func call(cx *syntax.ExtCtxt, m *syntax.Macro, sp syntax.Span, args []syntax.TokenTree) (result syntax.MacResult) {
	defer func() {
		if r := recover(); r != nil {
			cx.Errorf(sp, "macro `%s` panicked: %s", m.Name, fmt.Sprint(r))
			result = nil
		}
	}()
	return m.Expander.Expand(cx, sp, args)
}
