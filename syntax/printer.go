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

import "strings"

// Render prints trees back to source, trivia included. Tokens built by
// macros carry no trivia; a space is put between two of them where the
// words would otherwise run together.
func Render(trees []TokenTree) string {
	var p printer
	for _, t := range trees {
		p.write(t)
	}
	return p.b.String()
}

// RenderTree prints a single tree without the trivia in front of it.
func RenderTree(tree TokenTree) string {
	var p printer
	p.write(WithLeading(tree, ""))
	return p.b.String()
}

func (f *File) String() string {
	return Render(f.Trees) + f.Trailing
}

type printer struct {
	b    strings.Builder
	last *Token
}

func isWord(t *Token) bool {
	return t != nil && (t.Kind == Ident || t.Kind == Literal)
}

func (p *printer) token(t *Token) {
	if t.Leading == "" && isWord(p.last) && isWord(t) {
		p.b.WriteByte(' ')
	}
	p.b.WriteString(t.Leading)
	p.b.WriteString(t.Text)
	p.last = t
}

func (p *printer) write(tree TokenTree) {
	switch t := tree.(type) {
	case *Token:
		p.token(t)
	case *Delimited:
		p.token(t.Open)
		for _, inner := range t.Trees {
			p.write(inner)
		}
		p.token(t.Close)
	}
}
