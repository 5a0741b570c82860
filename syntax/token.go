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

/*
Package syntax is the token-tree model of the macro expander: tokens keep
the whitespace and comments in front of them, so printing a tree gives back
the exact source it was read from.

Macros compiled at run time import this package; keep it free of anything
but the standard library and small data-structure dependencies.
*/
package syntax

import "fmt"

// Span locates a token or tree in its source.
type Span struct {
	Source string
	Line   int
	Col    int
	Offset int // byte offset of the first byte
	End    int // byte offset after the last byte
}

func (sp Span) String() string {
	return fmt.Sprintf("%s:%d:%d", sp.Source, sp.Line, sp.Col)
}

// To returns a span from sp to the end of other.
func (sp Span) To(other Span) Span {
	sp.End = other.End
	return sp
}

type Kind int

const (
	Ident Kind = iota + 1
	Literal
	Punct
)

func (k Kind) String() string {
	switch k {
	case Ident:
		return "ident"
	case Literal:
		return "literal"
	case Punct:
		return "punct"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// TokenTree is either a *Token or a *Delimited group.
type TokenTree interface {
	Span() Span
	tokenTree()
}

type Token struct {
	Kind    Kind
	Text    string
	Leading string // whitespace and comments before the token
	Pos     Span
}

func (t *Token) Span() Span { return t.Pos }
func (*Token) tokenTree()   {}

// Is reports whether t is the given punctuation or identifier.
func (t *Token) Is(kind Kind, text string) bool {
	return t != nil && t.Kind == kind && t.Text == text
}

// Delimited is a (...), [...] or {...} group.
type Delimited struct {
	Open  *Token
	Close *Token
	Trees []TokenTree
}

func (d *Delimited) Span() Span { return d.Open.Pos.To(d.Close.Pos) }
func (*Delimited) tokenTree()   {}

// Delim returns the opening character.
func (d *Delimited) Delim() byte {
	return d.Open.Text[0]
}

// File is a tokenized source: its trees and the trivia after the last one.
type File struct {
	Source   string
	Trees    []TokenTree
	Trailing string
}

// WithLeading returns a copy of tree whose first token is preceded by
// leading instead of its own trivia.
func WithLeading(tree TokenTree, leading string) TokenTree {
	switch t := tree.(type) {
	case *Token:
		c := *t
		c.Leading = leading
		return &c
	case *Delimited:
		open := *t.Open
		open.Leading = leading
		return &Delimited{Open: &open, Close: t.Close, Trees: t.Trees}
	}
	return tree
}

// Leading returns the trivia in front of tree.
func Leading(tree TokenTree) string {
	switch t := tree.(type) {
	case *Token:
		return t.Leading
	case *Delimited:
		return t.Open.Leading
	}
	return ""
}
