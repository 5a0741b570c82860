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
	"strings"
	"text/scanner"
)

/* longest first; only ASCII operators are merged */
var operators = []string{
	"<<=", ">>=", "&^=", "...",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"<<", ">>", "&^", "&&", "||", "<-", "++", "--",
	"==", "!=", "<=", ">=", ":=",
}

func longestOperator(s string) string {
	for _, op := range operators {
		if strings.HasPrefix(s, op) {
			return op
		}
	}
	return ""
}

var closing = map[string]string{"(": ")", "[": "]", "{": "}"}

// Parse tokenizes text into token trees. Delimiters must balance; the
// first lexical or nesting error is returned as a *Diagnostic.
func Parse(source, text string) (*File, error) {
	var s scanner.Scanner
	s.Init(strings.NewReader(text))
	s.Filename = source
	s.Mode = scanner.GoTokens
	s.Whitespace = scanner.GoWhitespace

	var lexErr *Diagnostic
	s.Error = func(s *scanner.Scanner, msg string) {
		if lexErr == nil {
			pos := s.Pos()
			lexErr = &Diagnostic{Span: Span{Source: source, Line: pos.Line, Col: pos.Column, Offset: pos.Offset, End: pos.Offset}, Level: Error, Message: msg}
		}
	}

	type frame struct {
		open  *Token
		trees []TokenTree
	}
	stack := []frame{{}}
	prevEnd := 0

	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		if lexErr != nil {
			return nil, lexErr
		}
		pos := s.Position // Next below invalidates s.Position
		off := pos.Offset
		t := &Token{Text: s.TokenText()}
		switch tok {
		case scanner.Ident:
			t.Kind = Ident
		case scanner.Int, scanner.Float, scanner.Char, scanner.String, scanner.RawString:
			t.Kind = Literal
		default:
			t.Kind = Punct
			if op := longestOperator(text[off:]); op != "" {
				for i := 1; i < len(op); i++ {
					s.Next()
				}
				t.Text = op
			}
		}
		end := off + len(t.Text)
		t.Leading = text[prevEnd:off]
		t.Pos = Span{Source: source, Line: pos.Line, Col: pos.Column, Offset: off, End: end}
		prevEnd = end

		top := &stack[len(stack)-1]
		if t.Kind != Punct {
			top.trees = append(top.trees, t)
			continue
		}
		switch t.Text {
		case "(", "[", "{":
			stack = append(stack, frame{open: t})
		case ")", "]", "}":
			if top.open == nil || closing[top.open.Text] != t.Text {
				return nil, &Diagnostic{Span: t.Pos, Level: Error, Message: "unexpected " + t.Text}
			}
			group := &Delimited{Open: top.open, Close: t, Trees: top.trees}
			stack = stack[:len(stack)-1]
			parent := &stack[len(stack)-1]
			parent.trees = append(parent.trees, group)
		default:
			top.trees = append(top.trees, t)
		}
	}
	if lexErr != nil {
		return nil, lexErr
	}
	if len(stack) > 1 {
		open := stack[len(stack)-1].open
		return nil, &Diagnostic{Span: open.Pos, Level: Error, Message: "expecting matching " + closing[open.Text]}
	}
	return &File{Source: source, Trees: stack[0].trees, Trailing: text[prevEnd:]}, nil
}
