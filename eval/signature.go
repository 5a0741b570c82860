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
package eval

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"strings"
)

// Param is one named parameter of an entry point. Type is an opaque Go
// type expression, it is only ever pasted into source text.
type Param struct {
	Name string
	Type string
}

// Signature of the synthesized entry point.
type Signature struct {
	Params []Param
	Result string // empty: no result
}

// String renders the signature as it appears after the function name,
// e.g. "(a uint32, b uint32) uint32".
func (s Signature) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		if p.Name != "" {
			b.WriteString(p.Name)
			b.WriteByte(' ')
		}
		b.WriteString(p.Type)
	}
	b.WriteByte(')')
	if s.Result != "" {
		b.WriteByte(' ')
		b.WriteString(s.Result)
	}
	return b.String()
}

// Returns builds a parameterless signature.
func Returns(result string) Signature {
	return Signature{Result: result}
}

// ParseSignature reads the form produced by String. It is used by the
// command line; library callers usually build Signature values directly.
func ParseSignature(text string) (Signature, error) {
	expr, err := parser.ParseExpr("func" + strings.TrimSpace(text))
	if err != nil {
		return Signature{}, fmt.Errorf("parse signature %q: %w", text, err)
	}
	ft, ok := expr.(*ast.FuncType)
	if !ok {
		return Signature{}, fmt.Errorf("parse signature %q: not a function signature", text)
	}
	var sig Signature
	if ft.Params != nil {
		for _, field := range ft.Params.List {
			typ := exprString(field.Type)
			if len(field.Names) == 0 {
				sig.Params = append(sig.Params, Param{Type: typ})
				continue
			}
			for _, name := range field.Names {
				sig.Params = append(sig.Params, Param{Name: name.Name, Type: typ})
			}
		}
	}
	if ft.Results != nil && len(ft.Results.List) > 0 {
		if len(ft.Results.List) == 1 && len(ft.Results.List[0].Names) == 0 {
			sig.Result = exprString(ft.Results.List[0].Type)
		} else {
			// multiple or named results keep their parentheses
			sig.Result = exprString(&ast.FuncType{Params: &ast.FieldList{}, Results: ft.Results})[len("func() "):]
		}
	}
	return sig, nil
}

func exprString(e ast.Expr) string {
	var b bytes.Buffer
	printer.Fprint(&b, token.NewFileSet(), e)
	return b.String()
}
