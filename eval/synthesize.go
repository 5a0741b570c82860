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
	"strings"

	"golang.org/x/tools/imports"
)

// EntrySymbol is the exported function every unit defines and the loader
// looks up. Exported Go identifiers are never mangled, so the name in the
// source is the name in the module.
const EntrySymbol = "EvalFn"

// Synthesize builds the complete source of a unit:
//
//	package main
//	<env>
//	func EvalFn<sig> {<body>}
//
// env and body are pasted verbatim; syntax errors in either only show up as
// a toolchain diagnostic.
func Synthesize(env string, sig Signature, body string) string {
	var b strings.Builder
	b.WriteString("package main\n\n")
	b.WriteString(env)
	b.WriteString("\n\nfunc ")
	b.WriteString(EntrySymbol)
	b.WriteString(sig.String())
	b.WriteString(" {\n")
	b.WriteString(body)
	b.WriteString("\n}\n")
	return b.String()
}

// fixImports adds missing and removes unused standard library imports. A
// unit that does not parse is returned untouched.
func fixImports(unit string) string {
	out, err := imports.Process("eval.go", []byte(unit), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return unit
	}
	return string(out)
}
