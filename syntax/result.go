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

// MacResult is what an expander produces: the trees that replace the
// invocation.
type MacResult interface {
	Trees() []TokenTree
}

type eager []TokenTree

func (e eager) Trees() []TokenTree { return e }

// MacEager returns trees as they are.
func MacEager(trees ...TokenTree) MacResult {
	return eager(trees)
}

// DummyResult is the empty expansion used after an error was reported.
func DummyResult(sp Span) MacResult {
	return eager(nil)
}
