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
	"sync"

	"github.com/google/btree"
)

// Expander computes the replacement of one macro invocation. args are the
// trees between the invocation's delimiters, unexpanded.
type Expander interface {
	Expand(cx *ExtCtxt, sp Span, args []TokenTree) MacResult
}

type ExpanderFunc func(cx *ExtCtxt, sp Span, args []TokenTree) MacResult

func (f ExpanderFunc) Expand(cx *ExtCtxt, sp Span, args []TokenTree) MacResult {
	return f(cx, sp, args)
}

type Macro struct {
	Name     string
	Desc     string
	Expander Expander
	Defined  Span // zero for builtins
}

// MacroTable maps macro names to expanders. Insert overwrites: the last
// definition of a name wins from that point of the traversal on.
type MacroTable struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[*Macro]
}

func NewMacroTable() *MacroTable {
	return &MacroTable{tree: btree.NewG[*Macro](8, func(a, b *Macro) bool { return a.Name < b.Name })}
}

// Insert adds m and reports whether a previous definition was replaced.
func (t *MacroTable) Insert(m *Macro) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, replaced := t.tree.ReplaceOrInsert(m)
	return replaced
}

// Define is Insert for a builtin.
func (t *MacroTable) Define(name, desc string, e Expander) bool {
	return t.Insert(&Macro{Name: name, Desc: desc, Expander: e})
}

func (t *MacroTable) Lookup(name string) (*Macro, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tree.Get(&Macro{Name: name})
}

// Names lists the defined macros in order.
func (t *MacroTable) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, t.tree.Len())
	t.tree.Ascend(func(m *Macro) bool {
		names = append(names, m.Name)
		return true
	})
	return names
}

func (t *MacroTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tree.Len()
}
