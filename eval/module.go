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
	"sync"
	"time"

	"github.com/google/btree"
	"github.com/google/uuid"
)

// Module is a native module mapped into the process. Go cannot unmap a
// plugin, so every module stays in the arena until the process exits and
// no handle derived from it can outlive it.
type Module struct {
	ID     string
	Path   string // where the module was loaded from; the file is gone after Load
	Size   int64
	Loaded time.Time

	lookup func(name string) (any, error)
}

// Lookup resolves an exported symbol. A missing symbol is an
// InfrastructureFailure: the toolchain already accepted the source, so the
// entry point must exist.
func (m *Module) Lookup(name string) (any, error) {
	sym, err := m.lookup(name)
	if err != nil {
		return nil, infraError("lookup "+name, err)
	}
	return sym, nil
}

var (
	arena   = btree.NewG[*Module](8, func(a, b *Module) bool { return a.ID < b.ID })
	arenaMu sync.RWMutex
)

func register(path string, size int64, lookup func(string) (any, error)) *Module {
	m := &Module{
		ID:     uuid.NewString(),
		Path:   path,
		Size:   size,
		Loaded: time.Now(),
		lookup: lookup,
	}
	arenaMu.Lock()
	arena.ReplaceOrInsert(m)
	n := arena.Len()
	arenaMu.Unlock()
	modulesLoaded.Set(float64(n))
	return m
}

// Modules lists every module loaded by this process, ordered by ID.
func Modules() []*Module {
	arenaMu.RLock()
	defer arenaMu.RUnlock()
	result := make([]*Module, 0, arena.Len())
	arena.Ascend(func(m *Module) bool {
		result = append(result, m)
		return true
	})
	return result
}

// LookupModule finds a loaded module by ID.
func LookupModule(id string) (*Module, bool) {
	arenaMu.RLock()
	defer arenaMu.RUnlock()
	return arena.Get(&Module{ID: id})
}

// Load maps the artifact into the process and releases its workspace on
// every path, after the module is open.
func Load(art *Artifact) (*Module, error) {
	defer art.Release()
	lookup, err := openPlugin(art.Path)
	if err != nil {
		return nil, infraError("open module", err)
	}
	return register(art.Path, art.Size, lookup), nil
}
