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
	"errors"
	"fmt"
)

// Func is a compiled entry point bound to a Go function type. It holds its
// module, so the two travel together and cannot be separated.
type Func[F any] struct {
	module *Module
	fn     F
}

// Fn returns the typed function. Calling it runs the compiled code directly
// with no recovery: a panic or crash in the body is the caller's problem.
func (f *Func[F]) Fn() F {
	return f.fn
}

// Module returns the module the function lives in.
func (f *Func[F]) Module() *Module {
	return f.module
}

// Bind is the one place where a loaded symbol becomes a typed function.
// F must be the unnamed func type of the synthesized signature, e.g.
// func(uint32) uint32 for "(a uint32) uint32"; named func types never match
// a plugin symbol. A mismatch is reported instead of being called.
func Bind[F any](m *Module, sym any) (*Func[F], error) {
	if m == nil {
		return nil, infraError("bind", errors.New("no module"))
	}
	fn, ok := sym.(F)
	if !ok {
		var want F
		return nil, infraError("bind", fmt.Errorf("%w: have %T, want %T", ErrSignatureMismatch, sym, want))
	}
	return &Func[F]{module: m, fn: fn}, nil
}
