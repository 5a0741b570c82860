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
	"context"
	"time"

	"go.uber.org/zap"
)

// Request is one compilation: an environment (imports and helpers placed
// before the entry point), the entry point's signature and its body.
type Request struct {
	Environment string
	Signature   Signature
	Body        string
}

// Evaluator turns requests into loaded modules. It holds no per-request
// state; concurrent calls each get their own workspace and module.
type Evaluator struct {
	settings Settings
	log      *zap.Logger
	trace    *Tracefile
}

type Option func(*Evaluator)

func WithLogger(log *zap.Logger) Option {
	return func(e *Evaluator) { e.log = log }
}

// WithTrace records build phases into t instead of a file opened from
// Settings.TraceDir.
func WithTrace(t *Tracefile) Option {
	return func(e *Evaluator) { e.trace = t }
}

func New(s Settings, opts ...Option) *Evaluator {
	e := &Evaluator{settings: s, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	if e.trace == nil && s.Trace {
		t, err := OpenTrace(s.TraceDir)
		if err != nil {
			e.log.Warn("cannot open trace file", zap.Error(err))
		} else {
			e.trace = t
		}
	}
	return e
}

func (e *Evaluator) Settings() Settings {
	return e.settings
}

func (e *Evaluator) Logger() *zap.Logger {
	return e.log
}

// WithModuleDir returns a copy of e that builds inside dir.
func (e *Evaluator) WithModuleDir(dir string) *Evaluator {
	e2 := *e
	e2.settings.ModuleDir = dir
	return &e2
}

// Close flushes the trace, if any.
func (e *Evaluator) Close() error {
	if e.trace == nil {
		return nil
	}
	return e.trace.Close()
}

func (e *Evaluator) phase(name string, f func()) {
	if !e.settings.TracePrint {
		e.trace.Duration(name, "dyneval", f)
		return
	}
	begin := time.Now()
	e.trace.Duration(name, "dyneval", f)
	e.log.Info("trace", zap.String("phase", name), zap.Duration("elapsed", time.Since(begin)))
}

// Build synthesizes, compiles and loads req. The workspace is released
// after the module is loaded, or on the first error.
func (e *Evaluator) Build(ctx context.Context, req Request) (m *Module, err error) {
	var unit string
	e.phase("synthesize", func() {
		unit = Synthesize(req.Environment, req.Signature, req.Body)
		if e.settings.FixImports {
			unit = fixImports(unit)
		}
	})

	ws, err := NewWorkspace(e.settings.workspaceRoot(), e.settings.KeepWorkspace, e.log)
	if err != nil {
		return nil, err
	}
	tc := &Toolchain{GoBin: e.settings.GoBin, Env: e.settings.Env, Log: e.log}

	var art *Artifact
	e.phase("build", func() {
		art, err = tc.Build(ctx, ws, unit)
	})
	if err != nil {
		ws.Release()
		return nil, err
	}
	e.phase("load", func() {
		m, err = Load(art)
	})
	if err != nil {
		return nil, err
	}
	e.log.Debug("module loaded", zap.String("module", m.ID), zap.String("workspace", ws.ID))
	return m, nil
}

// Compile builds req and binds its entry point to F.
func Compile[F any](ctx context.Context, e *Evaluator, req Request) (*Func[F], error) {
	m, err := e.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	sym, err := m.Lookup(EntrySymbol)
	if err != nil {
		return nil, err
	}
	return Bind[F](m, sym)
}

// CompileFn is Compile with the request spelled out.
func CompileFn[F any](ctx context.Context, e *Evaluator, env string, sig Signature, body string) (*Func[F], error) {
	return Compile[F](ctx, e, Request{Environment: env, Signature: sig, Body: body})
}

// EvalString compiles body as a parameterless function returning
// resultType and calls it once.
func EvalString[R any](ctx context.Context, e *Evaluator, resultType string, body string) (R, error) {
	var zero R
	f, err := CompileFn[func() R](ctx, e, "", Returns(resultType), body)
	if err != nil {
		return zero, err
	}
	return f.Fn()(), nil
}

// EvalExpr is EvalString for a single expression.
func EvalExpr[R any](ctx context.Context, e *Evaluator, resultType string, expr string) (R, error) {
	return EvalString[R](ctx, e, resultType, "return "+expr)
}
