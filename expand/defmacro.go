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
package expand

import (
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/launix-de/dyneval/eval"
	"github.com/launix-de/dyneval/logger"
	"github.com/launix-de/dyneval/syntax"
)

// expanderFn is the type of the compiled entry point. It has to stay
// unnamed for the binding to match the plugin's symbol.
type expanderFn = func(cx *syntax.ExtCtxt, sp syntax.Span, args []syntax.TokenTree) syntax.MacResult

var syntaxImportPath = reflect.TypeOf(syntax.Span{}).PkgPath()

// macroEnvironment is placed in front of every macro body: access to the
// expansion context, spans and token trees.
var macroEnvironment = `import "` + syntaxImportPath + `"`

var macroSignature = eval.Signature{
	Params: []eval.Param{
		{Name: "cx", Type: "*syntax.ExtCtxt"},
		{Name: "sp", Type: "syntax.Span"},
		{Name: "args", Type: "[]syntax.TokenTree"},
	},
	Result: "syntax.MacResult",
}

// Defmacro implements `defmacro!(name, { body })`: body is compiled as a
// function of (cx, sp, args) returning a syntax.MacResult and installed as
// macro name.
type Defmacro struct {
	evaluator *eval.Evaluator

	locate    sync.Once
	located   *eval.Evaluator
	locateErr error
}

// NewDefmacro uses ev for the builds. If ev has no ModuleDir, the module
// that provides the syntax package is located on first use.
func NewDefmacro(ev *eval.Evaluator) *Defmacro {
	return &Defmacro{evaluator: ev}
}

// Register installs defmacro into table.
func Register(table *syntax.MacroTable, ev *eval.Evaluator) {
	table.Define("defmacro", "defmacro!(name, { body }) compiles body and defines the macro name", NewDefmacro(ev))
}

// compiledMacro keeps the module alongside the function it exports.
type compiledMacro struct {
	fn *eval.Func[expanderFn]
}

func (m *compiledMacro) Expand(cx *syntax.ExtCtxt, sp syntax.Span, args []syntax.TokenTree) syntax.MacResult {
	return m.fn.Fn()(cx, sp, args)
}

func (d *Defmacro) Expand(cx *syntax.ExtCtxt, sp syntax.Span, args []syntax.TokenTree) syntax.MacResult {
	name, body, ok := defmacroOperands(args)
	if !ok {
		cx.Errorf(sp, "bad arguments: expected defmacro!(name, { body })")
		return syntax.DummyResult(sp)
	}

	log := logger.FromContext(cx.Context())
	if log == nil {
		log = d.evaluator.Logger()
	}
	log = log.With(zap.String("macro", name.Text), zap.Stringer("at", sp))

	ev, err := d.moduleEvaluator()
	if err != nil {
		log.Warn("cannot locate host module", zap.Error(err))
		cx.Errorf(sp, "internal error")
		return syntax.DummyResult(sp)
	}

	fn, err := eval.CompileFn[expanderFn](cx.Context(), ev, macroEnvironment, macroSignature, syntax.RenderTree(body))
	if err != nil {
		if text, ok := eval.IsDiagnostic(err); ok {
			cx.Errorf(sp, "%s", text)
		} else {
			log.Warn("macro build failed", zap.Error(err))
			cx.Errorf(sp, "internal error")
		}
		return syntax.DummyResult(sp)
	}

	replaced := cx.Table().Insert(&syntax.Macro{
		Name:     name.Text,
		Desc:     "defined by defmacro",
		Expander: &compiledMacro{fn: fn},
		Defined:  sp,
	})
	log.Debug("macro defined", zap.String("module", fn.Module().ID), zap.Bool("replaced", replaced))
	return syntax.DummyResult(sp)
}

// defmacroOperands matches exactly `ident , tree`.
func defmacroOperands(args []syntax.TokenTree) (*syntax.Token, syntax.TokenTree, bool) {
	if len(args) != 3 {
		return nil, nil, false
	}
	name, ok := args[0].(*syntax.Token)
	if !ok || name.Kind != syntax.Ident {
		return nil, nil, false
	}
	comma, ok := args[1].(*syntax.Token)
	if !ok || !comma.Is(syntax.Punct, ",") {
		return nil, nil, false
	}
	return name, args[2], true
}

func (d *Defmacro) moduleEvaluator() (*eval.Evaluator, error) {
	if d.evaluator.Settings().ModuleDir != "" {
		return d.evaluator, nil
	}
	d.locate.Do(func() {
		var dir string
		dir, d.locateErr = eval.LocateModule("", syntaxImportPath)
		if d.locateErr == nil {
			d.located = d.evaluator.WithModuleDir(dir)
		}
	})
	return d.located, d.locateErr
}
