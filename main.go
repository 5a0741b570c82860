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
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/launix-de/dyneval/eval"
	"github.com/launix-de/dyneval/expand"
	"github.com/launix-de/dyneval/internal/cli"
	"github.com/launix-de/dyneval/logger"
	"github.com/launix-de/dyneval/syntax"
)

// errReported is returned after diagnostics were already printed.
var errReported = errors.New("errors reported")

type options struct {
	goBin         string
	moduleDir     string
	tmpDir        string
	keepWorkspace bool
	fixImports    bool
	trace         bool
	traceDir      string
	logLevel      string
	metricsAddr   string
}

// app is the state shared by all subcommands, set up before any of them runs.
type app struct {
	opts options
	log  *zap.Logger
	ev   *eval.Evaluator
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "dyneval",
		Short:             "Compile Go function bodies at run time and macro-expand Go sources",
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setup() },
	}
	cli.BindOptions(cli.NewViper("dyneval"), cmd.PersistentFlags(), []cli.Opt{
		cli.NewOpt(&a.opts.goBin, "go", "go", "Go toolchain binary"),
		cli.NewOpt(&a.opts.moduleDir, "module-dir", "", "Build inside this module so units can import its packages"),
		cli.NewOpt(&a.opts.tmpDir, "tmp-dir", "", "Parent directory of build workspaces (default: system temp)"),
		cli.NewOpt(&a.opts.keepWorkspace, "keep-workspace", false, "Leave build workspaces on disk"),
		cli.NewOpt(&a.opts.fixImports, "fix-imports", true, "Add missing standard library imports to units"),
		cli.NewOpt(&a.opts.trace, "trace", false, "Write a chrome trace of build phases"),
		cli.NewOpt(&a.opts.traceDir, "trace-dir", ".", "Directory for trace files"),
		cli.NewOpt(&a.opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)"),
		cli.NewOpt(&a.opts.metricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address"),
	})
	cmd.AddCommand(
		newEvalCommand(a),
		newExpandCommand(a),
		newWatchCommand(a),
		newReplCommand(a),
	)
	return cmd
}

func (a *app) setup() error {
	level, err := logger.ParseLevel(a.opts.logLevel)
	if err != nil {
		return err
	}
	a.log = logger.New(os.Stderr, level)

	s := eval.DefaultSettings()
	s.GoBin = a.opts.goBin
	s.ModuleDir = a.opts.moduleDir
	s.TempDir = a.opts.tmpDir
	s.KeepWorkspace = a.opts.keepWorkspace
	s.FixImports = a.opts.fixImports
	s.Trace = a.opts.trace
	s.TraceDir = a.opts.traceDir
	s.TracePrint = a.opts.trace && level <= zap.DebugLevel
	a.ev = eval.New(s, eval.WithLogger(a.log))

	if a.opts.metricsAddr != "" {
		go a.serveMetrics(a.opts.metricsAddr)
	}
	return nil
}

func (a *app) serveMetrics(addr string) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(eval.PrometheusCollectors()...)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	a.log.Info("serving metrics", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		a.log.Error("metrics server stopped", zap.Error(err))
	}
}

func (a *app) close() {
	if a.ev != nil {
		if err := a.ev.Close(); err != nil {
			a.log.Warn("closing trace", zap.Error(err))
		}
	}
	if a.log != nil {
		a.log.Sync()
	}
}

// macroTable returns a fresh table with the builtin macros.
func (a *app) macroTable() *syntax.MacroTable {
	table := syntax.NewMacroTable()
	expand.Register(table, a.ev)
	return table
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := &app{}
	err := newRootCommand(a).ExecuteContext(ctx)
	stop()
	a.close()
	eval.ReleaseWorkspaces()

	if err != nil {
		if text, ok := eval.IsDiagnostic(err); ok {
			fmt.Fprint(os.Stderr, text)
		} else if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
