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
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/docker/go-units"
	"go.uber.org/zap"
)

const (
	unitFile     = "eval.go"
	artifactFile = "libeval.so"
)

// Artifact is a module file inside its workspace. It is handed to Load,
// which releases the workspace once the module is mapped.
type Artifact struct {
	Path string
	Size int64

	workspace *Workspace
}

// Release drops the workspace that holds the artifact.
func (a *Artifact) Release() error {
	if a.workspace == nil {
		return nil
	}
	return a.workspace.Release()
}

// Toolchain runs the external compiler. The flags are fixed: plugin build
// mode, output into the workspace, the unit file as the only input.
type Toolchain struct {
	GoBin string
	Env   []string // appended to os.Environ()
	Log   *zap.Logger
}

func (tc *Toolchain) logger() *zap.Logger {
	if tc.Log == nil {
		return zap.NewNop()
	}
	return tc.Log
}

// Build writes unit into ws and compiles it. The workspace is not released
// here: on success the artifact still has to be loaded, on failure the
// caller releases it.
func (tc *Toolchain) Build(ctx context.Context, ws *Workspace, unit string) (*Artifact, error) {
	log := tc.logger().With(zap.String("workspace", ws.ID))
	srcPath := filepath.Join(ws.Dir, unitFile)
	outPath := filepath.Join(ws.Dir, artifactFile)

	// the trailer makes every unit unique, two plugins with the same
	// content would share a plugin path and refuse to load side by side
	src := unit + "\n// build " + ws.ID + "\n"
	if err := os.WriteFile(srcPath, []byte(src), 0o644); err != nil {
		return nil, infraError("write unit", err)
	}

	goBin := tc.GoBin
	if goBin == "" {
		goBin = "go"
	}
	cmd := exec.CommandContext(ctx, goBin, "build", "-buildmode=plugin", "-o", outPath, srcPath)
	cmd.Dir = ws.Dir
	cmd.Env = append(os.Environ(), tc.Env...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)
	buildDuration.Observe(elapsed.Seconds())

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			buildsTotal.WithLabelValues("diagnostic").Inc()
			log.Debug("toolchain rejected unit", zap.Duration("elapsed", elapsed), zap.Int("exit", exitErr.ExitCode()))
			return nil, diagnosticError(stderr.Bytes(), exitErr.ExitCode())
		}
		buildsTotal.WithLabelValues("failure").Inc()
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return nil, infraError("launch toolchain", err)
	}

	fi, err := os.Stat(outPath)
	if err != nil {
		buildsTotal.WithLabelValues("failure").Inc()
		return nil, infraError("stat module", err)
	}
	buildsTotal.WithLabelValues("ok").Inc()
	log.Debug("module built",
		zap.Duration("elapsed", elapsed),
		zap.String("size", units.HumanSize(float64(fi.Size()))))
	return &Artifact{Path: outPath, Size: fi.Size(), workspace: ws}, nil
}
