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
// Package testtool holds helpers shared by tests that need the Go
// toolchain at run time.
package testtool

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

var (
	probeOnce sync.Once
	probeSkip string
)

func probe() string {
	switch runtime.GOOS {
	case "linux", "darwin", "freebsd":
	default:
		return "plugins are not supported on " + runtime.GOOS
	}
	if raceEnabled {
		return "plugins built without -race cannot be loaded into a race-enabled binary"
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		return "go toolchain not in PATH"
	}
	out, err := exec.Command(goBin, "env", "CGO_ENABLED").Output()
	if err != nil {
		return "go env failed: " + err.Error()
	}
	if strings.TrimSpace(string(out)) != "1" {
		return "cgo is disabled"
	}
	// standalone units are built outside any module, by the default toolchain
	cmd := exec.Command(goBin, "env", "GOVERSION")
	cmd.Dir = os.TempDir()
	out, err = cmd.Output()
	if err != nil {
		return "go env failed: " + err.Error()
	}
	if v := strings.TrimSpace(string(out)); v != runtime.Version() {
		return "toolchain " + v + " differs from test binary " + runtime.Version()
	}
	return ""
}

// RequirePlugins skips t unless modules can be built and loaded here.
func RequirePlugins(t testing.TB) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping toolchain test in short mode")
	}
	probeOnce.Do(func() { probeSkip = probe() })
	if probeSkip != "" {
		t.Skip(probeSkip)
	}
}

// RequireUninstrumented skips t when packages of this module are built
// with coverage: a module importing them would not match the host.
func RequireUninstrumented(t testing.TB) {
	t.Helper()
	if testing.CoverMode() != "" {
		t.Skip("skipping under coverage instrumentation")
	}
}

// FakeGo writes an executable shell script standing in for the toolchain
// and returns its path.
func FakeGo(t testing.TB, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake toolchain needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "go")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("write fake toolchain: %v", err)
	}
	return path
}
