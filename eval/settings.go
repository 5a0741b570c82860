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

import "path/filepath"

// Settings configures an Evaluator. The zero value is usable; call
// DefaultSettings for the recommended defaults.
type Settings struct {
	GoBin     string   // toolchain binary, "go" if empty
	Env       []string // extra environment for the toolchain, KEY=value
	TempDir   string   // parent of standalone workspaces, os.TempDir() if empty
	ModuleDir string   // if set, workspaces are created in ModuleDir/.dyneval so units can import the module's packages

	FixImports    bool // run goimports over synthesized units
	KeepWorkspace bool // leave workspaces on disk for inspection
	Trace         bool // write a chrome trace of build phases (see TraceDir)
	TraceDir      string
	TracePrint    bool // log phase durations
}

func DefaultSettings() Settings {
	return Settings{GoBin: "go", FixImports: true}
}

// ModuleWorkspaceDir is the directory below ModuleDir holding workspaces.
// Patterns like ./... skip it, so kept workspaces never join the module's
// package list.
const ModuleWorkspaceDir = ".dyneval"

// workspaceRoot is where workspaces of this evaluator are created.
func (s Settings) workspaceRoot() string {
	if s.ModuleDir != "" {
		return filepath.Join(s.ModuleDir, ModuleWorkspaceDir)
	}
	return s.TempDir
}
