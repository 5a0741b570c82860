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
	"os"
	"sync"

	"github.com/dc0d/onexit"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Workspace is an isolated directory owning everything one build produces:
// the unit source, intermediate files and the module. It is removed by
// Release, which is safe to call more than once.
type Workspace struct {
	ID  string
	Dir string

	keep bool
	log  *zap.Logger
	once sync.Once
	err  error
}

/* workspaces that were created but not yet released; swept on process exit */
var (
	liveWorkspaces   = make(map[*Workspace]struct{})
	liveWorkspacesMu sync.Mutex
	sweepOnce        sync.Once
)

// NewWorkspace creates a fresh directory below root (os.TempDir() if root
// is empty). root is created if missing.
func NewWorkspace(root string, keep bool, log *zap.Logger) (*Workspace, error) {
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.NewString()
	if root != "" {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, infraError("create workspace", err)
		}
	}
	dir, err := os.MkdirTemp(root, "dyneval-")
	if err != nil {
		return nil, infraError("create workspace", err)
	}
	ws := &Workspace{ID: id, Dir: dir, keep: keep, log: log}

	sweepOnce.Do(func() { onexit.Register(ReleaseWorkspaces) })
	liveWorkspacesMu.Lock()
	liveWorkspaces[ws] = struct{}{}
	liveWorkspacesMu.Unlock()

	log.Debug("workspace created", zap.String("workspace", id), zap.String("dir", dir))
	return ws, nil
}

// Release removes the workspace unless it was created with keep.
func (ws *Workspace) Release() error {
	ws.once.Do(func() {
		liveWorkspacesMu.Lock()
		delete(liveWorkspaces, ws)
		liveWorkspacesMu.Unlock()

		if ws.keep {
			ws.log.Info("keeping workspace", zap.String("workspace", ws.ID), zap.String("dir", ws.Dir))
			return
		}
		ws.err = os.RemoveAll(ws.Dir)
		ws.log.Debug("workspace released", zap.String("workspace", ws.ID), zap.Error(ws.err))
	})
	return ws.err
}

// ReleaseWorkspaces releases every workspace that is still alive. It runs
// on exit signals; programs call it before returning from main.
func ReleaseWorkspaces() {
	liveWorkspacesMu.Lock()
	pending := make([]*Workspace, 0, len(liveWorkspaces))
	for ws := range liveWorkspaces {
		pending = append(pending, ws)
	}
	liveWorkspacesMu.Unlock()
	for _, ws := range pending {
		ws.Release()
	}
}
