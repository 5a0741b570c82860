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
	"io"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWatchCommand(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "watch [flags] FILE",
		Short: "Expand a source file again whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.watch(cmd.Context(), args[0], out, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write the expansion to this file instead of stdout")
	return cmd
}

// watch expands path once and then after every change until ctx is done.
// Every run starts with a fresh macro table.
func (a *app) watch(ctx context.Context, path, out string, w, errw io.Writer) error {
	reread := func() {
		err := a.expandFile(ctx, path, out, w, errw)
		if err != nil && !errors.Is(err, errReported) {
			// error happens during reload: log to console
			a.log.Warn("expansion failed", zap.String("file", path), zap.Error(err))
		}
	}
	reread() // read once at the beginning in sync

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.log.Warn("watch error", zap.String("file", path), zap.Error(err))
		case _, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// flush all other events
		flush:
			for {
				time.Sleep(10 * time.Millisecond) // delay a bit, so we don't read empty files
				select {
				case <-watcher.Events:
				default:
					break flush
				}
			}
			reread()
			watcher.Add(path) // text editors rename, so we have to rewatch
		}
	}
}
