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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Tracefile writes chrome://tracing compatible JSON.
type Tracefile struct {
	isFirst bool
	file    io.WriteCloser
	m       sync.Mutex
}

var start = time.Now()

// OpenTrace creates trace_<unix>.json in dir.
func OpenTrace(dir string) (*Tracefile, error) {
	f, err := os.Create(filepath.Join(dir, "trace_"+fmt.Sprint(time.Now().Unix())+".json"))
	if err != nil {
		return nil, err
	}
	return NewTrace(f), nil
}

func NewTrace(file io.WriteCloser) *Tracefile {
	file.Write([]byte("["))
	return &Tracefile{file: file, isFirst: true}
}

func (t *Tracefile) Close() error {
	t.m.Lock()
	defer t.m.Unlock()
	t.file.Write([]byte("]"))
	return t.file.Close()
}

// Duration records f as a begin/end pair. A nil trace just runs f.
func (t *Tracefile) Duration(name string, cat string, f func()) {
	if t == nil {
		f()
		return
	}
	t.Event(name, cat, "B")
	defer t.Event(name, cat, "E")
	f()
}

type traceEvent struct {
	Name  string `json:"name"`
	Cat   string `json:"cat"`
	Phase string `json:"ph"`
	TS    int64  `json:"ts"` // microseconds since process start
	PID   int    `json:"pid"`
	TID   int    `json:"tid"`
	Scope string `json:"s"`
}

func (t *Tracefile) Event(name string, cat string, typ string) {
	b, _ := json.Marshal(traceEvent{
		Name:  name,
		Cat:   cat,
		Phase: typ,
		TS:    time.Since(start).Microseconds(),
		Scope: "g",
	})
	t.m.Lock()
	if t.isFirst {
		t.isFirst = false
	} else {
		t.file.Write([]byte(",\n"))
	}
	t.file.Write(b)
	t.m.Unlock()
}
