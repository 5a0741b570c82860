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
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// ErrorKind separates failures of the user's source from failures of the
// environment around it.
type ErrorKind int

const (
	// ToolchainDiagnostic: the toolchain ran and rejected the unit.
	ToolchainDiagnostic ErrorKind = iota + 1
	// InfrastructureFailure: workspace I/O, process launch, module load or
	// symbol resolution went wrong.
	InfrastructureFailure
)

func (k ErrorKind) String() string {
	switch k {
	case ToolchainDiagnostic:
		return "toolchain diagnostic"
	case InfrastructureFailure:
		return "infrastructure failure"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

var (
	ErrToolchainDiagnostic = errors.New("toolchain rejected unit")
	ErrInfrastructure      = errors.New("internal error")

	// ErrSignatureMismatch is wrapped when the symbol found in a module does
	// not have the type the caller bound it to.
	ErrSignatureMismatch = errors.New("entry point has a different signature")
	// ErrPluginUnsupported is returned by the loader on platforms without
	// plugin support.
	ErrPluginUnsupported = errors.New("plugins are not supported on this platform")
)

// EvalError is the only error type returned by the engine. Every error is
// terminal for the request that produced it.
type EvalError struct {
	Kind ErrorKind

	// Diagnostic is the toolchain's stderr, verbatim. Only set for
	// ToolchainDiagnostic.
	Diagnostic string

	// Op names the failing step for InfrastructureFailure (write, launch,
	// open, lookup, bind ...).
	Op  string
	Err error
}

func (e *EvalError) Error() string {
	if e.Kind == ToolchainDiagnostic {
		return e.Diagnostic
	}
	if e.Err == nil {
		return "internal error: " + e.Op
	}
	return fmt.Sprintf("internal error: %s: %v", e.Op, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// Is lets callers classify with errors.Is(err, ErrToolchainDiagnostic) and
// errors.Is(err, ErrInfrastructure).
func (e *EvalError) Is(target error) bool {
	switch target {
	case ErrToolchainDiagnostic:
		return e.Kind == ToolchainDiagnostic
	case ErrInfrastructure:
		return e.Kind == InfrastructureFailure
	}
	return false
}

func infraError(op string, err error) *EvalError {
	return &EvalError{Kind: InfrastructureFailure, Op: op, Err: err}
}

// diagnosticError decodes captured stderr. Invalid UTF-8 is replaced instead
// of aborting, the compiler's text must always reach the user. A toolchain
// that failed silently is reported with its exit status.
func diagnosticError(stderr []byte, status int) *EvalError {
	text, err := unicode.UTF8.NewDecoder().Bytes(stderr)
	if err != nil {
		text = []byte(strings.ToValidUTF8(string(stderr), "\uFFFD"))
	}
	if strings.TrimSpace(string(text)) == "" {
		return &EvalError{Kind: ToolchainDiagnostic, Diagnostic: fmt.Sprintf("toolchain exited with status %d\n", status)}
	}
	return &EvalError{Kind: ToolchainDiagnostic, Diagnostic: string(text)}
}

// IsDiagnostic reports whether err carries toolchain output and returns it.
func IsDiagnostic(err error) (string, bool) {
	var ee *EvalError
	if errors.As(err, &ee) && ee.Kind == ToolchainDiagnostic {
		return ee.Diagnostic, true
	}
	return "", false
}
