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
	"strings"
	"testing"
)

func TestSynthesize(t *testing.T) {
	got := Synthesize("", Returns("uint32"), "return 0")
	want := "package main\n\n\n\nfunc EvalFn() uint32 {\nreturn 0\n}\n"
	if got != want {
		t.Fatalf("Synthesize = %q, want %q", got, want)
	}

	sig := Signature{Params: []Param{{"a", "uint32"}, {"b", "uint32"}}, Result: "uint32"}
	got = Synthesize(`import "fmt"`, sig, "return a + b")
	want = "package main\n\nimport \"fmt\"\n\nfunc EvalFn(a uint32, b uint32) uint32 {\nreturn a + b\n}\n"
	if got != want {
		t.Fatalf("Synthesize = %q, want %q", got, want)
	}
}

func TestFixImports(t *testing.T) {
	unit := Synthesize("", Signature{Params: []Param{{"s", "string"}}, Result: "string"}, "return strings.ToUpper(s)")
	fixed := fixImports(unit)
	if !strings.Contains(fixed, `import "strings"`) {
		t.Fatalf("missing import was not added:\n%s", fixed)
	}

	broken := Synthesize("", Returns("uint32"), "return 1 +")
	if got := fixImports(broken); got != broken {
		t.Fatalf("unparsable unit was modified:\n%s", got)
	}
}

func TestSignatureString(t *testing.T) {
	tests := []struct {
		sig  Signature
		want string
	}{
		{Signature{}, "()"},
		{Returns("uint32"), "() uint32"},
		{Signature{Params: []Param{{"a", "uint32"}, {"b", "[]byte"}}}, "(a uint32, b []byte)"},
		{Signature{Params: []Param{{Type: "int"}}, Result: "(int, error)"}, "(int) (int, error)"},
	}
	for _, tt := range tests {
		if got := tt.sig.String(); got != tt.want {
			t.Fatalf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseSignature(t *testing.T) {
	sig, err := ParseSignature("(a, b uint32) uint32")
	if err != nil {
		t.Fatalf("ParseSignature: %v", err)
	}
	if got := sig.String(); got != "(a uint32, b uint32) uint32" {
		t.Fatalf("round trip = %q", got)
	}

	sig, err = ParseSignature("(p *strings.Builder) (int, error)")
	if err != nil {
		t.Fatalf("ParseSignature: %v", err)
	}
	if len(sig.Params) != 1 || sig.Params[0].Type != "*strings.Builder" {
		t.Fatalf("params = %+v", sig.Params)
	}
	if sig.Result != "(int, error)" {
		t.Fatalf("result = %q", sig.Result)
	}

	sig, err = ParseSignature("()")
	if err != nil || len(sig.Params) != 0 || sig.Result != "" {
		t.Fatalf("ParseSignature(()) = %+v, %v", sig, err)
	}

	if _, err := ParseSignature("uint32"); err == nil {
		t.Fatal("expected error for a bare type")
	}
}

func TestEvalErrorClassification(t *testing.T) {
	diag := diagnosticError([]byte("./eval.go:5:1: syntax error\n"), 1)
	if !errors.Is(diag, ErrToolchainDiagnostic) || errors.Is(diag, ErrInfrastructure) {
		t.Fatalf("diagnostic misclassified: %v", diag)
	}
	if diag.Error() != "./eval.go:5:1: syntax error\n" {
		t.Fatalf("Error() = %q", diag.Error())
	}
	if text, ok := IsDiagnostic(diag); !ok || text != diag.Diagnostic {
		t.Fatalf("IsDiagnostic = %q, %v", text, ok)
	}

	infra := infraError("open module", errors.New("boom"))
	if !errors.Is(infra, ErrInfrastructure) || errors.Is(infra, ErrToolchainDiagnostic) {
		t.Fatalf("infrastructure failure misclassified: %v", infra)
	}
	if infra.Error() != "internal error: open module: boom" {
		t.Fatalf("Error() = %q", infra.Error())
	}
	if _, ok := IsDiagnostic(infra); ok {
		t.Fatal("infrastructure failure reported as diagnostic")
	}

	var ee *EvalError
	if !errors.As(error(infra), &ee) || ee.Kind != InfrastructureFailure || ee.Op != "open module" {
		t.Fatalf("errors.As = %+v", ee)
	}
	if ee.Kind.String() != "infrastructure failure" {
		t.Fatalf("Kind.String() = %q", ee.Kind.String())
	}
}

func TestDiagnosticLossyDecode(t *testing.T) {
	diag := diagnosticError([]byte{'a', 0xff, 'b'}, 1)
	if diag.Diagnostic != "a�b" {
		t.Fatalf("Diagnostic = %q", diag.Diagnostic)
	}
}

func TestDiagnosticWithoutOutput(t *testing.T) {
	for _, stderr := range []string{"", " \n"} {
		diag := diagnosticError([]byte(stderr), 2)
		if diag.Kind != ToolchainDiagnostic || diag.Error() != "toolchain exited with status 2\n" {
			t.Fatalf("diagnosticError(%q) = %v (%v)", stderr, diag, diag.Kind)
		}
	}
}
