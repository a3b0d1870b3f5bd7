// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "load configuration"},
			want: "failed to load configuration",
		},
		{
			name: "with resource",
			err:  &ActionableError{Operation: "open virtual filesystem", Resource: "/srv/vfs"},
			want: "failed to open virtual filesystem: /srv/vfs",
		},
		{
			name: "with cause",
			err: &ActionableError{
				Operation: "open virtual filesystem",
				Resource:  "/srv/vfs",
				Cause:     errors.New("not a directory"),
			},
			want: "failed to open virtual filesystem: /srv/vfs: not a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	sentinel := errors.New("sentinel")
	err := NewErrorContext().
		WithOperation("run script").
		Wrap(fmt.Errorf("reading: %w", sentinel)).
		BuildError()

	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should find the wrapped sentinel")
	}

	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatal("errors.As should find *ActionableError")
	}
	if ae.Operation != "run script" {
		t.Errorf("Operation = %q, want %q", ae.Operation, "run script")
	}
}

func TestActionableError_Format(t *testing.T) {
	err := NewErrorContext().
		WithOperation("open virtual filesystem").
		WithResource("/nope").
		WithSuggestion("Pass an existing directory with --vfs").
		WithSuggestion("Check the vfs entry of your config").
		Wrap(fmt.Errorf("stat: %w", errors.New("no such file or directory"))).
		Build()

	plain := err.Format(false)
	if !strings.Contains(plain, "  • Pass an existing directory with --vfs") {
		t.Errorf("Format(false) missing suggestion:\n%s", plain)
	}
	if strings.Contains(plain, "Error chain:") {
		t.Errorf("Format(false) should not include the error chain:\n%s", plain)
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") {
		t.Errorf("Format(true) should include the error chain:\n%s", verbose)
	}
	if !strings.Contains(verbose, "2. no such file or directory") {
		t.Errorf("Format(true) should list nested causes:\n%s", verbose)
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	if got := NewErrorContext().WithResource("x").Build(); got != nil {
		t.Errorf("Build() = %v, want nil", got)
	}
	if got := NewErrorContext().BuildError(); got != nil {
		t.Errorf("BuildError() = %v, want nil", got)
	}
}
