package env

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func testResolver(vars map[string]string) *Resolver {
	return NewResolver(WithLookup(func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		vars     map[string]string
		expected string
	}{
		{
			name:     "no placeholders",
			input:    "http://localhost/users",
			expected: "http://localhost/users",
		},
		{
			name:     "env placeholder",
			input:    "http://localhost/{{env:ROUTE}}",
			vars:     map[string]string{"ROUTE": "route_value"},
			expected: "http://localhost/route_value",
		},
		{
			name:     "env placeholder with empty value",
			input:    "prefix-{{env:EMPTY}}-suffix",
			vars:     map[string]string{"EMPTY": ""},
			expected: "prefix--suffix",
		},
		{
			name:     "multiple placeholders",
			input:    "{{env:A}}/{{env:B}}",
			vars:     map[string]string{"A": "1", "B": "2"},
			expected: "1/2",
		},
		{
			name:     "surrounding whitespace tolerated",
			input:    "{{ env:A }}",
			vars:     map[string]string{"A": "x"},
			expected: "x",
		},
		{
			name:     "nested json closing braces untouched",
			input:    `{"a": {"b": 1}}`,
			expected: `{"a": {"b": 1}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := testResolver(tt.vars).Resolve(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestResolveExpr(t *testing.T) {
	r := testResolver(nil)

	got, err := r.Resolve("{{expr:uuid}}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("expr:uuid produced %q, not a UUID", got)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "missing env var", input: "{{env:DOES_NOT_EXIST}}"},
		{name: "no kind prefix", input: "{{just_a_name}}"},
		{name: "unknown kind", input: "{{magic:thing}}"},
		{name: "unknown expr", input: "{{expr:teleport}}"},
		{name: "unterminated placeholder", input: "asd{{env:abc"},
		{name: "nested braces", input: "{{e{{nv:hello}}}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testResolver(nil).Resolve(tt.input)
			if err == nil {
				t.Fatalf("Resolve(%q) expected error", tt.input)
			}
			var ierr *InterpolationError
			if !errors.As(err, &ierr) {
				t.Errorf("expected *InterpolationError, got %T: %v", err, err)
			}
		})
	}
}

func TestResolveMissingVarError(t *testing.T) {
	_, err := testResolver(nil).Resolve("{{env:API_TOKEN}}")
	var merr *MissingVarError
	if !errors.As(err, &merr) {
		t.Fatalf("expected *MissingVarError, got %T: %v", err, err)
	}
	if merr.Name != "API_TOKEN" {
		t.Errorf("missing var name = %q, want API_TOKEN", merr.Name)
	}
}

func TestResolveAll(t *testing.T) {
	r := testResolver(map[string]string{"TOKEN": "1234"})

	got, err := r.ResolveAll(map[string]string{
		"Authorization": "Bearer {{env:TOKEN}}",
		"Accept":        "application/json",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["Authorization"] != "Bearer 1234" {
		t.Errorf("Authorization = %q", got["Authorization"])
	}
	if got["Accept"] != "application/json" {
		t.Errorf("Accept = %q", got["Accept"])
	}

	if _, err := r.ResolveAll(map[string]string{"X": "{{env:NOPE}}"}); err == nil {
		t.Error("expected error for unresolvable value")
	}
}
