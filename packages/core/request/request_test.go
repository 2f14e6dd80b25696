package request

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, req *Request)
	}{
		{
			name:  "minimal request",
			input: `{"uri": "http://www.example.com", "method": "GET"}`,
			check: func(t *testing.T, req *Request) {
				if req.URI != "http://www.example.com" {
					t.Errorf("URI = %q", req.URI)
				}
				if req.Method != "GET" {
					t.Errorf("Method = %q", req.Method)
				}
				if req.HasBody() {
					t.Error("HasBody() should be false")
				}
			},
		},
		{
			name:  "headers with null",
			input: `{"uri": "http://x", "method": "GET", "headers": {"a": "1", "b": null}}`,
			check: func(t *testing.T, req *Request) {
				if req.Headers["a"] == nil || *req.Headers["a"] != "1" {
					t.Errorf("header a = %v", req.Headers["a"])
				}
				if v, ok := req.Headers["b"]; !ok || v != nil {
					t.Errorf("header b should be a tombstone")
				}
			},
		},
		{
			name:  "params and body",
			input: `{"uri": "http://x", "method": "POST", "params": {"page": "2"}, "body": {"name": "kuiper"}}`,
			check: func(t *testing.T, req *Request) {
				if req.Params["page"] != "2" {
					t.Errorf("params = %v", req.Params)
				}
				if !req.HasBody() {
					t.Error("HasBody() should be true")
				}
			},
		},
		{
			name:  "explicit null body",
			input: `{"uri": "http://x", "method": "GET", "body": null}`,
			check: func(t *testing.T, req *Request) {
				if req.HasBody() {
					t.Error("null body should not count as a body")
				}
			},
		},
		{
			name:    "missing uri",
			input:   `{"method": "GET"}`,
			wantErr: true,
		},
		{
			name:    "missing method",
			input:   `{"uri": "http://x"}`,
			wantErr: true,
		},
		{
			name:    "invalid json",
			input:   `{"uri": `,
			wantErr: true,
		},
		{
			name:    "non-string header value",
			input:   `{"uri": "http://x", "method": "GET", "headers": {"a": 1}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := Parse([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			tt.check(t, req)
		})
	}
}

func TestParseFileNotFound(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.kuiper"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestParseFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.kuiper")
	if err := os.WriteFile(path, []byte(`not json`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ParseFile(path)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if perr.Path != path {
		t.Errorf("ParseError.Path = %q, want %q", perr.Path, path)
	}
}

func TestSearch(t *testing.T) {
	root := t.TempDir()
	mk := func(rel string) {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(`{"uri": "http://x", "method": "GET"}`), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	mk("users/get_user.kuiper")
	mk("users/create_user.kuiper")
	mk("orders/get_order.kuiper")
	mk("orders/notes.txt")

	t.Run("term filters by path", func(t *testing.T) {
		got, err := Search(root, "user")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("Search(user) = %v, want 2 matches", got)
		}
	})

	t.Run("empty term matches all request files", func(t *testing.T) {
		got, err := Search(root, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("Search(\"\") = %v, want 3 matches", got)
		}
	})

	t.Run("non-kuiper files ignored", func(t *testing.T) {
		got, err := Search(root, "notes")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Search(notes) = %v, want none", got)
		}
	})
}
