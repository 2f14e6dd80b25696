package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateRequestFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		valid   bool
	}{
		{
			name:    "minimal valid",
			content: `{"uri": "http://example.com", "method": "GET"}`,
			valid:   true,
		},
		{
			name:    "full valid",
			content: `{"uri": "http://x", "method": "POST", "headers": {"a": "1", "b": null}, "params": {"p": "1"}, "body": {"any": ["thing"]}}`,
			valid:   true,
		},
		{
			name:    "missing method",
			content: `{"uri": "http://example.com"}`,
			valid:   false,
		},
		{
			name:    "numeric header value",
			content: `{"uri": "http://x", "method": "GET", "headers": {"a": 1}}`,
			valid:   false,
		},
		{
			name:    "unknown top-level key",
			content: `{"uri": "http://x", "method": "GET", "assertions": []}`,
			valid:   false,
		},
		{
			name:    "invalid json",
			content: `{"uri": `,
			valid:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFixture(t, "req.kuiper", tt.content)
			result, err := ValidateFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid(), "errors: %v", result.Errors)
		})
	}
}

func TestValidateOverlayFile(t *testing.T) {
	valid := writeFixture(t, "headers.json", `{"a": "1", "b": null}`)
	result, err := ValidateFile(valid)
	require.NoError(t, err)
	assert.True(t, result.Valid())

	invalid := writeFixture(t, "headers.json", `{"a": {"nested": true}}`)
	result, err = ValidateFile(invalid)
	require.NoError(t, err)
	assert.False(t, result.Valid())
}

func TestValidateUnknownFileType(t *testing.T) {
	path := writeFixture(t, "notes.txt", "hello")
	_, err := ValidateFile(path)
	assert.Error(t, err)
}
