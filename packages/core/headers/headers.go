package headers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// OverlayFilename is the per-directory header overlay file.
const OverlayFilename = "headers.json"

// Headers is one layer of header configuration. A nil value is a
// tombstone: it removes the key from everything inherited so far.
type Headers map[string]*string

// Merged is the flattened result of folding layers. No tombstones remain.
type Merged map[string]string

// Merge folds the given layers left to right into a flat mapping.
// Later layers override earlier ones; a nil value deletes the key at
// that point (a later layer may reintroduce it). Merging an empty or
// nil layer is a no-op.
func Merge(layers ...Headers) Merged {
	result := make(Merged)
	for _, layer := range layers {
		for name, value := range layer {
			if value == nil {
				delete(result, name)
				continue
			}
			result[name] = *value
		}
	}
	return result
}

// Apply folds a single layer into an existing accumulation in place.
func (m Merged) Apply(layer Headers) {
	for name, value := range layer {
		if value == nil {
			delete(m, name)
			continue
		}
		m[name] = *value
	}
}

// Names returns the merged header names in sorted order.
func (m Merged) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadOverlay reads dir/headers.json into a layer. A missing file is
// not an error; it returns a nil layer. Invalid JSON, a non-object
// document, or a value that is neither string nor null is a ParseError.
func LoadOverlay(dir string) (Headers, error) {
	path := filepath.Join(dir, OverlayFilename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	layer, err := Parse(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return layer, nil
}

// Parse decodes a header mapping, rejecting values that are neither
// string nor null. Duplicate keys within the object follow JSON
// last-value-wins before they reach the merge.
func Parse(data []byte) (Headers, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	layer := make(Headers, len(raw))
	for name, value := range raw {
		switch {
		case string(value) == "null":
			layer[name] = nil
		default:
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				return nil, fmt.Errorf("header %q: value must be a string or null, got %s", name, value)
			}
			layer[name] = &s
		}
	}
	return layer, nil
}

// Value builds a non-tombstone layer entry.
func Value(s string) *string {
	return &s
}
