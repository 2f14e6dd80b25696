package request

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kuiper-http/kuiper/packages/core/headers"
)

// Extension is the request file extension, including the dot.
const Extension = ".kuiper"

// Request is one parsed .kuiper file plus the header configuration it
// inherits from its ancestor directories.
type Request struct {
	// Name is the path the request was loaded from.
	Name   string
	URI    string
	Method string
	// Headers is the request file's own header layer, applied last.
	Headers headers.Headers
	Params  map[string]string
	Body    json.RawMessage

	// Merged is the final flat header set after folding the directory
	// overlay chain and the request's own layer. Populated by Find.
	Merged headers.Merged
}

// HasBody reports whether the request carries a JSON body.
func (r *Request) HasBody() bool {
	return len(r.Body) > 0 && string(r.Body) != "null"
}

// ParseFile reads and parses a single .kuiper file without resolving
// the overlay chain.
func ParseFile(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	req, err := Parse(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	req.Name = path
	return req, nil
}

// Parse decodes a request descriptor. uri and method are required;
// header values must be strings or null.
func Parse(data []byte) (*Request, error) {
	var raw struct {
		URI     *string           `json:"uri"`
		Method  *string           `json:"method"`
		Headers json.RawMessage   `json:"headers"`
		Params  map[string]string `json:"params"`
		Body    json.RawMessage   `json:"body"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.URI == nil || *raw.URI == "" {
		return nil, fmt.Errorf("missing required field %q", "uri")
	}
	if raw.Method == nil || *raw.Method == "" {
		return nil, fmt.Errorf("missing required field %q", "method")
	}

	req := &Request{
		URI:    *raw.URI,
		Method: *raw.Method,
		Params: raw.Params,
		Body:   raw.Body,
	}

	if len(raw.Headers) > 0 && string(raw.Headers) != "null" {
		layer, err := headers.Parse(raw.Headers)
		if err != nil {
			return nil, err
		}
		req.Headers = layer
	}

	return req, nil
}
