package schema

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xeipuuv/gojsonschema"

	"github.com/kuiper-http/kuiper/packages/core/headers"
	"github.com/kuiper-http/kuiper/packages/core/request"
)

const requestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "kuiper request",
  "type": "object",
  "required": ["uri", "method"],
  "properties": {
    "uri": {"type": "string", "minLength": 1},
    "method": {"type": "string", "pattern": "^[A-Za-z]+$"},
    "headers": {
      "type": "object",
      "additionalProperties": {"type": ["string", "null"]}
    },
    "params": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    },
    "body": {}
  },
  "additionalProperties": false
}`

const overlaySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "kuiper headers overlay",
  "type": "object",
  "additionalProperties": {"type": ["string", "null"]}
}`

// Result is the outcome of validating one file.
type Result struct {
	Path   string
	Errors []string
}

func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// ValidateFile checks a .kuiper or headers.json file against its
// schema. Files of other types are rejected.
func ValidateFile(path string) (*Result, error) {
	var schemaDoc string
	switch {
	case filepath.Ext(path) == request.Extension:
		schemaDoc = requestSchema
	case filepath.Base(path) == headers.OverlayFilename:
		schemaDoc = overlaySchema
	default:
		return nil, fmt.Errorf("%s: not a .kuiper or %s file", path, headers.OverlayFilename)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return validate(path, schemaDoc, data)
}

func validate(path, schemaDoc string, data []byte) (*Result, error) {
	outcome, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaDoc),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		// Not even parseable JSON.
		return &Result{Path: path, Errors: []string{err.Error()}}, nil
	}

	result := &Result{Path: path}
	for _, desc := range outcome.Errors() {
		result.Errors = append(result.Errors, desc.String())
	}
	return result, nil
}
