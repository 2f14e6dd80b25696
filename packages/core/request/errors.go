package request

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a request or env file path that does not exist.
var ErrNotFound = errors.New("request not found")

// ParseError reports a .kuiper file that could not be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed request file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
