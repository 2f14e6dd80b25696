package headers

import "fmt"

// ParseError reports a malformed headers.json overlay. It aborts the
// run before any HTTP work happens.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed headers file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
