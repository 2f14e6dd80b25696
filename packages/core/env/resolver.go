package env

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/kuiper-http/kuiper/packages/builtin"
)

var placeholderPattern = regexp.MustCompile(`\{\{([^{}]*)\}\}`)

// ErrInvalidFormat reports a placeholder that is not of the form
// {{env:NAME}} or {{expr:FN}}, or an unterminated {{.
var ErrInvalidFormat = errors.New("invalid interpolation format")

// MissingVarError reports an {{env:NAME}} placeholder whose variable
// is not set. Substitution never falls back to the literal token: a
// request carrying "{{env:TOKEN}}" in a header is never intended.
type MissingVarError struct {
	Name string
}

func (e *MissingVarError) Error() string {
	return fmt.Sprintf("missing env var: %q", e.Name)
}

// InterpolationError wraps any substitution failure together with the
// input that triggered it.
type InterpolationError struct {
	Input string
	Err   error
}

func (e *InterpolationError) Error() string {
	return fmt.Sprintf("interpolating %q: %v", e.Input, e.Err)
}

func (e *InterpolationError) Unwrap() error {
	return e.Err
}

// Resolver substitutes {{env:NAME}} and {{expr:FN}} placeholders.
type Resolver struct {
	funcs  *builtin.Registry
	lookup func(string) (string, bool)
}

type ResolverOption func(*Resolver)

// WithLookup overrides where env placeholders are resolved from.
// The default is the OS environment.
func WithLookup(fn func(string) (string, bool)) ResolverOption {
	return func(r *Resolver) {
		r.lookup = fn
	}
}

// WithFuncs overrides the expr function registry.
func WithFuncs(funcs *builtin.Registry) ResolverOption {
	return func(r *Resolver) {
		r.funcs = funcs
	}
}

func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		funcs:  builtin.NewRegistry(),
		lookup: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve substitutes every placeholder in input. Any failure aborts
// the whole resolution.
func (r *Resolver) Resolve(input string) (string, error) {
	// An opening {{ outside a well-formed placeholder means an
	// unterminated or nested token. A bare }} is left alone: nested
	// JSON bodies legitimately end with adjacent closing braces.
	if stripped := placeholderPattern.ReplaceAllString(input, ""); strings.Contains(stripped, "{{") {
		return "", &InterpolationError{Input: input, Err: ErrInvalidFormat}
	}

	var resolveErr error

	result := placeholderPattern.ReplaceAllStringFunc(input, func(match string) string {
		if resolveErr != nil {
			return match
		}

		token := strings.TrimSpace(match[2 : len(match)-2])
		kind, name, found := strings.Cut(token, ":")
		if !found {
			resolveErr = fmt.Errorf("%w: %q", ErrInvalidFormat, match)
			return match
		}

		switch kind {
		case "env":
			value, ok := r.lookup(name)
			if !ok {
				resolveErr = &MissingVarError{Name: name}
				return match
			}
			return value
		case "expr":
			value, err := r.funcs.Call(name)
			if err != nil {
				resolveErr = err
				return match
			}
			return value
		default:
			resolveErr = fmt.Errorf("%w: unknown kind %q in %q", ErrInvalidFormat, kind, match)
			return match
		}
	})

	if resolveErr != nil {
		return "", &InterpolationError{Input: input, Err: resolveErr}
	}
	return result, nil
}

// ResolveAll substitutes placeholders in every value of a string map.
func (r *Resolver) ResolveAll(values map[string]string) (map[string]string, error) {
	result := make(map[string]string, len(values))
	for k, v := range values {
		resolved, err := r.Resolve(v)
		if err != nil {
			return nil, err
		}
		result[k] = resolved
	}
	return result, nil
}
