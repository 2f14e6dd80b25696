package cmd

import (
	"errors"

	"github.com/kuiper-http/kuiper/packages/core/env"
	"github.com/kuiper-http/kuiper/packages/core/headers"
	"github.com/kuiper-http/kuiper/packages/core/request"
	kuiperhttp "github.com/kuiper-http/kuiper/packages/http"
)

// Exit codes for the kuiper CLI. A completed HTTP exchange exits 0
// regardless of the HTTP status code.
const (
	// ExitSuccess indicates a completed exchange
	ExitSuccess = 0

	// ExitNotFound indicates a missing request or env file
	ExitNotFound = 1

	// ExitParseError indicates a malformed .kuiper or headers.json file
	ExitParseError = 2

	// ExitInterpolationError indicates an unresolvable placeholder
	ExitInterpolationError = 3

	// ExitTransportError indicates a network/TLS/timeout failure
	ExitTransportError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func exitCode(err error) int {
	var (
		uerr *usageError
		verr *validationError
		rerr *request.ParseError
		herr *headers.ParseError
		ierr *env.InterpolationError
		terr *kuiperhttp.TransportError
	)

	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &uerr):
		return ExitUsageError
	case errors.Is(err, request.ErrNotFound):
		return ExitNotFound
	case errors.As(err, &rerr), errors.As(err, &herr), errors.As(err, &verr):
		return ExitParseError
	case errors.As(err, &ierr):
		return ExitInterpolationError
	case errors.As(err, &terr):
		return ExitTransportError
	default:
		return 1
	}
}
