package dpm

import "errors"

// Error kinds shared by every package. Callers match them with errors.Is.
var (
	ErrInvalidConvention  = errors.New("invalid convention")
	ErrLengthMismatch     = errors.New("length mismatch")
	ErrDegenerateInterval = errors.New("degenerate interval")
	ErrNonConvergence     = errors.New("solver did not converge")
	ErrOutOfDomain        = errors.New("out of domain")
	ErrMissingMarketData  = errors.New("missing market data")
	ErrInvalidInput       = errors.New("invalid input")
)
