package smoke

import "errors"

// Sentinel errors.
var (
	ErrInvalidConfig = errors.New("invalid smoke config")
	ErrUnreachable   = errors.New("service unreachable")
	ErrChecksFailed  = errors.New("smoke checks failed")
	ErrStatus        = errors.New("unexpected status code")
	ErrMissingCORS   = errors.New("missing CORS header")
	ErrBody          = errors.New("unexpected response body")
)
