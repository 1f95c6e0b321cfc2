package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrEncode = errors.New("response encoding failed")
	ErrPanic  = errors.New("handler panicked")
)
