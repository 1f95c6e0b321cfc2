package docs

import "errors"

// Sentinel kinds for document errors.
var (
	ErrGenerate     = errors.New("openapi generation failed")
	ErrNotGenerated = errors.New("openapi document not generated")
)
