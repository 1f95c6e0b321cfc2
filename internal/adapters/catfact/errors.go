package catfact

import "errors"

// Sentinel kinds for fetch failures.
var (
	ErrRequest     = errors.New("fact request failed")
	ErrTimeout     = errors.New("fact request timed out")
	ErrStatus      = errors.New("unexpected fact provider status")
	ErrDecode      = errors.New("malformed fact response")
	ErrMissingFact = errors.New("fact missing from response")
)

// Error annotates a failure with the operation and its kind. Both the kind and
// the underlying cause match errors.Is.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.Error()
	}
	return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func wrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}
