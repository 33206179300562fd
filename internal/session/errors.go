package session

import "fmt"

// PreconditionError is a request that is well formed but cannot run in the
// current session state.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string { return e.Msg }

// ErrNoRewrites is returned by SimplifyExpressions before any rules were
// loaded.
var ErrNoRewrites = &PreconditionError{Msg: "You haven't loaded any rewrites yet!"}

// TransportError is a line that is not a recognized request.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("Deserialization error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ExprError is an expression in a request that does not parse.
type ExprError struct {
	Field string
	Text  string
	Err   error
}

func (e *ExprError) Error() string {
	return fmt.Sprintf("Failed to parse %s: '%s'\n%v", e.Field, e.Text, e.Err)
}

func (e *ExprError) Unwrap() error { return e.Err }
