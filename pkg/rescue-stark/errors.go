package rescuestark

import "fmt"

// ErrorCode represents a rescue-stark error code
type ErrorCode int

const (
	// ErrUnknown represents an unknown error
	ErrUnknown ErrorCode = iota

	// ErrInvalidParameters represents an invalid protocol parameter error
	ErrInvalidParameters

	// ErrInvalidStatement represents a malformed statement error
	ErrInvalidStatement

	// ErrInvalidWitness represents a malformed or inconsistent witness error
	ErrInvalidWitness

	// ErrProofGeneration represents a proof generation error
	ErrProofGeneration

	// ErrProofVerification represents a proof rejection
	ErrProofVerification
)

// Error represents a rescue-stark error
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rescue-stark error [%d]: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("rescue-stark error [%d]: %s", e.Code, e.Message)
}

// Unwrap returns the cause of the error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}
