package meeting

import "errors"

// ValidationError names the missing precondition that stopped a submission
// before any network call was issued.
type ValidationError struct {
	Precondition string
}

func (e *ValidationError) Error() string {
	return e.Precondition
}

func newValidationError(msg string) error {
	return &ValidationError{Precondition: msg}
}

// ErrSubmitInFlight rejects a second create/update while one is already
// running for the same session.
var ErrSubmitInFlight = errors.New("a meeting submission is already in progress")
