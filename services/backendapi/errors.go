package backendapi

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials means the credential exchange rejected the
// identifier/secret pair.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrLoginNotConfirmed means the tenant login step did not confirm the
// temporary token.
var ErrLoginNotConfirmed = errors.New("login was not confirmed")

// ErrSessionExpired means an authenticated call came back 401. The stored
// session has already been cleared by the time this surfaces.
var ErrSessionExpired = errors.New("session expired, please sign in again")

// PersistenceError means a backend write failed before any external side
// effect occurred.
type PersistenceError struct {
	Op     string
	Status int
	Body   string
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("backend %s failed with status %d", e.Op, e.Status)
}
