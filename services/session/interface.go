package session

import (
	"context"
	"errors"

	"recruitmeet/models"
)

// ErrNotFound is returned when no session exists for the given id.
var ErrNotFound = errors.New("session not found")

// Store persists sessions across page reloads. Constructed once at startup
// and injected into the backend client and the orchestrator; never accessed
// as ambient global state.
type Store interface {
	Load(ctx context.Context, sessionID string) (*models.Session, error)
	Save(ctx context.Context, sess *models.Session) error
	Clear(ctx context.Context, sessionID string) error
}
