package backendapi

import (
	"context"

	"recruitmeet/models"
)

// LoginResult is the outcome of the two-step credential exchange.
type LoginResult struct {
	Token    string `json:"token"`
	TenantID int    `json:"tenantId"`
}

// Client wraps the recruiting backend's REST surface. All authenticated
// calls translate HTTP 401 into ErrSessionExpired and clear the stored
// session as a side effect.
type Client interface {
	RequestLoginToken(ctx context.Context, identifier, secret string) (*LoginResult, error)
	ListCandidates(ctx context.Context, sessionID, token string, pageSize int) ([]models.SuggestionItem, error)
	CreateMeeting(ctx context.Context, sessionID, token string, record models.MeetingRecord) (string, error)
	UpdateMeeting(ctx context.Context, sessionID, token string, id int, changed map[string]any) error
}
