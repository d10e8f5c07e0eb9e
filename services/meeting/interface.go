package meeting

import (
	"context"

	"recruitmeet/models"
)

// Status classifies a submission outcome. Warning is deliberately distinct
// from failure: the external calendar event exists but the backend record
// does not, and callers must be able to tell "nothing happened" from
// "partially happened".
type Status string

const (
	StatusCreated Status = "created"
	StatusUpdated Status = "updated"
	StatusWarning Status = "warning"
	StatusNoop    Status = "noop"
)

// SubmitResult reports what a create/update actually did.
type SubmitResult struct {
	Status          Status `json:"status"`
	BackendID       string `json:"backendId,omitempty"`
	ExternalEventID string `json:"externalEventId,omitempty"`
	JoinLink        string `json:"joinLink,omitempty"`
	Message         string `json:"message"`
	// ClearDraft tells the form to reset subject/description (create) or to
	// leave edit mode (update).
	ClearDraft bool `json:"clearDraft"`
}

// Service drives the create/update workflow across the session store, the
// active calendar adapter and the backend client, reconciling partial
// failure. There is no compensating transaction: an orphaned external event
// is reported, never rolled back.
type Service interface {
	SubmitCreate(ctx context.Context, sessionID string, draft models.MeetingDraft) (*SubmitResult, error)
	SubmitUpdate(ctx context.Context, sessionID string, edit models.EditSession, current models.MeetingDraft) (*SubmitResult, error)
}
