package calendar

import (
	"context"
	"fmt"
	"time"

	"recruitmeet/models"
)

// JoinLinkUnavailable is the marker embedded wherever a conferencing link
// could not be obtained. Its absence of a real URL is a soft failure, not a
// fatal one.
const JoinLinkUnavailable = "Join link not yet available"

// EventResult is what a provider hands back after creating an event.
type EventResult struct {
	ExternalEventID string
	JoinLink        string
	WebLink         string
	LinkAvailable   bool
}

// MeetingURL picks the link persisted to the backend: the join link when the
// provider produced one, the event web link as a fallback, the unavailable
// marker otherwise.
func (r *EventResult) MeetingURL() string {
	if r.LinkAvailable && r.JoinLink != "" {
		return r.JoinLink
	}
	if r.WebLink != "" {
		return r.WebLink
	}
	return JoinLinkUnavailable
}

// EventChanges carries only the draft fields that changed, keyed by draft
// field name (subject, description, startDateTime, endDateTime,
// attendeeEmail). Adapters map them to their own event shapes and no-op on
// an empty set.
type EventChanges map[string]string

// Adapter is the capability set every calendar provider implements. The
// active adapter is resolved once from the session's connection and held as
// a single reference; no tag-based branching inside the orchestrator.
type Adapter interface {
	Provider() models.Provider
	CreateEvent(ctx context.Context, conn *models.ProviderConnection, draft models.MeetingDraft) (*EventResult, error)
	UpdateEvent(ctx context.Context, conn *models.ProviderConnection, eventID string, changes EventChanges) error
}

// ProviderError carries an upstream calendar API failure through to the user.
type ProviderError struct {
	Provider models.Provider
	Status   int
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s API error: status %d", e.Provider, e.Status)
}

// RetryPolicy bounds the join-link poll loop. Tests run it with zero delay.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// wait sleeps one poll interval, honoring cancellation.
func (p RetryPolicy) wait(ctx context.Context) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
