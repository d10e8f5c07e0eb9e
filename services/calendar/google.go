package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"recruitmeet/models"

	"github.com/google/uuid"
)

// meetTimeZone is the IANA timezone Google Calendar events are created in.
const meetTimeZone = "Europe/Istanbul"

// draftLayout is the wall-clock form drafts arrive in.
const draftLayout = "2006-01-02T15:04"

// MeetAdapter talks to the Google Calendar events API. Unlike Outlook, the
// conferencing join link comes back synchronously in the insert response.
type MeetAdapter struct {
	BaseURL string
	Client  *http.Client
}

// NewMeetAdapter builds the Google adapter.
func NewMeetAdapter(baseURL string) *MeetAdapter {
	return &MeetAdapter{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *MeetAdapter) Provider() models.Provider {
	return models.ProviderGoogle
}

type meetDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type meetEvent struct {
	ID          string `json:"id"`
	HangoutLink string `json:"hangoutLink"`
	HTMLLink    string `json:"htmlLink"`
}

func (a *MeetAdapter) CreateEvent(ctx context.Context, conn *models.ProviderConnection, draft models.MeetingDraft) (*EventResult, error) {
	start, err := meetTime(draft.StartDateTime)
	if err != nil {
		return nil, err
	}
	end, err := meetTime(draft.EndDateTime)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"summary":     draft.Subject,
		"description": draft.Description,
		"start":       meetDateTime{DateTime: start, TimeZone: meetTimeZone},
		"end":         meetDateTime{DateTime: end, TimeZone: meetTimeZone},
		"attendees":   []map[string]string{{"email": draft.AttendeeEmail}},
		"conferenceData": map[string]any{
			"createRequest": map[string]any{
				"requestId":             uuid.New().String(),
				"conferenceSolutionKey": map[string]string{"type": "hangoutsMeet"},
			},
		},
	}

	body, err := a.do(ctx, conn, http.MethodPost, "/calendars/primary/events?conferenceDataVersion=1", payload)
	if err != nil {
		return nil, err
	}
	var created meetEvent
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("failed to decode created event: %w", err)
	}

	return &EventResult{
		ExternalEventID: created.ID,
		JoinLink:        created.HangoutLink,
		WebLink:         created.HTMLLink,
		LinkAvailable:   created.HangoutLink != "",
	}, nil
}

func (a *MeetAdapter) UpdateEvent(ctx context.Context, conn *models.ProviderConnection, eventID string, changes EventChanges) error {
	patch := make(map[string]any)
	// Only defined, non-blank fields go out.
	if v, ok := changes["subject"]; ok && v != "" {
		patch["summary"] = v
	}
	if v, ok := changes["description"]; ok && v != "" {
		patch["description"] = v
	}
	if v, ok := changes["startDateTime"]; ok && v != "" {
		start, err := meetTime(v)
		if err != nil {
			return err
		}
		patch["start"] = meetDateTime{DateTime: start, TimeZone: meetTimeZone}
	}
	if v, ok := changes["endDateTime"]; ok && v != "" {
		end, err := meetTime(v)
		if err != nil {
			return err
		}
		patch["end"] = meetDateTime{DateTime: end, TimeZone: meetTimeZone}
	}
	if v, ok := changes["attendeeEmail"]; ok && v != "" {
		patch["attendees"] = []map[string]string{{"email": v}}
	}
	if len(patch) == 0 {
		return nil
	}
	_, err := a.do(ctx, conn, http.MethodPatch, "/calendars/primary/events/"+eventID, patch)
	return err
}

// meetTime converts a wall-clock draft value into the RFC3339 instant the
// Calendar API expects, interpreted in the event timezone.
func meetTime(value string) (string, error) {
	loc, err := time.LoadLocation(meetTimeZone)
	if err != nil {
		return "", err
	}
	t, err := time.ParseInLocation(draftLayout, value, loc)
	if err != nil {
		return "", fmt.Errorf("invalid date-time %q: %w", value, err)
	}
	return t.Format(time.RFC3339), nil
}

func (a *MeetAdapter) do(ctx context.Context, conn *models.ProviderConnection, method, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+conn.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProviderError{
			Provider: models.ProviderGoogle,
			Status:   resp.StatusCode,
			Message:  upstreamMessage(body),
		}
	}
	return body, nil
}

// upstreamMessage digs the human-readable message out of a provider error
// body; both Graph and Google use an {error: {message}} envelope.
func upstreamMessage(body []byte) string {
	var env struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		return env.Error.Message
	}
	return ""
}
