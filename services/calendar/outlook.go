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
	"recruitmeet/utils"

	"go.uber.org/zap"
)

// graphTimeZone is the Windows timezone identifier Graph expects for event
// start/end times.
const graphTimeZone = "Turkey Standard Time"

// GraphAdapter talks to Microsoft Graph /me/events for Outlook calendars.
//
// Teams may attach the conferencing join link asynchronously, so creation is
// three steps: create the event with no attendees, poll until the join link
// appears (bounded), then a single PATCH that both adds the attendee and
// embeds the link in the body — exactly one invitation email goes out.
type GraphAdapter struct {
	BaseURL string
	Client  *http.Client
	Policy  RetryPolicy
}

// NewGraphAdapter builds the Outlook adapter.
func NewGraphAdapter(baseURL string, policy RetryPolicy) *GraphAdapter {
	return &GraphAdapter{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 30 * time.Second},
		Policy:  policy,
	}
}

func (a *GraphAdapter) Provider() models.Provider {
	return models.ProviderOutlook
}

type graphDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type graphBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type graphAttendee struct {
	EmailAddress struct {
		Address string `json:"address"`
	} `json:"emailAddress"`
	Type string `json:"type"`
}

type graphEvent struct {
	ID            string     `json:"id"`
	WebLink       string     `json:"webLink"`
	OnlineMeeting *struct {
		JoinURL string `json:"joinUrl"`
	} `json:"onlineMeeting"`
}

func (a *GraphAdapter) CreateEvent(ctx context.Context, conn *models.ProviderConnection, draft models.MeetingDraft) (*EventResult, error) {
	logger := utils.GetLogger()

	payload := map[string]any{
		"subject": draft.Subject,
		"body":    graphBody{ContentType: "HTML", Content: draft.Description},
		"start":   graphDateTime{DateTime: graphLocal(draft.StartDateTime), TimeZone: graphTimeZone},
		"end":     graphDateTime{DateTime: graphLocal(draft.EndDateTime), TimeZone: graphTimeZone},
		// Attendees are deliberately absent here; they are added in the
		// final PATCH together with the join link.
		"isOnlineMeeting":       true,
		"onlineMeetingProvider": "teamsForBusiness",
	}

	body, err := a.do(ctx, conn, http.MethodPost, "/me/events", payload)
	if err != nil {
		return nil, err
	}
	var created graphEvent
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("failed to decode created event: %w", err)
	}

	joinURL := ""
	if created.OnlineMeeting != nil {
		joinURL = created.OnlineMeeting.JoinURL
	}

	// The join link is often not attached synchronously. Poll a bounded
	// number of times; on exhaustion proceed with the marker.
	for attempt := 0; joinURL == "" && attempt < a.Policy.MaxAttempts; attempt++ {
		if err := a.Policy.wait(ctx); err != nil {
			return nil, err
		}
		fetched, err := a.do(ctx, conn, http.MethodGet, "/me/events/"+created.ID, nil)
		if err != nil {
			logger.Warn("join link poll failed", zap.Int("attempt", attempt+1), zap.Error(err))
			continue
		}
		var ev graphEvent
		if err := json.Unmarshal(fetched, &ev); err == nil && ev.OnlineMeeting != nil {
			joinURL = ev.OnlineMeeting.JoinURL
		}
	}

	linkAvailable := joinURL != ""
	if !linkAvailable {
		logger.Warn("join link never appeared, proceeding without it",
			zap.String("eventId", created.ID))
	}

	// One combined PATCH: real attendee plus the body rewritten around the
	// join link, so the provider sends a single invitation email.
	attendee := graphAttendee{Type: "required"}
	attendee.EmailAddress.Address = draft.AttendeeEmail
	patch := map[string]any{
		"attendees": []graphAttendee{attendee},
		"body":      graphBody{ContentType: "HTML", Content: inviteBody(draft.Description, joinURL)},
	}
	if _, err := a.do(ctx, conn, http.MethodPatch, "/me/events/"+created.ID, patch); err != nil {
		return nil, err
	}

	return &EventResult{
		ExternalEventID: created.ID,
		JoinLink:        joinURL,
		WebLink:         created.WebLink,
		LinkAvailable:   linkAvailable,
	}, nil
}

func (a *GraphAdapter) UpdateEvent(ctx context.Context, conn *models.ProviderConnection, eventID string, changes EventChanges) error {
	patch := make(map[string]any)
	if v, ok := changes["subject"]; ok {
		patch["subject"] = v
	}
	if v, ok := changes["description"]; ok {
		patch["body"] = graphBody{ContentType: "HTML", Content: v}
	}
	if v, ok := changes["startDateTime"]; ok {
		patch["start"] = graphDateTime{DateTime: graphLocal(v), TimeZone: graphTimeZone}
	}
	if v, ok := changes["endDateTime"]; ok {
		patch["end"] = graphDateTime{DateTime: graphLocal(v), TimeZone: graphTimeZone}
	}
	if v, ok := changes["attendeeEmail"]; ok {
		attendee := graphAttendee{Type: "required"}
		attendee.EmailAddress.Address = v
		patch["attendees"] = []graphAttendee{attendee}
	}
	if len(patch) == 0 {
		return nil
	}
	_, err := a.do(ctx, conn, http.MethodPatch, "/me/events/"+eventID, patch)
	return err
}

// inviteBody embeds the join link into the invitation HTML. Without a link
// the marker text stands in.
func inviteBody(description, joinURL string) string {
	link := JoinLinkUnavailable
	if joinURL != "" {
		link = fmt.Sprintf(`<a href="%s">%s</a>`, joinURL, joinURL)
	}
	var b strings.Builder
	if description != "" {
		b.WriteString("<p>")
		b.WriteString(description)
		b.WriteString("</p>")
	}
	b.WriteString("<p><b>Microsoft Teams meeting</b><br/>")
	b.WriteString(link)
	b.WriteString("</p>")
	return b.String()
}

// graphLocal normalizes the wall-clock draft value to the seconds-precision
// form Graph expects.
func graphLocal(value string) string {
	if len(value) == len("2006-01-02T15:04") {
		return value + ":00"
	}
	return value
}

func (a *GraphAdapter) do(ctx context.Context, conn *models.ProviderConnection, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal event payload: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+conn.AccessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graph request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProviderError{
			Provider: models.ProviderOutlook,
			Status:   resp.StatusCode,
			Message:  upstreamMessage(body),
		}
	}
	return body, nil
}
