package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recruitmeet/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGraph simulates Graph's eventually-consistent join link: the link
// appears only after linkAfterGets GET requests.
type fakeGraph struct {
	linkAfterGets int
	gets          int
	patches       []map[string]any
	createBody    map[string]any
}

func (f *fakeGraph) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/me/events", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.createBody))
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "evt-1",
			"webLink": "https://outlook.example.com/evt-1",
		})
	})
	mux.HandleFunc("/me/events/evt-1", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			f.gets++
			event := map[string]any{"id": "evt-1"}
			if f.gets >= f.linkAfterGets {
				event["onlineMeeting"] = map[string]any{"joinUrl": "https://teams.example.com/join"}
			}
			json.NewEncoder(w).Encode(event)
		case http.MethodPatch:
			var patch map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
			f.patches = append(f.patches, patch)
			json.NewEncoder(w).Encode(map[string]any{"id": "evt-1"})
		}
	})
	return mux
}

func testDraft() models.MeetingDraft {
	return models.MeetingDraft{
		Subject:       "Interview",
		Description:   "First round",
		StartDateTime: "2025-01-01T10:00",
		EndDateTime:   "2025-01-01T10:30",
		AttendeeEmail: "a@b.com",
	}
}

func newGraphAdapter(t *testing.T, fake *fakeGraph, attempts int) *GraphAdapter {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)
	// Zero delay keeps the poll loop instant in tests.
	return NewGraphAdapter(srv.URL, RetryPolicy{MaxAttempts: attempts, Delay: 0})
}

func conn() *models.ProviderConnection {
	return &models.ProviderConnection{Provider: models.ProviderOutlook, AccessToken: "ms-token"}
}

func TestGraphCreateEventPollsUntilJoinLinkAppears(t *testing.T) {
	fake := &fakeGraph{linkAfterGets: 2}
	adapter := newGraphAdapter(t, fake, 3)

	result, err := adapter.CreateEvent(context.Background(), conn(), testDraft())
	require.NoError(t, err)

	assert.Equal(t, "evt-1", result.ExternalEventID)
	assert.True(t, result.LinkAvailable)
	assert.Equal(t, "https://teams.example.com/join", result.JoinLink)
	assert.Equal(t, 2, fake.gets)

	// The event is created without attendees so only the final combined
	// PATCH triggers an invitation.
	assert.NotContains(t, fake.createBody, "attendees")
	assert.Equal(t, true, fake.createBody["isOnlineMeeting"])

	require.Len(t, fake.patches, 1)
	patch := fake.patches[0]
	attendees := patch["attendees"].([]any)
	require.Len(t, attendees, 1)
	email := attendees[0].(map[string]any)["emailAddress"].(map[string]any)["address"]
	assert.Equal(t, "a@b.com", email)

	body := patch["body"].(map[string]any)["content"].(string)
	assert.Contains(t, body, "https://teams.example.com/join")
}

func TestGraphCreateEventDegradesWhenLinkNeverAppears(t *testing.T) {
	fake := &fakeGraph{linkAfterGets: 10}
	adapter := newGraphAdapter(t, fake, 3)

	result, err := adapter.CreateEvent(context.Background(), conn(), testDraft())
	require.NoError(t, err)

	// Bounded: exactly MaxAttempts polls, then proceed with the marker.
	assert.Equal(t, 3, fake.gets)
	assert.False(t, result.LinkAvailable)
	assert.Empty(t, result.JoinLink)
	assert.Equal(t, "https://outlook.example.com/evt-1", result.MeetingURL())

	require.Len(t, fake.patches, 1)
	body := fake.patches[0]["body"].(map[string]any)["content"].(string)
	assert.Contains(t, body, JoinLinkUnavailable)
}

func TestGraphUpdateEventPatchesOnlyChangedFields(t *testing.T) {
	fake := &fakeGraph{linkAfterGets: 1}
	adapter := newGraphAdapter(t, fake, 1)

	err := adapter.UpdateEvent(context.Background(), conn(), "evt-1", EventChanges{
		"subject":       "Final interview",
		"startDateTime": "2025-01-02T14:00",
	})
	require.NoError(t, err)

	require.Len(t, fake.patches, 1)
	patch := fake.patches[0]
	assert.Equal(t, "Final interview", patch["subject"])
	start := patch["start"].(map[string]any)
	assert.Equal(t, "2025-01-02T14:00:00", start["dateTime"])
	assert.Equal(t, graphTimeZone, start["timeZone"])
	assert.NotContains(t, patch, "end")
	assert.NotContains(t, patch, "body")
}

func TestGraphUpdateEventEmptyChangesIsANoop(t *testing.T) {
	fake := &fakeGraph{}
	adapter := newGraphAdapter(t, fake, 1)

	require.NoError(t, adapter.UpdateEvent(context.Background(), conn(), "evt-1", EventChanges{}))
	assert.Empty(t, fake.patches)
	assert.Zero(t, fake.gets)
}

func TestGraphCreateEventProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "Access is denied"},
		})
	}))
	t.Cleanup(srv.Close)
	adapter := NewGraphAdapter(srv.URL, RetryPolicy{MaxAttempts: 1, Delay: 0})

	_, err := adapter.CreateEvent(context.Background(), conn(), testDraft())

	var providerErr *ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, models.ProviderOutlook, providerErr.Provider)
	assert.Equal(t, http.StatusForbidden, providerErr.Status)
	assert.True(t, strings.Contains(providerErr.Error(), "Access is denied"))
}
