package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"recruitmeet/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func googleConn() *models.ProviderConnection {
	return &models.ProviderConnection{Provider: models.ProviderGoogle, AccessToken: "g-token"}
}

func TestMeetCreateEventRequestsConference(t *testing.T) {
	var payload map[string]any
	var query string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		assert.Equal(t, "/calendars/primary/events", r.URL.Path)
		assert.Equal(t, "Bearer g-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		json.NewEncoder(w).Encode(map[string]any{
			"id":          "gevt-1",
			"hangoutLink": "https://meet.example.com/abc-defg-hij",
			"htmlLink":    "https://calendar.example.com/gevt-1",
		})
	}))
	t.Cleanup(srv.Close)

	adapter := NewMeetAdapter(srv.URL)
	result, err := adapter.CreateEvent(context.Background(), googleConn(), testDraft())
	require.NoError(t, err)

	assert.Equal(t, "conferenceDataVersion=1", query)
	assert.Equal(t, "gevt-1", result.ExternalEventID)
	assert.True(t, result.LinkAvailable)
	assert.Equal(t, "https://meet.example.com/abc-defg-hij", result.JoinLink)

	assert.Equal(t, "Interview", payload["summary"])
	attendees := payload["attendees"].([]any)
	require.Len(t, attendees, 1)
	assert.Equal(t, "a@b.com", attendees[0].(map[string]any)["email"])

	start := payload["start"].(map[string]any)
	assert.Equal(t, meetTimeZone, start["timeZone"])
	assert.Contains(t, start["dateTime"], "2025-01-01T10:00:00")

	createReq := payload["conferenceData"].(map[string]any)["createRequest"].(map[string]any)
	assert.NotEmpty(t, createReq["requestId"])
	assert.Equal(t, "hangoutsMeet",
		createReq["conferenceSolutionKey"].(map[string]any)["type"])
}

func TestMeetCreateEventCarriesUpstreamErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "Invalid conference type value."},
		})
	}))
	t.Cleanup(srv.Close)

	adapter := NewMeetAdapter(srv.URL)
	_, err := adapter.CreateEvent(context.Background(), googleConn(), testDraft())

	var providerErr *ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, models.ProviderGoogle, providerErr.Provider)
	assert.Contains(t, providerErr.Error(), "Invalid conference type value.")
}

func TestMeetUpdateEventSkipsBlankFields(t *testing.T) {
	var payload map[string]any
	var requests int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/calendars/primary/events/gevt-1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		json.NewEncoder(w).Encode(map[string]any{"id": "gevt-1"})
	}))
	t.Cleanup(srv.Close)

	adapter := NewMeetAdapter(srv.URL)
	err := adapter.UpdateEvent(context.Background(), googleConn(), "gevt-1", EventChanges{
		"subject":     "Final interview",
		"description": "",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, requests)
	assert.Equal(t, "Final interview", payload["summary"])
	// Blank values are dropped, not sent as empties.
	assert.NotContains(t, payload, "description")
}

func TestMeetUpdateEventAllBlankIsANoop(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	t.Cleanup(srv.Close)

	adapter := NewMeetAdapter(srv.URL)
	err := adapter.UpdateEvent(context.Background(), googleConn(), "gevt-1", EventChanges{
		"description": "",
	})
	require.NoError(t, err)
	assert.Zero(t, requests)
}
