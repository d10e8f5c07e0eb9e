package backendapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recruitmeet/models"
	"recruitmeet/services/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*HTTPClient, *session.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := session.NewMemoryStore()
	return NewHTTPClient(srv.URL, store), store
}

func TestRequestLoginTokenTwoStepExchange(t *testing.T) {
	var userLoginBody map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc(loginRequestPath, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "recruiter@example.com", body["userInfo"])
		assert.Equal(t, "secret", body["password"])

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"token":   "temp-token",
				"tenants": []map[string]any{{"tenantId": 244}, {"tenantId": 999}},
			},
		})
	})
	mux.HandleFunc(userLoginPath, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&userLoginBody))
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"token": "durable-token"},
		})
	})

	client, _ := newTestClient(t, mux)
	result, err := client.RequestLoginToken(context.Background(), "recruiter@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, "durable-token", result.Token)
	// First tenant is selected and forwarded to the second step.
	assert.Equal(t, 244, result.TenantID)
	assert.Equal(t, "temp-token", userLoginBody["Token"])
	assert.Equal(t, float64(244), userLoginBody["TenantId"])
}

func TestRequestLoginTokenBareStringData(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(loginRequestPath, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"token":   "temp-token",
				"tenants": []map[string]any{{"tenantId": 1}},
			},
		})
	})
	mux.HandleFunc(userLoginPath, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": "raw-token"})
	})

	client, _ := newTestClient(t, mux)
	result, err := client.RequestLoginToken(context.Background(), "u", "p")
	require.NoError(t, err)
	assert.Equal(t, "raw-token", result.Token)
}

func TestRequestLoginTokenInvalidCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(loginRequestPath, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false})
	})

	client, _ := newTestClient(t, mux)
	_, err := client.RequestLoginToken(context.Background(), "u", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRequestLoginTokenNotConfirmed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(loginRequestPath, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"token":   "temp-token",
				"tenants": []map[string]any{{"tenantId": 1}},
			},
		})
	})
	mux.HandleFunc(userLoginPath, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false})
	})

	client, _ := newTestClient(t, mux)
	_, err := client.RequestLoginToken(context.Background(), "u", "p")
	assert.ErrorIs(t, err, ErrLoginNotConfirmed)
}

func TestListCandidatesSendsFixedPayload(t *testing.T) {
	var payload map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc(suggestionPath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer durable-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": 7, "candidate": map[string]any{"fullName": "Ahmet Kaya"}},
			},
		})
	})

	client, _ := newTestClient(t, mux)
	items, err := client.ListCandidates(context.Background(), "sid", "durable-token", 100)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].ID)
	assert.Equal(t, "Ahmet Kaya", items[0].DisplayName())

	assert.Equal(t, float64(100), payload["pageSize"])
	assert.Equal(t, float64(1), payload["pageNumber"])
	assert.Equal(t, "UpdateDate desc", payload["orderBy"])
	assert.Equal(t, includeProperties, payload["includeProperties"])
	assert.Nil(t, payload["companyPositionId"])
}

func TestListCandidatesResultItemsEnvelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(suggestionPath, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]any{
				"items": []map[string]any{{"id": 3}},
			},
		})
	})

	client, _ := newTestClient(t, mux)
	items, err := client.ListCandidates(context.Background(), "sid", "tok", 100)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].ID)
}

func TestListCandidatesUnauthorizedClearsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(suggestionPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	client, store := newTestClient(t, mux)
	sess := &models.Session{SessionID: "sid", BackendToken: "stale", CreatedAt: time.Now()}
	require.NoError(t, store.Save(context.Background(), sess))

	_, err := client.ListCandidates(context.Background(), "sid", "stale", 100)
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = store.Load(context.Background(), "sid")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestCreateMeetingExtractsNestedID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(meetingCreatePath, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": 4821}})
	})

	client, _ := newTestClient(t, mux)
	id, err := client.CreateMeeting(context.Background(), "sid", "tok", models.MeetingRecord{})
	require.NoError(t, err)
	assert.Equal(t, "4821", id)
}

func TestCreateMeetingFallsBackToRawBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(meetingCreatePath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("4821"))
	})

	client, _ := newTestClient(t, mux)
	id, err := client.CreateMeeting(context.Background(), "sid", "tok", models.MeetingRecord{})
	require.NoError(t, err)
	assert.Equal(t, "4821", id)
}

func TestCreateMeetingPersistenceError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(meetingCreatePath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	client, _ := newTestClient(t, mux)
	_, err := client.CreateMeeting(context.Background(), "sid", "tok", models.MeetingRecord{})

	var persistErr *PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, http.StatusUnprocessableEntity, persistErr.Status)
}

func TestUpdateMeetingSendsPartialBodyWithID(t *testing.T) {
	var payload map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/api/CandidatePositionMeeting/Put/4821", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusOK)
	})

	client, _ := newTestClient(t, mux)
	err := client.UpdateMeeting(context.Background(), "sid", "tok", 4821, map[string]any{
		"tenantId":            244,
		"candidatePositionId": 7,
		"title":               "Final interview",
	})
	require.NoError(t, err)

	assert.Equal(t, float64(4821), payload["id"])
	assert.Equal(t, float64(244), payload["tenantId"])
	assert.Equal(t, float64(7), payload["candidatePositionId"])
	assert.Equal(t, "Final interview", payload["title"])
	assert.NotContains(t, payload, "startTime")
}
