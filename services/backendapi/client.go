package backendapi

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
	"recruitmeet/services/session"
	"recruitmeet/utils"

	"go.uber.org/zap"
)

const (
	loginRequestPath  = "/api/Security/LoginRequest"
	userLoginPath     = "/api/Security/UserLogin"
	suggestionPath    = "/api/CandidatePosition/Suggestion"
	meetingCreatePath = "/api/CandidatePositionMeeting/Post"
	meetingUpdatePath = "/api/CandidatePositionMeeting/Put/%d"
)

// includeProperties is the fixed nested expansion the suggestion endpoint
// expects. The listing is a bulk prefetch; filtering happens locally.
const includeProperties = "Candidate.Person.PersonExpertises.Expertise," +
	"Candidate.Person.PersonEducations,Candidate.Person.PersonExperiences," +
	"Candidate.CreateBy,CandidatePositionStatus,CompanyPosition.Company," +
	"CompanyPosition.CompanyPositionStatus,CreateBy,Candidate.CandidateTagAssignments"

// HTTPClient is the production Client over the recruiting backend REST API.
type HTTPClient struct {
	BaseURL  string
	Client   *http.Client
	Sessions session.Store
}

// NewHTTPClient builds a backend client with a sane default timeout.
func NewHTTPClient(baseURL string, sessions session.Store) *HTTPClient {
	return &HTTPClient{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Client:   &http.Client{Timeout: 30 * time.Second},
		Sessions: sessions,
	}
}

type loginEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type loginRequestData struct {
	Token   string `json:"token"`
	Tenants []struct {
		TenantID int `json:"tenantId"`
	} `json:"tenants"`
}

// RequestLoginToken performs the two-step exchange: LoginRequest returns a
// temporary token plus the tenant list (first tenant selected), UserLogin
// trades {tempToken, tenantId} for the durable bearer token.
func (c *HTTPClient) RequestLoginToken(ctx context.Context, identifier, secret string) (*LoginResult, error) {
	logger := utils.GetLogger()

	body, err := c.postJSON(ctx, loginRequestPath, "", map[string]string{
		"userInfo": identifier,
		"password": secret,
	})
	if err != nil {
		return nil, err
	}
	var env loginEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode login request response: %w", err)
	}
	if !env.Success {
		return nil, ErrInvalidCredentials
	}
	var reqData loginRequestData
	if err := json.Unmarshal(env.Data, &reqData); err != nil {
		return nil, fmt.Errorf("failed to decode login request data: %w", err)
	}
	if len(reqData.Tenants) == 0 {
		return nil, ErrInvalidCredentials
	}
	tenantID := reqData.Tenants[0].TenantID

	body, err = c.postJSON(ctx, userLoginPath, "", map[string]any{
		"Token":    reqData.Token,
		"TenantId": tenantID,
	})
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode user login response: %w", err)
	}
	if !env.Success {
		return nil, ErrLoginNotConfirmed
	}

	token := tokenValue(env.Data)
	if token == "" {
		return nil, ErrLoginNotConfirmed
	}

	logger.Info("backend login succeeded", zap.Int("tenantId", tenantID))
	return &LoginResult{Token: token, TenantID: tenantID}, nil
}

// tokenValue accepts either {"token": "..."} or a bare string in data.
func tokenValue(data json.RawMessage) string {
	var obj struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.Token != "" {
		return obj.Token
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		return raw
	}
	return ""
}

type suggestionEnvelope struct {
	Data   []models.SuggestionItem `json:"data"`
	Result *struct {
		Items []models.SuggestionItem `json:"items"`
	} `json:"result"`
	Items []models.SuggestionItem `json:"items"`
}

// ListCandidates bulk-prefetches candidate applications. The payload is
// fixed regardless of any search term.
func (c *HTTPClient) ListCandidates(ctx context.Context, sessionID, token string, pageSize int) ([]models.SuggestionItem, error) {
	payload := map[string]any{
		"pageSize":          pageSize,
		"pageNumber":        1,
		"orderBy":           "UpdateDate desc",
		"includeProperties": includeProperties,
		"companyPositionId": nil,
	}
	body, err := c.postAuthed(ctx, sessionID, suggestionPath, token, payload, "candidate listing")
	if err != nil {
		return nil, err
	}

	var env suggestionEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode suggestion response: %w", err)
	}
	switch {
	case env.Data != nil:
		return env.Data, nil
	case env.Result != nil && env.Result.Items != nil:
		return env.Result.Items, nil
	case env.Items != nil:
		return env.Items, nil
	}
	return nil, nil
}

// CreateMeeting persists a new meeting record and returns the backend id.
func (c *HTTPClient) CreateMeeting(ctx context.Context, sessionID, token string, record models.MeetingRecord) (string, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, meetingCreatePath, token, record)
	if err != nil {
		return "", err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("meeting create request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		return "", c.expireSession(ctx, sessionID)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &PersistenceError{Op: "create", Status: resp.StatusCode, Body: string(body)}
	}
	return extractRecordID(body), nil
}

// UpdateMeeting sends only the changed fields; the caller has already mixed
// in the mandatory tenantId/candidatePositionId. The id is always present.
func (c *HTTPClient) UpdateMeeting(ctx context.Context, sessionID, token string, id int, changed map[string]any) error {
	payload := make(map[string]any, len(changed)+1)
	for k, v := range changed {
		payload[k] = v
	}
	payload["id"] = id

	req, err := c.newJSONRequest(ctx, http.MethodPut, fmt.Sprintf(meetingUpdatePath, id), token, payload)
	if err != nil {
		return err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("meeting update request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		return c.expireSession(ctx, sessionID)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &PersistenceError{Op: "update", Status: resp.StatusCode, Body: string(body)}
	}
	return nil
}

// extractRecordID tries data.id, then id, then falls back to the raw body.
func extractRecordID(body []byte) string {
	var env struct {
		Data *struct {
			ID json.Number `json:"id"`
		} `json:"data"`
		ID json.Number `json:"id"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Data != nil && env.Data.ID.String() != "" {
			return env.Data.ID.String()
		}
		if env.ID.String() != "" {
			return env.ID.String()
		}
	}
	return strings.TrimSpace(string(body))
}

// expireSession clears the stored session and reports expiry. Clearing is
// best effort; the expiry must surface either way.
func (c *HTTPClient) expireSession(ctx context.Context, sessionID string) error {
	if sessionID != "" {
		if err := c.Sessions.Clear(ctx, sessionID); err != nil {
			utils.GetLogger().Error("failed to clear expired session", zap.Error(err))
		}
	}
	return ErrSessionExpired
}

func (c *HTTPClient) newJSONRequest(ctx context.Context, method, path, token string, payload any) (*http.Request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// postJSON posts an unauthenticated JSON payload and returns the body.
func (c *HTTPClient) postJSON(ctx context.Context, path, token string, payload any) ([]byte, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, path, token, payload)
	if err != nil {
		return nil, err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// postAuthed posts with a bearer token, converting 401 into session expiry.
func (c *HTTPClient) postAuthed(ctx context.Context, sessionID, path, token string, payload any, op string) ([]byte, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, path, token, payload)
	if err != nil {
		return nil, err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", op, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, c.expireSession(ctx, sessionID)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s failed with status %d", op, resp.StatusCode)
	}
	return body, nil
}
