package models

import "time"

// Session is the per-recruiter server-side session, rehydrated from the
// session store on every request until explicit logout.
type Session struct {
	SessionID     string              `json:"sessionId"`
	BackendToken  string              `json:"backendToken"`
	TenantID      int                 `json:"tenantId"`
	Connection    *ProviderConnection `json:"connection,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
}

// LoggedIn reports whether a backend token is present.
func (s *Session) LoggedIn() bool {
	return s != nil && s.BackendToken != ""
}

// Connected reports whether a calendar provider connection is active.
func (s *Session) Connected() bool {
	return s != nil && s.Connection != nil && s.Connection.AccessToken != ""
}
