package models

import (
	"fmt"
	"time"
)

// Provider identifies an external calendar service capable of hosting a
// video-conferencing meeting.
type Provider string

const (
	ProviderOutlook Provider = "outlook"
	ProviderGoogle  Provider = "google"
)

// ParseProvider validates a provider tag coming off the wire.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderOutlook, ProviderGoogle:
		return Provider(s), nil
	}
	return "", fmt.Errorf("unknown provider %q", s)
}

// ProviderConnection holds the single active calendar connection for a
// session. At most one provider is connected at a time; connecting another
// provider replaces this value wholesale.
type ProviderConnection struct {
	Provider    Provider  `json:"provider"`
	AccessToken string    `json:"accessToken"`
	Account     string    `json:"account,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt,omitempty"`
}

// Expired reports whether the provider token is known to be past its expiry.
// A zero ExpiresAt means the token was opaque and no expiry could be read.
func (c *ProviderConnection) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}
