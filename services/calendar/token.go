package calendar

import (
	"time"

	"recruitmeet/models"

	"github.com/golang-jwt/jwt/v4"
)

// opaqueTokenTTL is assumed for tokens whose expiry cannot be read (Google
// implicit-flow access tokens are opaque and last about an hour).
const opaqueTokenTTL = time.Hour

// NewConnection wraps a provider access token into a connection, reading the
// expiry and account claims out of the token when it is a JWT (Microsoft
// access tokens are). The signature is deliberately not verified — the token
// is only forwarded upstream, never trusted locally.
func NewConnection(provider models.Provider, accessToken string) *models.ProviderConnection {
	conn := &models.ProviderConnection{
		Provider:    provider,
		AccessToken: accessToken,
		ExpiresAt:   time.Now().Add(opaqueTokenTTL),
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return conn
	}

	if exp, ok := claims["exp"].(float64); ok && exp > 0 {
		conn.ExpiresAt = time.Unix(int64(exp), 0)
	}
	for _, key := range []string{"preferred_username", "upn", "email"} {
		if v, ok := claims[key].(string); ok && v != "" {
			conn.Account = v
			break
		}
	}
	return conn
}
