package oidc

import (
	"fmt"
	"strings"
	"time"
)

// Config holds the settings for validating ID tokens minted by an
// external OpenID Connect provider.
type Config struct {
	// Name identifies the provider, e.g. "kakao" or "google". It becomes
	// the provider half of the federated identity key.
	Name string

	// Issuer is the provider's issuer URL, as it appears in the token's
	// iss claim.
	Issuer string

	// Audience is the client ID(s) tokens must be issued for.
	Audience []string

	// JWKSURL overrides the default JWKS endpoint (optional).
	// Default: "{Issuer}/.well-known/jwks.json".
	JWKSURL string

	// RefreshInterval is how often the key set is refreshed in the
	// background. Default: 1 hour.
	RefreshInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(name, issuer string, audience []string) Config {
	return Config{
		Name:            name,
		Issuer:          issuer,
		Audience:        audience,
		RefreshInterval: time.Hour,
	}
}

func (c Config) jwksURL() string {
	if c.JWKSURL != "" {
		return c.JWKSURL
	}
	issuer := strings.TrimSuffix(strings.TrimSpace(c.Issuer), "/")
	if issuer == "" {
		return ""
	}
	return fmt.Sprintf("%s/.well-known/jwks.json", issuer)
}
