package oidc

import (
	stderrors "errors"
	"fmt"
	"log"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"

	identity "github.com/coverline/go-identity"
)

// ExternalIdentity is the claim set we keep from a provider-issued ID
// token. Provider plus Subject is the key a federated link is stored
// under.
type ExternalIdentity struct {
	Provider string
	Subject  string
	Email    string
	Name     string
}

type idTokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// TokenValidator validates ID tokens issued by one OIDC provider,
// fetching the provider's signing keys over JWKS.
type TokenValidator struct {
	config Config
	jwks   *keyfunc.JWKS
	parser *jwt.Parser
}

// NewTokenValidator starts the JWKS refresh loop and returns a
// validator. Call Close when done with it.
func NewTokenValidator(cfg Config) (*TokenValidator, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("oidc: provider name is required")
	}

	jwksURL := cfg.jwksURL()
	if jwksURL == "" {
		return nil, fmt.Errorf("oidc: issuer or JWKS URL is required")
	}

	refresh := cfg.RefreshInterval
	if refresh == 0 {
		refresh = time.Hour
	}

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshErrorHandler: func(err error) {
			log.Printf("failed to do a background refresh of JWK set: %s", err)
		},
		RefreshInterval:   refresh,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("oidc: failed to fetch JWK set from %s: %w", jwksURL, err)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
	}
	for _, aud := range cfg.Audience {
		opts = append(opts, jwt.WithAudience(aud))
	}

	return &TokenValidator{
		config: cfg,
		jwks:   jwks,
		parser: jwt.NewParser(opts...),
	}, nil
}

// Close stops the background JWKS refresh.
func (v *TokenValidator) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}

// Validate checks the token's signature and registered claims and
// returns the external identity it asserts.
func (v *TokenValidator) Validate(tokenString string) (*ExternalIdentity, error) {
	claims := &idTokenClaims{}

	token, err := v.parser.ParseWithClaims(tokenString, claims, v.jwks.Keyfunc)
	if err != nil {
		return nil, v.normalizeError(err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, identity.ErrTokenMalformed.Clone().
			WithMetadata(map[string]any{"provider": v.config.Name})
	}

	return &ExternalIdentity{
		Provider: v.config.Name,
		Subject:  claims.Subject,
		Email:    claims.Email,
		Name:     claims.Name,
	}, nil
}

func (v *TokenValidator) normalizeError(err error) error {
	clone := identity.ErrTokenMalformed.Clone()
	if stderrors.Is(err, jwt.ErrTokenExpired) {
		clone = identity.ErrTokenExpired.Clone()
	}

	clone.Source = err
	return clone.WithMetadata(map[string]any{
		"provider": v.config.Name,
		"cause":    err.Error(),
	})
}
