package identity

import (
	"context"
	"fmt"
)

// Logger is the minimal leveled logger this package needs. The default writes
// to stdout; inject your own with the WithLogger builders.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds the options the session layer needs.
type Config interface {
	GetSigningKey() string
	GetContextKey() string
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
	GetLoginPath() string
	GetRejectedRouteKey() string
}

// Verifier decides whether presented credentials map to a usable account.
type Verifier interface {
	Verify(ctx context.Context, loginID, password string) (*VerifiedIdentity, error)
}

// TokenService signs and validates session tokens.
type TokenService interface {
	Generate(session *SessionIdentity) (string, error)
	Validate(token string) (*SessionIdentity, error)
}

// PasswordHasher abstracts the one-way hashing primitive for callers that
// need to stub it out.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// DefaultLogger returns the stdout logger used when none is injected.
func DefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] IDENTITY "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] IDENTITY "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] IDENTITY "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] IDENTITY "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
