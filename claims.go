package identity

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the wire shape of a session token. It only ever carries
// the allow-listed session fields; the account id, hash, and national-ID
// field have no claim to live in.
type SessionClaims struct {
	jwt.RegisteredClaims
	RealName string `json:"name,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	UserRole string `json:"role,omitempty"`
}

// Session rebuilds the session identity from validated claims. The subject is
// the login id.
func (c *SessionClaims) Session() *SessionIdentity {
	role, ok := ParseRole(c.UserRole)
	if !ok {
		role = RoleUser
	}

	return &SessionIdentity{
		LoginID:  c.RegisteredClaims.Subject,
		RealName: c.RealName,
		Nickname: c.Nickname,
		Role:     role,
	}
}
