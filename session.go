package identity

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// Destination is the post-login landing path.
type Destination string

const (
	// AdminLanding is where admin sessions are sent after login.
	AdminLanding Destination = "/admin/dashboard"
	// DefaultLanding is where every other session is sent.
	DefaultLanding Destination = "/main"
)

// DestinationForRole is a pure, total function of role; nothing else may
// influence the branch.
func DestinationForRole(role Role) Destination {
	if role == RoleAdmin {
		return AdminLanding
	}
	return DefaultLanding
}

// SessionIdentity is the minimal projection of an Account held for the
// lifetime of an authenticated session. It deliberately has no field for the
// password hash, the national-ID value, or the raw account id; it is rebuilt
// fresh on every successful authentication and replaced, never patched.
type SessionIdentity struct {
	LoginID  string `json:"login_id"`
	RealName string `json:"real_name,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the session may reach the administration area.
func (s *SessionIdentity) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// IsAtLeast checks if the session's role meets the minimum required level.
func (s *SessionIdentity) IsAtLeast(minRole Role) bool {
	return s != nil && s.Role.IsAtLeast(minRole)
}

// DisplayName prefers the nickname the way the original site renders users.
func (s *SessionIdentity) DisplayName() string {
	if s == nil {
		return ""
	}
	if s.Nickname != "" {
		return s.Nickname
	}
	return s.RealName
}

func (s SessionIdentity) String() string {
	return fmt.Sprintf("SessionIdentity{login_id=%s role=%s}", s.LoginID, s.Role)
}

// Projector turns a VerifiedIdentity into the session-scoped view plus the
// landing destination.
type Projector struct {
	store  AccountSource
	logger Logger
}

// NewProjector will create a new Projector
func NewProjector(store AccountSource) *Projector {
	return &Projector{
		store:  store,
		logger: defLogger{},
	}
}

func (p *Projector) WithLogger(l Logger) *Projector {
	p.logger = l
	return p
}

// Project re-fetches the account to pick up display fields and copies only
// the allow-listed attributes into the session view.
func (p *Projector) Project(ctx context.Context, verified *VerifiedIdentity) (*SessionIdentity, Destination, error) {
	if verified == nil {
		return nil, "", goerrors.New("verified identity must not be nil", goerrors.CategoryBadInput)
	}

	account, err := p.store.GetByLoginID(ctx, verified.LoginID)
	if err != nil {
		p.logger.Error("projection failed to load account %s: %v", verified.LoginID, err)
		return nil, "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load account for session projection")
	}

	session := &SessionIdentity{
		LoginID:  account.LoginID,
		RealName: account.RealName,
		Nickname: account.Nickname,
		Role:     verified.Role,
	}

	return session, DestinationForRole(verified.Role), nil
}
