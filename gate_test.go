package identity_test

import (
	"testing"

	identity "github.com/coverline/go-identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userSession() *identity.SessionIdentity {
	return &identity.SessionIdentity{LoginID: "alice01", Role: identity.RoleUser}
}

func adminSession() *identity.SessionIdentity {
	return &identity.SessionIdentity{LoginID: "admin", Role: identity.RoleAdmin}
}

func TestGateDefaultRules(t *testing.T) {
	gate := identity.MustGate(identity.DefaultRules())

	tests := []struct {
		name    string
		path    string
		session *identity.SessionIdentity
		allowed bool
		reason  string
	}{
		{
			name:    "landing page is public",
			path:    "/main",
			session: nil,
			allowed: true,
			reason:  identity.ReasonPublicRoute,
		},
		{
			name:    "static assets are public",
			path:    "/css/site/main.css",
			session: nil,
			allowed: true,
		},
		{
			name:    "login page is public",
			path:    "/user/login",
			session: nil,
			allowed: true,
		},
		{
			name:    "admin area denied anonymously",
			path:    "/admin/dashboard",
			session: nil,
			allowed: false,
			reason:  identity.ReasonNoSession,
		},
		{
			name:    "admin area denied to regular users",
			path:    "/admin/users",
			session: userSession(),
			allowed: false,
			reason:  identity.ReasonInsufficientRole,
		},
		{
			name:    "admin area allowed to admins",
			path:    "/admin/dashboard",
			session: adminSession(),
			allowed: true,
		},
		{
			name:    "unlisted path falls through to authenticated",
			path:    "/mypage/settings",
			session: nil,
			allowed: false,
			reason:  identity.ReasonNoSession,
		},
		{
			name:    "unlisted path open to any session",
			path:    "/mypage/settings",
			session: userSession(),
			allowed: true,
		},
		{
			name:    "insurance area requires session",
			path:    "/user/my_insurance/list",
			session: nil,
			allowed: false,
		},
		{
			name:    "insurance area open to users",
			path:    "/user/my_insurance/list",
			session: userSession(),
			allowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := gate.Evaluate(tt.path, tt.session)
			assert.Equal(t, tt.allowed, decision.Allowed)
			if tt.reason != "" {
				assert.Equal(t, tt.reason, decision.Reason)
			}
		})
	}
}

func TestGateFirstMatchWins(t *testing.T) {
	gate := identity.MustGate([]identity.Rule{
		{Pattern: "/admin/health", Condition: identity.Public()},
		{Pattern: "/admin/**", Condition: identity.RoleAtLeast(identity.RoleAdmin)},
	})

	decision := gate.Evaluate("/admin/health", nil)
	assert.True(t, decision.Allowed)
	assert.Equal(t, "/admin/health", decision.Pattern)

	decision = gate.Evaluate("/admin/users", nil)
	assert.False(t, decision.Allowed)
}

func TestGateSingleSegmentWildcard(t *testing.T) {
	gate := identity.MustGate([]identity.Rule{
		{Pattern: "/css/*", Condition: identity.Public()},
	})

	// `*` stops at the separator; nested paths fall through to the
	// authenticated fallback.
	assert.True(t, gate.Evaluate("/css/main.css", nil).Allowed)
	assert.False(t, gate.Evaluate("/css/site/main.css", nil).Allowed)
}

func TestNewGateRejectsInvalidPattern(t *testing.T) {
	_, err := identity.NewGate([]identity.Rule{
		{Pattern: "/admin/[", Condition: identity.Public()},
	})
	require.Error(t, err)
}

func TestConditionAllows(t *testing.T) {
	assert.True(t, identity.Public().Allows(nil))
	assert.True(t, identity.Public().Allows(userSession()))

	assert.False(t, identity.AuthenticatedAny().Allows(nil))
	assert.True(t, identity.AuthenticatedAny().Allows(userSession()))

	admin := identity.RoleAtLeast(identity.RoleAdmin)
	assert.False(t, admin.Allows(nil))
	assert.False(t, admin.Allows(userSession()))
	assert.True(t, admin.Allows(adminSession()))
}
