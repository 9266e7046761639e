package identity_test

import (
	"context"
	"testing"

	identity "github.com/coverline/go-identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionContextRoundTrip(t *testing.T) {
	session := &identity.SessionIdentity{LoginID: "alice01", Role: identity.RoleUser}

	ctx := identity.WithSession(context.Background(), session)

	found, ok := identity.SessionFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, session, found)
}

func TestSessionFromContextMissing(t *testing.T) {
	found, ok := identity.SessionFromContext(context.Background())
	assert.False(t, ok)
	assert.Nil(t, found)
}

func TestSessionFromContextNilSession(t *testing.T) {
	ctx := identity.WithSession(context.Background(), nil)
	_, ok := identity.SessionFromContext(ctx)
	assert.False(t, ok)
}
