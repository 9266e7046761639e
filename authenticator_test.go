package identity_test

import (
	"context"
	"testing"

	identity "github.com/coverline/go-identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() *identity.SimpleConfig {
	return &identity.SimpleConfig{
		SigningKey:      "test-signing-key",
		TokenExpiration: 1,
		Issuer:          "test-issuer",
		Audience:        []string{"app:web"},
	}
}

func TestAutherLogin(t *testing.T) {
	ctx := context.Background()

	store := new(MockAccountSource)
	account := storedAccount(t, "alice01", "P@ssw0rd1")
	store.On("GetByLoginID", ctx, "alice01").Return(account, nil)

	verifier := identity.NewCredentialVerifier(store)
	projector := identity.NewProjector(store)
	auther := identity.NewAuthenticator(verifier, projector, testConfig())

	result, err := auther.Login(ctx, "alice01", "P@ssw0rd1")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "alice01", result.Session.LoginID)
	assert.Equal(t, identity.DefaultLanding, result.Destination)

	// The issued token resolves back to the same session view.
	session, err := auther.SessionFromToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.Session.LoginID, session.LoginID)
	assert.Equal(t, result.Session.Role, session.Role)
}

func TestAutherLoginAdminDestination(t *testing.T) {
	ctx := context.Background()

	store := new(MockAccountSource)
	account := storedAccount(t, "admin", "P@ssw0rd1")
	account.Role = identity.RoleAdmin
	store.On("GetByLoginID", ctx, "admin").Return(account, nil)

	auther := identity.NewAuthenticator(
		identity.NewCredentialVerifier(store),
		identity.NewProjector(store),
		testConfig(),
	)

	result, err := auther.Login(ctx, "admin", "P@ssw0rd1")
	require.NoError(t, err)
	assert.Equal(t, identity.AdminLanding, result.Destination)
}

func TestAutherLoginPropagatesVerifierError(t *testing.T) {
	ctx := context.Background()

	verifier := new(MockVerifier)
	verifier.On("Verify", ctx, "alice01", "bad").Return(nil, identity.ErrInvalidCredentials)

	auther := identity.NewAuthenticator(verifier, identity.NewProjector(new(MockAccountSource)), testConfig())

	result, err := auther.Login(ctx, "alice01", "bad")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestAutherFederatedLoginWithoutResolver(t *testing.T) {
	auther := identity.NewAuthenticator(
		new(MockVerifier),
		identity.NewProjector(new(MockAccountSource)),
		testConfig(),
	)

	_, err := auther.FederatedLogin(context.Background(), "kakao", uuid.NewString())
	assert.ErrorIs(t, err, identity.ErrIdentityNotLinked)
}

func TestAutherWithTokenService(t *testing.T) {
	ctx := context.Background()

	store := new(MockAccountSource)
	account := storedAccount(t, "alice01", "P@ssw0rd1")
	store.On("GetByLoginID", ctx, "alice01").Return(account, nil)

	tokens := new(MockTokenService)
	tokens.On("Generate", mock.AnythingOfType("*identity.SessionIdentity")).Return("stub-token", nil)

	auther := identity.NewAuthenticator(
		identity.NewCredentialVerifier(store),
		identity.NewProjector(store),
		testConfig(),
	).WithTokenService(tokens)

	result, err := auther.Login(ctx, "alice01", "P@ssw0rd1")
	require.NoError(t, err)
	assert.Equal(t, "stub-token", result.Token)
	tokens.AssertExpectations(t)
}
