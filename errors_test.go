package identity_test

import (
	"errors"
	"testing"

	identity "github.com/coverline/go-identity"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		err      *goerrors.Error
		category goerrors.Category
		textCode string
	}{
		{"invalid credentials", identity.ErrInvalidCredentials, goerrors.CategoryAuth, identity.TextCodeInvalidCreds},
		{"account disabled", identity.ErrAccountDisabled, goerrors.CategoryAuth, identity.TextCodeAccountDisabled},
		{"duplicate login id", identity.ErrDuplicateLoginID, goerrors.CategoryConflict, identity.TextCodeDuplicateLoginID},
		{"account not found", identity.ErrAccountNotFound, goerrors.CategoryNotFound, identity.TextCodeAccountNotFound},
		{"identity not linked", identity.ErrIdentityNotLinked, goerrors.CategoryNotFound, identity.TextCodeNotLinked},
		{"token expired", identity.ErrTokenExpired, goerrors.CategoryAuth, identity.TextCodeTokenExpired},
		{"token malformed", identity.ErrTokenMalformed, goerrors.CategoryAuth, identity.TextCodeTokenMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, tt.textCode, tt.err.TextCode)
		})
	}
}

// Clones carry extra metadata but still satisfy errors.Is against the
// sentinel, so callers can branch without string matching.
func TestClonedErrorsMatchSentinels(t *testing.T) {
	clone := identity.ErrDuplicateLoginID.Clone().
		WithMetadata(map[string]any{"login_id": "alice01"})

	assert.ErrorIs(t, clone, identity.ErrDuplicateLoginID)
	require.NotNil(t, clone.Metadata)
	assert.Equal(t, "alice01", clone.Metadata["login_id"])
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, identity.IsUniqueViolation(errors.New("UNIQUE constraint failed: accounts.login_id")))
	assert.True(t, identity.IsUniqueViolation(errors.New(`duplicate key value violates unique constraint "uq_accounts_login_id"`)))
	assert.False(t, identity.IsUniqueViolation(errors.New("connection refused")))
	assert.False(t, identity.IsUniqueViolation(nil))
}

func TestTokenErrorPredicates(t *testing.T) {
	assert.True(t, identity.IsTokenExpiredError(identity.ErrTokenExpired))
	assert.True(t, identity.IsTokenExpiredError(errors.New("token is expired")))
	assert.False(t, identity.IsTokenExpiredError(nil))
	assert.False(t, identity.IsTokenExpiredError(identity.ErrTokenMalformed))

	assert.True(t, identity.IsMalformedError(identity.ErrTokenMalformed))
	assert.True(t, identity.IsMalformedError(errors.New("missing or malformed JWT")))
	assert.False(t, identity.IsMalformedError(nil))
}
