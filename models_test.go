package identity_test

import (
	"encoding/json"
	"testing"

	identity "github.com/coverline/go-identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleIsValid(t *testing.T) {
	assert.True(t, identity.RoleUser.IsValid())
	assert.True(t, identity.RoleAdmin.IsValid())
	assert.False(t, identity.Role("superuser").IsValid())
	assert.False(t, identity.Role("").IsValid())
}

func TestRoleIsAtLeast(t *testing.T) {
	assert.True(t, identity.RoleAdmin.IsAtLeast(identity.RoleUser))
	assert.True(t, identity.RoleAdmin.IsAtLeast(identity.RoleAdmin))
	assert.True(t, identity.RoleUser.IsAtLeast(identity.RoleUser))
	assert.False(t, identity.RoleUser.IsAtLeast(identity.RoleAdmin))
	assert.False(t, identity.Role("ghost").IsAtLeast(identity.RoleUser))
}

func TestParseRole(t *testing.T) {
	role, ok := identity.ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, identity.RoleAdmin, role)

	_, ok = identity.ParseRole("root")
	assert.False(t, ok)
}

func TestAccountIsActive(t *testing.T) {
	account := &identity.Account{Status: identity.StatusActive}
	assert.True(t, account.IsActive())

	account.Status = identity.StatusInactive
	assert.False(t, account.IsActive())

	// Zero status behaves as active for legacy rows.
	legacy := &identity.Account{}
	assert.True(t, legacy.IsActive())
	assert.Equal(t, identity.StatusActive, legacy.Status)
}

func TestAccountStringRedactsSecrets(t *testing.T) {
	account := identity.Account{
		ID:           uuid.New(),
		LoginID:      "alice01",
		PasswordHash: "$2a$12$secret-material",
		NationalID:   "900101-2345678",
		Role:         identity.RoleUser,
		Status:       identity.StatusActive,
	}

	s := account.String()
	assert.Contains(t, s, "alice01")
	assert.NotContains(t, s, "secret-material")
	assert.NotContains(t, s, "900101")
}

func TestAccountJSONOmitsSecrets(t *testing.T) {
	account := identity.Account{
		ID:           uuid.New(),
		LoginID:      "alice01",
		PasswordHash: "$2a$12$secret-material",
		NationalID:   "900101-2345678",
		RealName:     "Alice Kim",
	}

	raw, err := json.Marshal(account)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.NotContains(t, decoded, "password_hash")
	assert.NotContains(t, decoded, "national_id")
	assert.NotContains(t, string(raw), "secret-material")
	assert.NotContains(t, string(raw), "900101")
}

func TestApplyProfileDoesNotMutateOriginal(t *testing.T) {
	original := identity.Account{
		LoginID:  "alice01",
		Nickname: "alice",
		Phone:    "010-1234-5678",
	}

	patched := original.ApplyProfile(identity.ProfilePatch{
		Nickname: "ally",
		Phone:    "010-8765-4321",
	})

	assert.Equal(t, "ally", patched.Nickname)
	assert.Equal(t, "010-8765-4321", patched.Phone)
	assert.Equal(t, "alice", original.Nickname)
}
