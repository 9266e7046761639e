package identity_test

import (
	"testing"

	identity "github.com/coverline/go-identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "Valid password",
			password: "securePassword123",
			wantErr:  false,
		},
		{
			name:     "Empty password",
			password: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := identity.HashPassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, hash)
				return
			}
			assert.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)
		})
	}
}

func TestHashPasswordEmptyReturnsTypedError(t *testing.T) {
	_, err := identity.HashPassword("")
	assert.ErrorIs(t, err, identity.ErrNoEmptyString)
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := identity.HashPassword("P@ssw0rd1")
	require.NoError(t, err)

	assert.NoError(t, identity.ComparePasswordAndHash("P@ssw0rd1", hash))

	err = identity.ComparePasswordAndHash("wrong-password", hash)
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestHashPasswordGeneratesUniqueSalts(t *testing.T) {
	first, err := identity.HashPassword("P@ssw0rd1")
	require.NoError(t, err)

	second, err := identity.HashPassword("P@ssw0rd1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
