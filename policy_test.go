package identity_test

import (
	"testing"

	identity "github.com/coverline/go-identity"
	"github.com/stretchr/testify/assert"
)

func validPayload() identity.RegisterPayload {
	return identity.RegisterPayload{
		LoginID:   "alice01",
		Password:  "P@ssw0rd1",
		RealName:  "Alice Kim",
		Nickname:  "alice",
		Phone:     "010-1234-5678",
		BirthYear: 1990,
		Gender:    "F",
	}
}

func TestRegisterPayloadValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*identity.RegisterPayload)
		wantErr bool
	}{
		{
			name:    "valid payload",
			mutate:  func(p *identity.RegisterPayload) {},
			wantErr: false,
		},
		{
			name:    "minimal payload",
			mutate:  func(p *identity.RegisterPayload) { p.Phone = ""; p.Nickname = ""; p.BirthYear = 0; p.Gender = "" },
			wantErr: false,
		},
		{
			name:    "missing login id",
			mutate:  func(p *identity.RegisterPayload) { p.LoginID = "" },
			wantErr: true,
		},
		{
			name:    "login id too short",
			mutate:  func(p *identity.RegisterPayload) { p.LoginID = "ab" },
			wantErr: true,
		},
		{
			name:    "login id with spaces",
			mutate:  func(p *identity.RegisterPayload) { p.LoginID = "alice kim" },
			wantErr: true,
		},
		{
			name:    "missing real name",
			mutate:  func(p *identity.RegisterPayload) { p.RealName = "" },
			wantErr: true,
		},
		{
			name:    "short password",
			mutate:  func(p *identity.RegisterPayload) { p.Password = "a1b2" },
			wantErr: true,
		},
		{
			name:    "digits only password",
			mutate:  func(p *identity.RegisterPayload) { p.Password = "123456789" },
			wantErr: true,
		},
		{
			name:    "birth year before floor",
			mutate:  func(p *identity.RegisterPayload) { p.BirthYear = 1880 },
			wantErr: true,
		},
		{
			name:    "unknown gender marker",
			mutate:  func(p *identity.RegisterPayload) { p.Gender = "X" },
			wantErr: true,
		},
		{
			name:    "invalid phone",
			mutate:  func(p *identity.RegisterPayload) { p.Phone = "not-a-phone" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			tt.mutate(&payload)

			err := payload.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPasswordStrength(t *testing.T) {
	assert.NoError(t, identity.PasswordStrength("abcdef12"))
	assert.NoError(t, identity.PasswordStrength("P@ssw0rd1"))

	assert.Error(t, identity.PasswordStrength(""))
	assert.Error(t, identity.PasswordStrength("short1"))
	assert.Error(t, identity.PasswordStrength("lettersonly"))
	assert.Error(t, identity.PasswordStrength("12345678"))
}

func TestValidPhoneNumber(t *testing.T) {
	// Empty is allowed; the field is optional.
	assert.NoError(t, identity.ValidPhoneNumber(""))
	// Local format resolves against the default region.
	assert.NoError(t, identity.ValidPhoneNumber("010-1234-5678"))
	// Full international format works regardless of region.
	assert.NoError(t, identity.ValidPhoneNumber("+82 10 1234 5678"))

	assert.Error(t, identity.ValidPhoneNumber("not-a-phone"))
	assert.Error(t, identity.ValidPhoneNumber("123"))
}
