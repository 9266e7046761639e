package identity_test

import (
	"context"

	identity "github.com/coverline/go-identity"
	"github.com/stretchr/testify/mock"
)

// MockAccountSource implements identity.AccountSource
type MockAccountSource struct {
	mock.Mock
}

func (m *MockAccountSource) GetByLoginID(ctx context.Context, loginID string) (*identity.Account, error) {
	args := m.Called(ctx, loginID)
	acc, _ := args.Get(0).(*identity.Account)
	return acc, args.Error(1)
}

// MockVerifier implements identity.Verifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, loginID, password string) (*identity.VerifiedIdentity, error) {
	args := m.Called(ctx, loginID, password)
	verified, _ := args.Get(0).(*identity.VerifiedIdentity)
	return verified, args.Error(1)
}

// MockTokenService implements identity.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Generate(session *identity.SessionIdentity) (string, error) {
	args := m.Called(session)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Validate(token string) (*identity.SessionIdentity, error) {
	args := m.Called(token)
	session, _ := args.Get(0).(*identity.SessionIdentity)
	return session, args.Error(1)
}
