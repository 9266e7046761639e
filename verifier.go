package identity

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// VerifiedIdentity is the proof a credential check succeeded. It is the only
// value the login flow hands to the projector; it carries no secret material.
type VerifiedIdentity struct {
	AccountID uuid.UUID
	LoginID   string
	Role      Role
	Active    bool
}

// AccountSource is the slice of the credential store verification needs.
type AccountSource interface {
	GetByLoginID(ctx context.Context, loginID string) (*Account, error)
}

// CredentialVerifier checks a presented login id and password against the
// credential store.
type CredentialVerifier struct {
	store  AccountSource
	logger Logger
}

var _ Verifier = (*CredentialVerifier)(nil)

// NewCredentialVerifier will create a new CredentialVerifier
func NewCredentialVerifier(store AccountSource) *CredentialVerifier {
	return &CredentialVerifier{
		store:  store,
		logger: defLogger{},
	}
}

func (v *CredentialVerifier) WithLogger(l Logger) *CredentialVerifier {
	v.logger = l
	return v
}

// Verify resolves the login id and compares the password. An unknown id and a
// wrong password collapse into the same ErrInvalidCredentials, and the
// unknown-id path still performs a hash comparison so the two cases cannot be
// told apart by timing. The status check runs only after the secret is
// proven, so ErrAccountDisabled never leaks whether an arbitrary id exists.
func (v *CredentialVerifier) Verify(ctx context.Context, loginID, password string) (*VerifiedIdentity, error) {
	account, err := v.store.GetByLoginID(ctx, loginID)
	if err != nil {
		if goerrors.IsNotFound(err) {
			compareAgainstDummy(password)
			return nil, ErrInvalidCredentials
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve account during verification")
	}

	if err := ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		if goerrors.Is(err, ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !account.IsActive() {
		v.logger.Warn("login blocked for inactive account %s", loginID)
		return nil, ErrAccountDisabled
	}

	return &VerifiedIdentity{
		AccountID: account.ID,
		LoginID:   account.LoginID,
		Role:      account.Role,
		Active:    true,
	}, nil
}
