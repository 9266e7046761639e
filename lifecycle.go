package identity

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AccountManager owns every account-creating and account-mutating operation
// except login itself. Role and status changes are administrator operations;
// account holders only reach UpdateProfile.
type AccountManager struct {
	repo   RepositoryManager
	logger Logger
}

// NewAccountManager will create a new AccountManager
func NewAccountManager(repo RepositoryManager) *AccountManager {
	return &AccountManager{
		repo:   repo,
		logger: defLogger{},
	}
}

func (m *AccountManager) WithLogger(l Logger) *AccountManager {
	m.logger = l
	return m
}

// Register validates the payload, hashes the secret, and inserts exactly one
// account row with status active and role user. The payload is checked before
// any storage access; uniqueness is enforced by the store's unique index, so
// a concurrent duplicate registration produces one success and one
// ErrDuplicateLoginID.
func (m *AccountManager) Register(ctx context.Context, payload RegisterPayload) (*Account, error) {
	if err := payload.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload")
	}

	hash, err := HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	var account *Account
	err = m.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record := &Account{
			LoginID:      strings.TrimSpace(payload.LoginID),
			PasswordHash: hash,
			RealName:     payload.RealName,
			Nickname:     payload.Nickname,
			Phone:        payload.Phone,
			BirthYear:    payload.BirthYear,
			Gender:       payload.Gender,
			NationalID:   payload.NationalID,
			Status:       StatusActive,
			Role:         RoleUser,
		}

		account, err = m.repo.Accounts().RegisterTx(ctx, tx, record)
		return err
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "account registration failed")
	}

	m.logger.Info("account registered: %s", account.LoginID)
	return account, nil
}

// UpdateRole reassigns the account's role. Setting the same role twice is a
// no-op that still refreshes updated_at.
func (m *AccountManager) UpdateRole(ctx context.Context, id uuid.UUID, role Role) (*Account, error) {
	if !role.IsValid() {
		return nil, goerrors.New("unknown role", goerrors.CategoryBadInput).
			WithMetadata(map[string]any{"role": role})
	}

	account, err := m.repo.Accounts().UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}

	m.logger.Info("account %s role updated to %s", id.String(), role)
	return account, nil
}

// SetActive toggles the account status. Deactivation only blocks future
// credential verification; sessions already issued keep working until they
// expire.
func (m *AccountManager) SetActive(ctx context.Context, id uuid.UUID, active bool) (*Account, error) {
	status := StatusInactive
	if active {
		status = StatusActive
	}

	account, err := m.repo.Accounts().SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	m.logger.Info("account %s status updated to %s", id.String(), status)
	return account, nil
}

// UpdateProfile changes the self-service fields only.
func (m *AccountManager) UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (*Account, error) {
	if patch.Phone != "" {
		if err := ValidPhoneNumber(patch.Phone); err != nil {
			return nil, err
		}
	}

	return m.repo.Accounts().UpdateProfile(ctx, id, patch)
}

// Purge removes the account record entirely. Irreversible, distinct from
// deactivation.
func (m *AccountManager) Purge(ctx context.Context, id uuid.UUID) error {
	if err := m.repo.Accounts().Purge(ctx, id); err != nil {
		return err
	}

	m.logger.Info("account %s purged", id.String())
	return nil
}

// ResetPassword re-hashes and replaces the secret without requiring the old
// one. Callers reach this only after an out-of-band identity verification
// step they own.
func (m *AccountManager) ResetPassword(ctx context.Context, loginID, newPassword string) error {
	if err := PasswordStrength(newPassword); err != nil {
		return err
	}

	account, err := m.repo.Accounts().GetByLoginID(ctx, loginID)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrAccountNotFound.Clone().
				WithMetadata(map[string]any{"login_id": loginID})
		}
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := m.repo.Accounts().ResetPassword(ctx, account.ID, hash); err != nil {
		return err
	}

	m.logger.Info("password reset for %s", loginID)
	return nil
}

// ListAccounts pages through accounts for the admin user-management screen.
func (m *AccountManager) ListAccounts(ctx context.Context, criteria ListCriteria) ([]*Account, int, error) {
	return m.repo.Accounts().List(ctx, criteria)
}
