package identity

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// DefaultAdminLoginID is the login id EnsureDefaultAdmin provisions.
var DefaultAdminLoginID = "admin"

// EnsureDefaultAdmin creates the bootstrap administrator account when no
// account with DefaultAdminLoginID exists. Idempotent; safe to run on every
// startup. The password comes from deployment configuration, never a baked-in
// default.
func EnsureDefaultAdmin(ctx context.Context, repo RepositoryManager, password, realName string) (*Account, error) {
	accounts := repo.Accounts()

	existing, err := accounts.GetByLoginID(ctx, DefaultAdminLoginID)
	if err == nil {
		return existing, nil
	}
	if !goerrors.IsNotFound(err) {
		return nil, err
	}

	// The bootstrap secret honors the same policy as self-service signup;
	// a weak deployment config fails loudly instead of seeding a soft admin.
	if err := PasswordStrength(password); err != nil {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	admin := &Account{
		LoginID:      DefaultAdminLoginID,
		PasswordHash: hash,
		RealName:     realName,
		Nickname:     realName,
		Status:       StatusActive,
		Role:         RoleAdmin,
	}

	created, err := accounts.Register(ctx, admin)
	if err != nil {
		// A concurrent boot may have won the insert; treat that as success.
		if goerrors.Is(err, ErrDuplicateLoginID) {
			return accounts.GetByLoginID(ctx, DefaultAdminLoginID)
		}
		return nil, err
	}

	return created, nil
}
