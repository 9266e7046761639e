package identity

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var resetAccountPasswordSQL = `UPDATE "accounts" AS "acc"
SET
	"password_hash" = ?,
	"updated_at" = ?
WHERE
	"acc"."id" = ?
RETURNING *;`

// Accounts is the credential store. The unique index on login_id supplies the
// atomic insert-if-absent registration requires; duplicate inserts surface as
// ErrDuplicateLoginID, never as a second success.
type Accounts interface {
	// repository.Repository[*Account] spelled out method by method: Go
	// forbids embedding it alongside the ListCriteria-based List override
	// declared below.
	Raw(ctx context.Context, sql string, args ...any) ([]*Account, error)
	RawTx(ctx context.Context, tx bun.IDB, sql string, args ...any) ([]*Account, error)
	Get(ctx context.Context, criteria ...repository.SelectCriteria) (*Account, error)
	GetTx(ctx context.Context, tx bun.IDB, criteria ...repository.SelectCriteria) (*Account, error)
	GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*Account, error)
	GetByIDTx(ctx context.Context, tx bun.IDB, id string, criteria ...repository.SelectCriteria) (*Account, error)
	ListTx(ctx context.Context, tx bun.IDB, criteria ...repository.SelectCriteria) ([]*Account, int, error)
	Count(ctx context.Context, criteria ...repository.SelectCriteria) (int, error)
	CountTx(ctx context.Context, tx bun.IDB, criteria ...repository.SelectCriteria) (int, error)
	CreateMany(ctx context.Context, records []*Account, criteria ...repository.InsertCriteria) ([]*Account, error)
	CreateManyTx(ctx context.Context, tx bun.IDB, records []*Account, criteria ...repository.InsertCriteria) ([]*Account, error)
	GetOrCreate(ctx context.Context, record *Account) (*Account, error)
	GetOrCreateTx(ctx context.Context, tx bun.IDB, record *Account) (*Account, error)
	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*Account, error)
	GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (*Account, error)
	Update(ctx context.Context, record *Account, criteria ...repository.UpdateCriteria) (*Account, error)
	UpdateTx(ctx context.Context, tx bun.IDB, record *Account, criteria ...repository.UpdateCriteria) (*Account, error)
	UpdateMany(ctx context.Context, records []*Account, criteria ...repository.UpdateCriteria) ([]*Account, error)
	UpdateManyTx(ctx context.Context, tx bun.IDB, records []*Account, criteria ...repository.UpdateCriteria) ([]*Account, error)
	Upsert(ctx context.Context, record *Account, criteria ...repository.UpdateCriteria) (*Account, error)
	UpsertTx(ctx context.Context, tx bun.IDB, record *Account, criteria ...repository.UpdateCriteria) (*Account, error)
	UpsertMany(ctx context.Context, records []*Account, criteria ...repository.UpdateCriteria) ([]*Account, error)
	UpsertManyTx(ctx context.Context, tx bun.IDB, records []*Account, criteria ...repository.UpdateCriteria) ([]*Account, error)
	Delete(ctx context.Context, record *Account) error
	DeleteTx(ctx context.Context, tx bun.IDB, record *Account) error
	DeleteMany(ctx context.Context, criteria ...repository.DeleteCriteria) error
	DeleteManyTx(ctx context.Context, tx bun.IDB, criteria ...repository.DeleteCriteria) error
	DeleteWhere(ctx context.Context, criteria ...repository.DeleteCriteria) error
	DeleteWhereTx(ctx context.Context, tx bun.IDB, criteria ...repository.DeleteCriteria) error
	ForceDelete(ctx context.Context, record *Account) error
	ForceDeleteTx(ctx context.Context, tx bun.IDB, record *Account) error
	Handlers() repository.ModelHandlers[*Account]
	RegisterScope(name string, scope repository.ScopeDefinition)
	SetScopeDefaults(defaults repository.ScopeDefaults) error
	GetScopeDefaults() repository.ScopeDefaults

	GetByLoginID(ctx context.Context, loginID string) (*Account, error)
	GetByLoginIDTx(ctx context.Context, tx bun.IDB, loginID string) (*Account, error)

	Register(ctx context.Context, account *Account) (*Account, error)
	RegisterTx(ctx context.Context, tx bun.IDB, account *Account) (*Account, error)
	Create(ctx context.Context, record *Account, criteria ...repository.InsertCriteria) (*Account, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Account, criteria ...repository.InsertCriteria) (*Account, error)

	UpdateRole(ctx context.Context, id uuid.UUID, role Role) (*Account, error)
	UpdateRoleTx(ctx context.Context, tx bun.IDB, id uuid.UUID, role Role) (*Account, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Account, error)
	SetStatusTx(ctx context.Context, tx bun.IDB, id uuid.UUID, status Status) (*Account, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (*Account, error)
	UpdateProfileTx(ctx context.Context, tx bun.IDB, id uuid.UUID, patch ProfilePatch) (*Account, error)

	ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error

	Purge(ctx context.Context, id uuid.UUID) error
	PurgeTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error

	List(ctx context.Context, criteria ListCriteria) ([]*Account, int, error)
}

// ListCriteria pages through the account listing. A zero Limit means
// no paging.
type ListCriteria struct {
	Limit  int
	Offset int
}

type accounts struct {
	repository.Repository[*Account]
	db               *bun.DB
	deterministicIDs bool
}

var _ Accounts = (*accounts)(nil)

type AccountsOption func(*accounts)

// WithDeterministicIDs derives the account id from the login id instead of
// generating a random UUID. Useful when fixtures need stable ids across
// environments.
func WithDeterministicIDs() AccountsOption {
	return func(a *accounts) {
		a.deterministicIDs = true
	}
}

func NewAccountsRepository(db *bun.DB, opts ...AccountsOption) Accounts {
	repo := repository.NewRepository[*Account](db, repository.ModelHandlers[*Account]{
		NewRecord: func() *Account { return &Account{} },
		GetID: func(a *Account) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Account, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "login_id"
		},
	})

	repoAccounts := &accounts{
		Repository: repo,
		db:         db,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(repoAccounts)
		}
	}

	return repoAccounts
}

func (a *accounts) GetByLoginID(ctx context.Context, loginID string) (*Account, error) {
	return a.GetByLoginIDTx(ctx, a.db, loginID)
}

func (a *accounts) GetByLoginIDTx(ctx context.Context, tx bun.IDB, loginID string) (*Account, error) {
	record := &Account{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.login_id = ?", strings.TrimSpace(loginID)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"login_id": loginID,
				})
		}
		return nil, err
	}

	record.EnsureStatus()
	return record, nil
}

func (a *accounts) Register(ctx context.Context, account *Account) (*Account, error) {
	return a.RegisterTx(ctx, a.db, account)
}

func (a *accounts) RegisterTx(ctx context.Context, tx bun.IDB, account *Account) (*Account, error) {
	return a.CreateTx(ctx, tx, account)
}

func (a *accounts) Create(ctx context.Context, record *Account, criteria ...repository.InsertCriteria) (*Account, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *accounts) CreateTx(ctx context.Context, tx bun.IDB, record *Account, criteria ...repository.InsertCriteria) (*Account, error) {
	a.prepareDefaults(record)

	created, err := a.Repository.CreateTx(ctx, tx, record, criteria...)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrDuplicateLoginID.Clone().
				WithMetadata(map[string]any{
					"login_id": record.LoginID,
				})
		}
		return nil, err
	}

	return created, nil
}

func (a *accounts) UpdateRole(ctx context.Context, id uuid.UUID, role Role) (*Account, error) {
	return a.UpdateRoleTx(ctx, a.db, id, role)
}

// UpdateRoleTx is idempotent: assigning the current role again still runs the
// update so updated_at reflects the latest administrative write.
func (a *accounts) UpdateRoleTx(ctx context.Context, tx bun.IDB, id uuid.UUID, role Role) (*Account, error) {
	return a.updateColumns(ctx, tx, id, func(record *Account) []string {
		record.Role = role
		return []string{"role"}
	})
}

func (a *accounts) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Account, error) {
	return a.SetStatusTx(ctx, a.db, id, status)
}

func (a *accounts) SetStatusTx(ctx context.Context, tx bun.IDB, id uuid.UUID, status Status) (*Account, error) {
	return a.updateColumns(ctx, tx, id, func(record *Account) []string {
		record.Status = status
		return []string{"status"}
	})
}

func (a *accounts) UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (*Account, error) {
	return a.UpdateProfileTx(ctx, a.db, id, patch)
}

func (a *accounts) UpdateProfileTx(ctx context.Context, tx bun.IDB, id uuid.UUID, patch ProfilePatch) (*Account, error) {
	return a.updateColumns(ctx, tx, id, func(record *Account) []string {
		record.Nickname = patch.Nickname
		record.Phone = patch.Phone
		record.ProfileImage = patch.ProfileImage
		return []string{"nickname", "phone", "profile_image"}
	})
}

func (a *accounts) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return a.ResetPasswordTx(ctx, a.db, id, passwordHash)
}

func (a *accounts) ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	res, err := a.Repository.RawTx(ctx, tx, resetAccountPasswordSQL, passwordHash, time.Now(), id.String())
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return ErrAccountNotFound.Clone().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}

func (a *accounts) Purge(ctx context.Context, id uuid.UUID) error {
	return a.PurgeTx(ctx, a.db, id)
}

// PurgeTx removes the row entirely. This is the irreversible administrative
// delete, distinct from deactivation.
func (a *accounts) PurgeTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	res, err := tx.NewDelete().
		Model((*Account)(nil)).
		Where("?TableAlias.id = ?", id.String()).
		Exec(ctx)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrAccountNotFound.Clone().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}

func (a *accounts) List(ctx context.Context, criteria ListCriteria) ([]*Account, int, error) {
	var records []*Account
	q := a.db.NewSelect().
		Model(&records).
		Order("created_at ASC")

	if criteria.Limit > 0 {
		q = q.Limit(criteria.Limit)
	}
	if criteria.Offset > 0 {
		q = q.Offset(criteria.Offset)
	}

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}

	for _, record := range records {
		record.EnsureStatus()
	}

	return records, total, nil
}

func (a *accounts) updateColumns(ctx context.Context, tx bun.IDB, id uuid.UUID, mutate func(*Account) []string) (*Account, error) {
	record := &Account{ID: id}
	columns := mutate(record)

	now := time.Now()
	record.UpdatedAt = &now
	columns = append(columns, "updated_at")

	res, err := tx.NewUpdate().
		Model(record).
		Column(columns...).
		Where("?TableAlias.id = ?", id.String()).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	if affected == 0 {
		return nil, ErrAccountNotFound.Clone().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return a.Repository.GetByIDTx(ctx, tx, id.String())
}

func (a *accounts) prepareDefaults(record *Account) {
	if record == nil {
		return
	}

	if record.Role == "" {
		record.Role = RoleUser
	}

	record.EnsureStatus()

	if record.ID == uuid.Nil {
		if a.deterministicIDs {
			if id, err := hashid.NewUUID(record.LoginID); err == nil {
				record.ID = id
			}
		}
		if record.ID == uuid.Nil {
			record.ID = uuid.New()
		}
	}
}
