package identity

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FederatedIdentity links an externally-asserted identity (provider plus
// subject) to a local account. The pair is unique; one provider subject maps
// to at most one account.
type FederatedIdentity struct {
	bun.BaseModel `bun:"table:federated_identities,alias:fid"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	AccountID     uuid.UUID  `bun:"account_id,notnull,type:uuid" json:"account_id,omitempty"`
	Provider      string     `bun:"provider,notnull" json:"provider,omitempty"`
	Subject       string     `bun:"subject,notnull" json:"subject,omitempty"`
	Email         string     `bun:"email" json:"email,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// FederatedIdentities stores provider links.
type FederatedIdentities interface {
	repository.Repository[*FederatedIdentity]

	FindBySubject(ctx context.Context, provider, subject string) (*FederatedIdentity, error)
	Link(ctx context.Context, accountID uuid.UUID, provider, subject, email string) (*FederatedIdentity, error)
	Unlink(ctx context.Context, provider, subject string) error
}

type federatedIdentities struct {
	repository.Repository[*FederatedIdentity]
	db *bun.DB
}

var _ FederatedIdentities = (*federatedIdentities)(nil)

func NewFederatedIdentitiesRepository(db *bun.DB) FederatedIdentities {
	repo := repository.NewRepository[*FederatedIdentity](db, repository.ModelHandlers[*FederatedIdentity]{
		NewRecord: func() *FederatedIdentity { return &FederatedIdentity{} },
		GetID: func(f *FederatedIdentity) uuid.UUID {
			if f == nil {
				return uuid.Nil
			}
			return f.ID
		},
		SetID: func(f *FederatedIdentity, id uuid.UUID) {
			if f != nil {
				f.ID = id
			}
		},
		GetIdentifier: func() string {
			return "subject"
		},
	})

	return &federatedIdentities{
		Repository: repo,
		db:         db,
	}
}

func (r *federatedIdentities) FindBySubject(ctx context.Context, provider, subject string) (*FederatedIdentity, error) {
	record := &FederatedIdentity{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.provider = ?", provider).
		Where("?TableAlias.subject = ?", subject).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"provider": provider,
					"subject":  subject,
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *federatedIdentities) Link(ctx context.Context, accountID uuid.UUID, provider, subject, email string) (*FederatedIdentity, error) {
	record := &FederatedIdentity{
		ID:        uuid.New(),
		AccountID: accountID,
		Provider:  provider,
		Subject:   subject,
		Email:     email,
	}

	created, err := r.Repository.Create(ctx, record)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, goerrors.New("federated identity already linked", goerrors.CategoryConflict).
				WithCode(goerrors.CodeConflict).
				WithMetadata(map[string]any{"provider": provider, "subject": subject})
		}
		return nil, err
	}

	return created, nil
}

func (r *federatedIdentities) Unlink(ctx context.Context, provider, subject string) error {
	res, err := r.db.NewDelete().
		Model((*FederatedIdentity)(nil)).
		Where("?TableAlias.provider = ?", provider).
		Where("?TableAlias.subject = ?", subject).
		Exec(ctx)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrIdentityNotLinked.Clone().
			WithMetadata(map[string]any{"provider": provider, "subject": subject})
	}

	return nil
}

// FederatedResolver maps an externally-asserted identity claim onto a local
// account. Provisioning a missing link is the caller's decision; we only
// report ErrIdentityNotLinked.
type FederatedResolver struct {
	repo   RepositoryManager
	logger Logger
}

// NewFederatedResolver will create a new FederatedResolver
func NewFederatedResolver(repo RepositoryManager) *FederatedResolver {
	return &FederatedResolver{
		repo:   repo,
		logger: defLogger{},
	}
}

func (r *FederatedResolver) WithLogger(l Logger) *FederatedResolver {
	r.logger = l
	return r
}

// Resolve returns the verified identity for a linked, active account. Once
// resolved, the login flow proceeds exactly as a password login would after
// verification.
func (r *FederatedResolver) Resolve(ctx context.Context, provider, subject string) (*VerifiedIdentity, error) {
	link, err := r.repo.FederatedIdentities().FindBySubject(ctx, provider, subject)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrIdentityNotLinked.Clone().
				WithMetadata(map[string]any{"provider": provider})
		}
		return nil, err
	}

	account, err := r.repo.Accounts().GetByID(ctx, link.AccountID.String())
	if err != nil {
		if goerrors.IsNotFound(err) {
			// The link outlived the account. Report it like a missing link so
			// the collaborator can run its provisioning flow.
			r.logger.Warn("federated link for provider %s points at a purged account", provider)
			return nil, ErrIdentityNotLinked.Clone().
				WithMetadata(map[string]any{"provider": provider})
		}
		return nil, err
	}

	if !account.IsActive() {
		return nil, ErrAccountDisabled
	}

	return &VerifiedIdentity{
		AccountID: account.ID,
		LoginID:   account.LoginID,
		Role:      account.Role,
		Active:    true,
	}, nil
}
