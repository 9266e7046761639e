package identity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Role classifies an account for post-login routing and resource access.
type Role string

const (
	// RoleUser is a regular customer account.
	RoleUser Role = "user"
	// RoleAdmin can reach the administration area.
	RoleAdmin Role = "admin"
)

// Status gates whether an account's credentials are usable for new logins.
type Status string

const (
	// StatusActive accounts can authenticate.
	StatusActive Status = "active"
	// StatusInactive accounts keep their record but fail verification.
	StatusInactive Status = "inactive"
)

// Account is the durable identity record. PasswordHash and NationalID are
// secret-adjacent and must never reach logs or serialized output, hence the
// `json:"-"` tags and the redacting String method.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	LoginID       string     `bun:"login_id,notnull,unique" json:"login_id,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	RealName      string     `bun:"real_name,notnull" json:"real_name,omitempty"`
	Nickname      string     `bun:"nickname" json:"nickname,omitempty"`
	Phone         string     `bun:"phone" json:"phone,omitempty"`
	BirthYear     int        `bun:"birth_year,nullzero" json:"birth_year,omitempty"`
	Gender        string     `bun:"gender" json:"gender,omitempty"`
	ProfileImage  string     `bun:"profile_image" json:"profile_image,omitempty"`
	NationalID    string     `bun:"national_id,nullzero" json:"-"`
	Status        Status     `bun:"status,notnull" json:"status,omitempty"`
	Role          Role       `bun:"role,notnull" json:"role,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// EnsureStatus backfills the zero value so legacy rows behave as active.
func (a *Account) EnsureStatus() {
	if a.Status == "" {
		a.Status = StatusActive
	}
}

// IsActive reports whether the account may establish new sessions.
func (a *Account) IsActive() bool {
	a.EnsureStatus()
	return a.Status == StatusActive
}

// IsAdmin reports whether the account carries the admin role.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// ProfilePatch carries the only fields an account holder may change about
// themselves. Identity, secret, role, and status fields go through their own
// operations.
type ProfilePatch struct {
	Nickname     string `json:"nickname"`
	Phone        string `json:"phone"`
	ProfileImage string `json:"profile_image"`
}

// ApplyProfile returns a copy of the account with the patch applied. The
// caller persists the result explicitly.
func (a Account) ApplyProfile(patch ProfilePatch) *Account {
	a.Nickname = patch.Nickname
	a.Phone = patch.Phone
	a.ProfileImage = patch.ProfileImage
	return &a
}

// String redacts secret material so accounts are safe to print.
func (a Account) String() string {
	return fmt.Sprintf("Account{id=%s login_id=%s role=%s status=%s}", a.ID, a.LoginID, a.Role, a.Status)
}
