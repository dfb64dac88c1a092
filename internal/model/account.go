package model

import (
	"time"

	"github.com/google/uuid"
)

// Account is an administrative identity that can sign in to the admin panel.
type Account struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	Approved     bool      `db:"approved" json:"approved"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// AccountSummary is the only account shape that leaves the server.
type AccountSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"createdAt"`
}

func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      a.Role,
		Approved:  a.Approved,
		CreatedAt: a.CreatedAt,
	}
}

type CreateAccountParams struct {
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Approved     bool
}

type UpdateAccountParams struct {
	Name     *string
	Approved *bool
}

// Identity is the acting principal decoded from a verified session token.
type Identity struct {
	AccountID string
	Role      Role
	IssuedAt  time.Time
}

// CanonicalID returns id in the lower-case hyphenated form the store emits,
// or "" when id is not a hyphenated UUID. Postgres matches uuid values
// regardless of case, so identity comparisons and revocation keys use this form.
func CanonicalID(id string) string {
	if len(id) != 36 {
		return ""
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return ""
	}
	return parsed.String()
}
