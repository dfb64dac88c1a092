package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ineffable/agency-server/internal/database"
	"github.com/ineffable/agency-server/internal/model"
)

// AccountRepository is the credential store for admin accounts.
type AccountRepository interface {
	FindByID(ctx context.Context, id string) (*model.Account, error)
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	FindAll(ctx context.Context) ([]model.Account, error)
	Create(ctx context.Context, params model.CreateAccountParams) (*model.Account, error)
	Update(ctx context.Context, id string, params model.UpdateAccountParams) (*model.Account, error)
	// ChangeRole returns ErrLastSuperAdmin when the change would leave no
	// approved super admin, and a nil account when id does not exist.
	ChangeRole(ctx context.Context, id string, role model.Role) (*model.Account, error)
	// Delete reports false when id does not exist. It returns
	// ErrLastSuperAdmin when the target is the only approved super admin.
	Delete(ctx context.Context, id string) (bool, error)
	CountByRole(ctx context.Context, role model.Role) (int, error)
}

type accountRepo struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) FindByID(ctx context.Context, id string) (*model.Account, error) {
	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		SELECT * FROM admins WHERE id = $1
	`, id)
	return HandleNotFound(&account, err)
}

func (r *accountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		SELECT * FROM admins WHERE email = $1
	`, email)
	return HandleNotFound(&account, err)
}

func (r *accountRepo) FindAll(ctx context.Context) ([]model.Account, error) {
	accounts := []model.Account{}
	err := r.db.SelectContext(ctx, &accounts, `
		SELECT * FROM admins
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepo) Create(ctx context.Context, params model.CreateAccountParams) (*model.Account, error) {
	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		INSERT INTO admins (name, email, password_hash, role, approved)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, params.Name, params.Email, params.PasswordHash, params.Role, params.Approved)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepo) Update(ctx context.Context, id string, params model.UpdateAccountParams) (*model.Account, error) {
	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		UPDATE admins SET
			name = COALESCE($2, name),
			approved = COALESCE($3, approved),
			updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, id, params.Name, params.Approved)
	return HandleNotFound(&account, err)
}

func (r *accountRepo) ChangeRole(ctx context.Context, id string, role model.Role) (*model.Account, error) {
	var updated *model.Account
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		target, err := lockAccount(ctx, tx, id)
		if err != nil || target == nil {
			return err
		}

		if isActiveSuperAdmin(target) && role != model.RoleSuperAdmin {
			if err := ensureAnotherSuperAdmin(ctx, tx); err != nil {
				return err
			}
		}

		var account model.Account
		if err := tx.GetContext(ctx, &account, `
			UPDATE admins SET role = $2, updated_at = NOW()
			WHERE id = $1
			RETURNING *
		`, id, role); err != nil {
			return err
		}
		updated = &account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *accountRepo) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		target, err := lockAccount(ctx, tx, id)
		if err != nil || target == nil {
			return err
		}

		if isActiveSuperAdmin(target) {
			if err := ensureAnotherSuperAdmin(ctx, tx); err != nil {
				return err
			}
		}

		deleted, err = rowsAffected(tx.ExecContext(ctx, `DELETE FROM admins WHERE id = $1`, id))
		return err
	})
	return deleted, err
}

func (r *accountRepo) CountByRole(ctx context.Context, role model.Role) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM admins WHERE role = $1 AND approved
	`, role)
	return count, err
}

func lockAccount(ctx context.Context, tx *sqlx.Tx, id string) (*model.Account, error) {
	var account model.Account
	err := tx.GetContext(ctx, &account, `
		SELECT * FROM admins WHERE id = $1 FOR UPDATE
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func isActiveSuperAdmin(a *model.Account) bool {
	return a.Role == model.RoleSuperAdmin && a.Approved
}

// ensureAnotherSuperAdmin locks every approved super admin row so concurrent
// demotions serialize, then requires more than one to exist.
func ensureAnotherSuperAdmin(ctx context.Context, tx *sqlx.Tx) error {
	var ids []string
	if err := tx.SelectContext(ctx, &ids, `
		SELECT id FROM admins
		WHERE role = 'SUPER_ADMIN' AND approved
		FOR UPDATE
	`); err != nil {
		return err
	}
	if len(ids) <= 1 {
		return ErrLastSuperAdmin
	}
	return nil
}
