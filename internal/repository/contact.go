package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ineffable/agency-server/internal/model"
)

type ContactMessageRepository interface {
	FindAll(ctx context.Context, limit, offset int) ([]model.ContactMessage, error)
	Create(ctx context.Context, params model.CreateContactMessageParams) (*model.ContactMessage, error)
	MarkRead(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
	CountUnread(ctx context.Context) (int, error)
}

type contactMessageRepo struct {
	db sqlxDB
}

func NewContactMessageRepository(db *sqlx.DB) ContactMessageRepository {
	return &contactMessageRepo{db: db}
}

func (r *contactMessageRepo) FindAll(ctx context.Context, limit, offset int) ([]model.ContactMessage, error) {
	messages := []model.ContactMessage{}
	err := r.db.SelectContext(ctx, &messages, `
		SELECT * FROM contact_messages
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Create stores a submission; the form's subject is kept as the requested service.
func (r *contactMessageRepo) Create(ctx context.Context, params model.CreateContactMessageParams) (*model.ContactMessage, error) {
	var message model.ContactMessage
	err := r.db.GetContext(ctx, &message, `
		INSERT INTO contact_messages (name, email, phone, service, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, params.Name, params.Email, params.Phone, params.Subject, params.Message)
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *contactMessageRepo) MarkRead(ctx context.Context, id string) (bool, error) {
	return rowsAffected(r.db.ExecContext(ctx, `UPDATE contact_messages SET read = TRUE WHERE id = $1`, id))
}

func (r *contactMessageRepo) Delete(ctx context.Context, id string) (bool, error) {
	return rowsAffected(r.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = $1`, id))
}

func (r *contactMessageRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM contact_messages`)
	return count, err
}

func (r *contactMessageRepo) CountUnread(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM contact_messages WHERE NOT read`)
	return count, err
}
