package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ineffable/agency-server/internal/model"
)

type ServiceRepository interface {
	FindAll(ctx context.Context) ([]model.Service, error)
	FindBySlug(ctx context.Context, slug string) (*model.Service, error)
	Create(ctx context.Context, params model.ServiceParams) (*model.Service, error)
	Update(ctx context.Context, id string, params model.ServiceParams) (*model.Service, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type serviceRepo struct {
	db sqlxDB
}

func NewServiceRepository(db *sqlx.DB) ServiceRepository {
	return &serviceRepo{db: db}
}

func (r *serviceRepo) FindAll(ctx context.Context) ([]model.Service, error) {
	services := []model.Service{}
	err := r.db.SelectContext(ctx, &services, `
		SELECT * FROM services ORDER BY sort_order ASC, created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *serviceRepo) FindBySlug(ctx context.Context, slug string) (*model.Service, error) {
	var service model.Service
	err := r.db.GetContext(ctx, &service, `SELECT * FROM services WHERE slug = $1`, slug)
	return HandleNotFound(&service, err)
}

func (r *serviceRepo) Create(ctx context.Context, params model.ServiceParams) (*model.Service, error) {
	var service model.Service
	err := r.db.GetContext(ctx, &service, `
		INSERT INTO services (slug, title, tagline, description, features, accent_color, image, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING *
	`, params.Slug, params.Title, params.Tagline, params.Description,
		pq.StringArray(nonNil(params.Features)), params.AccentColor, params.Image, params.Order)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateSlug
	}
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *serviceRepo) Update(ctx context.Context, id string, params model.ServiceParams) (*model.Service, error) {
	var service model.Service
	err := r.db.GetContext(ctx, &service, `
		UPDATE services SET
			slug = $2,
			title = $3,
			tagline = $4,
			description = $5,
			features = $6,
			accent_color = $7,
			image = $8,
			sort_order = $9,
			updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, id, params.Slug, params.Title, params.Tagline, params.Description,
		pq.StringArray(nonNil(params.Features)), params.AccentColor, params.Image, params.Order)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateSlug
	}
	return HandleNotFound(&service, err)
}

func (r *serviceRepo) Delete(ctx context.Context, id string) (bool, error) {
	return rowsAffected(r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id))
}

func (r *serviceRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM services`)
	return count, err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
