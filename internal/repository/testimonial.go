package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ineffable/agency-server/internal/model"
)

type TestimonialRepository interface {
	FindAll(ctx context.Context) ([]model.Testimonial, error)
	Create(ctx context.Context, params model.TestimonialParams) (*model.Testimonial, error)
	Update(ctx context.Context, id string, params model.TestimonialParams) (*model.Testimonial, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type testimonialRepo struct {
	db sqlxDB
}

func NewTestimonialRepository(db *sqlx.DB) TestimonialRepository {
	return &testimonialRepo{db: db}
}

func (r *testimonialRepo) FindAll(ctx context.Context) ([]model.Testimonial, error) {
	testimonials := []model.Testimonial{}
	err := r.db.SelectContext(ctx, &testimonials, `
		SELECT * FROM testimonials
		ORDER BY featured DESC, sort_order ASC, created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return testimonials, nil
}

func (r *testimonialRepo) Create(ctx context.Context, params model.TestimonialParams) (*model.Testimonial, error) {
	var testimonial model.Testimonial
	err := r.db.GetContext(ctx, &testimonial, `
		INSERT INTO testimonials (quote, author, role, company, avatar, featured, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING *
	`, params.Quote, params.Author, params.Role, params.Company, params.Avatar, params.Featured, params.Order)
	if err != nil {
		return nil, err
	}
	return &testimonial, nil
}

func (r *testimonialRepo) Update(ctx context.Context, id string, params model.TestimonialParams) (*model.Testimonial, error) {
	var testimonial model.Testimonial
	err := r.db.GetContext(ctx, &testimonial, `
		UPDATE testimonials SET
			quote = $2,
			author = $3,
			role = $4,
			company = $5,
			avatar = $6,
			featured = $7,
			sort_order = $8
		WHERE id = $1
		RETURNING *
	`, id, params.Quote, params.Author, params.Role, params.Company, params.Avatar, params.Featured, params.Order)
	return HandleNotFound(&testimonial, err)
}

func (r *testimonialRepo) Delete(ctx context.Context, id string) (bool, error) {
	return rowsAffected(r.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = $1`, id))
}

func (r *testimonialRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM testimonials`)
	return count, err
}
