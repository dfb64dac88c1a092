package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ineffable/agency-server/internal/model"
)

type TeamMemberRepository interface {
	FindActive(ctx context.Context) ([]model.TeamMember, error)
	FindAll(ctx context.Context) ([]model.TeamMember, error)
	Create(ctx context.Context, params model.TeamMemberParams) (*model.TeamMember, error)
	Update(ctx context.Context, id string, params model.TeamMemberParams) (*model.TeamMember, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type teamMemberRepo struct {
	db sqlxDB
}

func NewTeamMemberRepository(db *sqlx.DB) TeamMemberRepository {
	return &teamMemberRepo{db: db}
}

func (r *teamMemberRepo) FindActive(ctx context.Context) ([]model.TeamMember, error) {
	members := []model.TeamMember{}
	err := r.db.SelectContext(ctx, &members, `
		SELECT * FROM team_members WHERE active ORDER BY sort_order ASC
	`)
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *teamMemberRepo) FindAll(ctx context.Context) ([]model.TeamMember, error) {
	members := []model.TeamMember{}
	err := r.db.SelectContext(ctx, &members, `
		SELECT * FROM team_members ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *teamMemberRepo) Create(ctx context.Context, params model.TeamMemberParams) (*model.TeamMember, error) {
	active := true
	if params.Active != nil {
		active = *params.Active
	}

	var member model.TeamMember
	err := r.db.GetContext(ctx, &member, `
		INSERT INTO team_members (name, role, bio, avatar, linkedin, twitter, dribbble, active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING *
	`, params.Name, params.Role, params.Bio, params.Avatar, params.LinkedIn, params.Twitter,
		params.Dribbble, active, params.Order)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *teamMemberRepo) Update(ctx context.Context, id string, params model.TeamMemberParams) (*model.TeamMember, error) {
	var member model.TeamMember
	err := r.db.GetContext(ctx, &member, `
		UPDATE team_members SET
			name = $2,
			role = $3,
			bio = $4,
			avatar = $5,
			linkedin = $6,
			twitter = $7,
			dribbble = $8,
			active = COALESCE($9, active),
			sort_order = $10
		WHERE id = $1
		RETURNING *
	`, id, params.Name, params.Role, params.Bio, params.Avatar, params.LinkedIn, params.Twitter,
		params.Dribbble, params.Active, params.Order)
	return HandleNotFound(&member, err)
}

func (r *teamMemberRepo) Delete(ctx context.Context, id string) (bool, error) {
	return rowsAffected(r.db.ExecContext(ctx, `DELETE FROM team_members WHERE id = $1`, id))
}

func (r *teamMemberRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM team_members`)
	return count, err
}
