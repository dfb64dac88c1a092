package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ineffable/agency-server/internal/database"
	"github.com/ineffable/agency-server/internal/model"
)

type ProjectRepository interface {
	FindAll(ctx context.Context) ([]model.Project, error)
	FindBySlug(ctx context.Context, slug string) (*model.Project, error)
	Create(ctx context.Context, params model.ProjectParams) (*model.Project, error)
	// Update replaces the project's fields and its full set of linked services.
	Update(ctx context.Context, id string, params model.ProjectParams) (*model.Project, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type projectRepo struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) ProjectRepository {
	return &projectRepo{db: db}
}

type projectServiceRow struct {
	ProjectID string `db:"project_id"`
	model.Service
}

func (r *projectRepo) FindAll(ctx context.Context) ([]model.Project, error) {
	projects := []model.Project{}
	err := r.db.SelectContext(ctx, &projects, `
		SELECT * FROM projects ORDER BY sort_order ASC, created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	if err := r.attachServices(ctx, r.db, projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepo) FindBySlug(ctx context.Context, slug string) (*model.Project, error) {
	var project model.Project
	err := r.db.GetContext(ctx, &project, `SELECT * FROM projects WHERE slug = $1`, slug)
	found, err := HandleNotFound(&project, err)
	if err != nil || found == nil {
		return nil, err
	}

	projects := []model.Project{*found}
	if err := r.attachServices(ctx, r.db, projects); err != nil {
		return nil, err
	}
	return &projects[0], nil
}

func (r *projectRepo) Create(ctx context.Context, params model.ProjectParams) (*model.Project, error) {
	var project model.Project
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &project, `
			INSERT INTO projects (slug, title, client, year, category, description, thumbnail, images, featured, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING *
		`, params.Slug, params.Title, params.Client, params.Year, params.Category, params.Description,
			params.Thumbnail, pq.StringArray(nonNil(params.Images)), params.Featured, params.Order)
		if err != nil {
			return err
		}
		return r.linkServices(ctx, tx, &project, params.ServiceIDs)
	})
	if isForeignKeyViolation(err) {
		return nil, ErrUnknownService
	}
	if isUniqueViolation(err) {
		return nil, ErrDuplicateSlug
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepo) Update(ctx context.Context, id string, params model.ProjectParams) (*model.Project, error) {
	var updated *model.Project
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var project model.Project
		err := tx.GetContext(ctx, &project, `
			UPDATE projects SET
				slug = $2,
				title = $3,
				client = $4,
				year = $5,
				category = $6,
				description = $7,
				thumbnail = $8,
				images = $9,
				featured = $10,
				sort_order = $11,
				updated_at = NOW()
			WHERE id = $1
			RETURNING *
		`, id, params.Slug, params.Title, params.Client, params.Year, params.Category, params.Description,
			params.Thumbnail, pq.StringArray(nonNil(params.Images)), params.Featured, params.Order)
		found, err := HandleNotFound(&project, err)
		if err != nil || found == nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM project_services WHERE project_id = $1`, id); err != nil {
			return err
		}
		if err := r.linkServices(ctx, tx, found, params.ServiceIDs); err != nil {
			return err
		}
		updated = found
		return nil
	})
	if isForeignKeyViolation(err) {
		return nil, ErrUnknownService
	}
	if isUniqueViolation(err) {
		return nil, ErrDuplicateSlug
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *projectRepo) Delete(ctx context.Context, id string) (bool, error) {
	return rowsAffected(r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id))
}

func (r *projectRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM projects`)
	return count, err
}

func (r *projectRepo) linkServices(ctx context.Context, tx *sqlx.Tx, project *model.Project, serviceIDs []string) error {
	if len(serviceIDs) > 0 {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO project_services (project_id, service_id)
			SELECT $1, UNNEST($2::uuid[])
			ON CONFLICT DO NOTHING
		`, project.ID, pq.Array(serviceIDs)); err != nil {
			return err
		}
	}

	projects := []model.Project{*project}
	if err := r.attachServices(ctx, tx, projects); err != nil {
		return err
	}
	*project = projects[0]
	return nil
}

func (r *projectRepo) attachServices(ctx context.Context, db sqlxDB, projects []model.Project) error {
	if len(projects) == 0 {
		return nil
	}

	ids := make([]string, len(projects))
	for i := range projects {
		ids[i] = projects[i].ID
		projects[i].Services = []model.Service{}
	}

	var rows []projectServiceRow
	err := db.SelectContext(ctx, &rows, `
		SELECT ps.project_id, s.*
		FROM project_services ps
		JOIN services s ON s.id = ps.service_id
		WHERE ps.project_id = ANY($1)
		ORDER BY s.sort_order ASC
	`, pq.Array(ids))
	if err != nil {
		return err
	}

	index := make(map[string]int, len(projects))
	for i := range projects {
		index[projects[i].ID] = i
	}
	for _, row := range rows {
		if i, ok := index[row.ProjectID]; ok {
			projects[i].Services = append(projects[i].Services, row.Service)
		}
	}
	return nil
}
