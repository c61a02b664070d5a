package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

const projectSelect = `
	SELECT p.id, p.name, p.description, t.id, t.name, p.owner_id, p.created_at, p.updated_at
	FROM projects p
	JOIN teams t ON t.id = p.team_id
`

type projectRepository struct {
	pool pgxPool
}

// NewProjectRepository returns a Postgres-backed implementation of ProjectRepository.
func NewProjectRepository(pool *pgxpool.Pool) repository.ProjectRepository {
	return &projectRepository{pool: pool}
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return scanProject(r.pool.QueryRow(ctx, projectSelect+` WHERE p.id = $1`, id))
}

func (r *projectRepository) ListByTeams(ctx context.Context, teamIDs []string) ([]domain.Project, error) {
	projects := make([]domain.Project, 0)
	if len(teamIDs) == 0 {
		return projects, nil
	}

	rows, err := r.pool.Query(ctx, projectSelect+` WHERE p.team_id = ANY($1) ORDER BY p.created_at ASC`, teamIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
	}
	return projects, rows.Err()
}

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	if project == nil {
		return domain.ErrInvalidPayload
	}
	if err := insertProject(ctx, r.pool, project); err != nil {
		return err
	}

	const query = `SELECT name FROM teams WHERE id = $1`
	if err := r.pool.QueryRow(ctx, query, project.Team.ID).Scan(&project.Team.Name); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	return nil
}

func insertProject(ctx context.Context, q queryer, project *domain.Project) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO projects (id, name, description, team_id, owner_id)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at, updated_at
	`
	return q.QueryRow(ctx, query,
		project.ID,
		project.Name,
		project.Description,
		project.Team.ID,
		project.OwnerID,
	).Scan(&project.CreatedAt, &project.UpdatedAt)
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var project domain.Project
	if err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.Team.ID,
		&project.Team.Name,
		&project.OwnerID,
		&project.CreatedAt,
		&project.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}
