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

const teamColumns = `
	t.id, t.name, t.description,
	o.id, o.name, o.email,
	COALESCE((
		SELECT array_agg(m.user_id ORDER BY m.position)
		FROM team_members m
		WHERE m.team_id = t.id
	), '{}'::text[]),
	t.created_at, t.updated_at
`

// visibleTo is the single authorization predicate every team read goes through.
const visibleTo = `(t.owner_id = $1 OR EXISTS (
	SELECT 1 FROM team_members vm WHERE vm.team_id = t.id AND vm.user_id = $1
))`

type teamRepository struct {
	pool pgxPool
}

// NewTeamRepository returns a Postgres-backed implementation of TeamRepository.
func NewTeamRepository(pool *pgxpool.Pool) repository.TeamRepository {
	return &teamRepository{pool: pool}
}

func (r *teamRepository) ListVisible(ctx context.Context, userID string) ([]domain.Team, error) {
	query := `SELECT ` + teamColumns + `
	FROM teams t
	JOIN users o ON o.id = t.owner_id
	WHERE ` + visibleTo + `
	ORDER BY t.created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]domain.Team, 0)
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *team)
	}
	return teams, rows.Err()
}

func (r *teamRepository) GetVisible(ctx context.Context, teamID, userID string) (*domain.Team, error) {
	query := `SELECT ` + teamColumns + `
	FROM teams t
	JOIN users o ON o.id = t.owner_id
	WHERE ` + visibleTo + ` AND t.id = $2
	`
	return scanTeam(r.pool.QueryRow(ctx, query, userID, teamID))
}

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	if team == nil {
		return domain.ErrInvalidPayload
	}
	if err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		return insertTeam(ctx, tx, team)
	}); err != nil {
		return err
	}
	return r.populateOwner(ctx, team)
}

func (r *teamRepository) populateOwner(ctx context.Context, team *domain.Team) error {
	const query = `SELECT name, email FROM users WHERE id = $1`
	if err := r.pool.QueryRow(ctx, query, team.Owner.ID).Scan(&team.Owner.Name, &team.Owner.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	return nil
}

func insertTeam(ctx context.Context, q queryer, team *domain.Team) error {
	if team.ID == "" {
		team.ID = uuid.NewString()
	}

	const teamQuery = `
	INSERT INTO teams (id, name, description, owner_id)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at, updated_at
	`
	if err := q.QueryRow(ctx, teamQuery,
		team.ID,
		team.Name,
		team.Description,
		team.Owner.ID,
	).Scan(&team.CreatedAt, &team.UpdatedAt); err != nil {
		return err
	}

	const memberQuery = `
	INSERT INTO team_members (team_id, user_id, position)
	VALUES ($1, $2, $3)
	ON CONFLICT (team_id, user_id) DO NOTHING
	`
	for i, memberID := range team.Members {
		if _, err := q.Exec(ctx, memberQuery, team.ID, memberID, i); err != nil {
			return err
		}
	}
	return nil
}

func scanTeam(row rowScanner) (*domain.Team, error) {
	var team domain.Team
	if err := row.Scan(
		&team.ID,
		&team.Name,
		&team.Description,
		&team.Owner.ID,
		&team.Owner.Name,
		&team.Owner.Email,
		&team.Members,
		&team.CreatedAt,
		&team.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}
