package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

type onboardingRepository struct {
	pool pgxPool
}

// NewOnboardingRepository returns a repository that stores a sample
// workspace in a single transaction.
func NewOnboardingRepository(pool *pgxpool.Pool) repository.OnboardingRepository {
	return &onboardingRepository{pool: pool}
}

func (r *onboardingRepository) SeedWorkspace(ctx context.Context, ws *domain.Workspace) error {
	if ws == nil || ws.Team == nil || ws.Project == nil {
		return domain.ErrInvalidPayload
	}

	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := insertTeam(ctx, tx, ws.Team); err != nil {
			return fmt.Errorf("insert sample team: %w", err)
		}
		ws.Project.Team = domain.TeamRef{ID: ws.Team.ID, Name: ws.Team.Name}
		if err := insertProject(ctx, tx, ws.Project); err != nil {
			return fmt.Errorf("insert sample project: %w", err)
		}
		for _, task := range ws.Tasks {
			task.Project = domain.ProjectRef{ID: ws.Project.ID, Name: ws.Project.Name}
			if err := insertTask(ctx, tx, task); err != nil {
				return fmt.Errorf("insert sample task %q: %w", task.Title, err)
			}
		}
		return nil
	})
}
