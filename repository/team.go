package repository

import (
	"context"

	"github.com/fastygo/taskflow/domain"
)

// TeamRepository answers the membership-graph queries. "Visible" means
// owner == userID OR userID in members.
type TeamRepository interface {
	ListVisible(ctx context.Context, userID string) ([]domain.Team, error)
	// GetVisible returns domain.ErrTeamNotFound both for a missing team and
	// for a team the user cannot see.
	GetVisible(ctx context.Context, teamID, userID string) (*domain.Team, error)
	Create(ctx context.Context, team *domain.Team) error
}
