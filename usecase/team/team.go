package team

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/pkg/validation"
	"github.com/fastygo/taskflow/repository"
)

type CreateInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type UseCase struct {
	teams  repository.TeamRepository
	logger *zap.Logger
}

func New(teams repository.TeamRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{teams: teams, logger: logger}
}

// ListTeams returns the teams userID owns or is a member of.
func (uc *UseCase) ListTeams(ctx context.Context, userID string) ([]domain.Team, error) {
	return uc.teams.ListVisible(ctx, userID)
}

// CreateTeam makes userID both owner and sole member of the new team.
func (uc *UseCase) CreateTeam(ctx context.Context, userID string, in CreateInput) (*domain.Team, error) {
	if err := validation.Struct(in); err != nil {
		return nil, domain.ErrTeamNameRequired
	}

	team := &domain.Team{
		Name:        in.Name,
		Description: in.Description,
		Owner:       domain.UserRef{ID: userID},
		Members:     []string{userID},
	}
	if err := uc.teams.Create(ctx, team); err != nil {
		return nil, err
	}
	uc.logger.Debug("team created", zap.String("team_id", team.ID), zap.String("owner_id", userID))
	return team, nil
}
