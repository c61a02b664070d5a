package project

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/pkg/validation"
	"github.com/fastygo/taskflow/repository"
)

type CreateInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	TeamID      string `json:"teamId" validate:"required"`
}

type UseCase struct {
	teams    repository.TeamRepository
	projects repository.ProjectRepository
	logger   *zap.Logger
}

func New(teams repository.TeamRepository, projects repository.ProjectRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{teams: teams, projects: projects, logger: logger}
}

// ListProjects returns every project under a team visible to userID.
func (uc *UseCase) ListProjects(ctx context.Context, userID string) ([]domain.Project, error) {
	teams, err := uc.teams.ListVisible(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.projects.ListByTeams(ctx, teamIDs(teams))
}

func (uc *UseCase) CreateProject(ctx context.Context, userID string, in CreateInput) (*domain.Project, error) {
	if err := validation.Struct(in); err != nil {
		return nil, domain.ErrProjectFields
	}

	team, err := uc.teams.GetVisible(ctx, in.TeamID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrTeamNotFound) {
			return nil, domain.ErrTeamAccessDenied
		}
		return nil, err
	}

	project := &domain.Project{
		Name:        in.Name,
		Description: in.Description,
		Team:        domain.TeamRef{ID: team.ID, Name: team.Name},
		OwnerID:     userID,
	}
	if err := uc.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func teamIDs(teams []domain.Team) []string {
	ids := make([]string, 0, len(teams))
	for _, t := range teams {
		ids = append(ids, t.ID)
	}
	return ids
}
