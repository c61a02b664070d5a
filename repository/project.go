package repository

import (
	"context"

	"github.com/fastygo/taskflow/domain"
)

type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	ListByTeams(ctx context.Context, teamIDs []string) ([]domain.Project, error)
	Create(ctx context.Context, project *domain.Project) error
}
