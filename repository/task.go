package repository

import (
	"context"

	"github.com/fastygo/taskflow/domain"
)

// TaskFilter selects tasks belonging to any of ProjectIDs. A nil slice
// matches nothing.
type TaskFilter struct {
	ProjectIDs []string
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// List returns tasks ordered by creation time, newest first.
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}
