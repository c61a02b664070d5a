package repository

import (
	"context"

	"github.com/fastygo/taskflow/domain"
)

// OnboardingRepository writes a sample workspace all-or-nothing.
type OnboardingRepository interface {
	SeedWorkspace(ctx context.Context, ws *domain.Workspace) error
}
