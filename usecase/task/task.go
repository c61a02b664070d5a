package task

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/pkg/validation"
	"github.com/fastygo/taskflow/repository"
)

// Policy tightens the default access rules. With both flags off, task
// update/delete and listing by project skip the visibility check.
type Policy struct {
	StrictMutations     bool
	StrictProjectFilter bool
}

type CreateInput struct {
	Title       string `validate:"required"`
	Description string
	Status      domain.TaskStatus   `validate:"omitempty,oneof=todo in-progress done"`
	Priority    domain.TaskPriority `validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time
	ProjectID   string `validate:"required"`
}

type UseCase struct {
	users    repository.UserRepository
	teams    repository.TeamRepository
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	policy   Policy
	logger   *zap.Logger
}

func New(
	users repository.UserRepository,
	teams repository.TeamRepository,
	projects repository.ProjectRepository,
	tasks repository.TaskRepository,
	policy Policy,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		teams:    teams,
		projects: projects,
		tasks:    tasks,
		policy:   policy,
		logger:   logger,
	}
}

// ListTasks returns tasks newest first. Without projectID it walks visible
// teams, then their projects, then their tasks.
func (uc *UseCase) ListTasks(ctx context.Context, userID, projectID string) ([]domain.Task, error) {
	if projectID != "" {
		if uc.policy.StrictProjectFilter {
			if _, err := uc.authorizeProject(ctx, userID, projectID); err != nil {
				return nil, err
			}
		}
		return uc.tasks.List(ctx, repository.TaskFilter{ProjectIDs: []string{projectID}})
	}

	teams, err := uc.teams.ListVisible(ctx, userID)
	if err != nil {
		return nil, err
	}
	teamIDs := make([]string, 0, len(teams))
	for _, t := range teams {
		teamIDs = append(teamIDs, t.ID)
	}

	projects, err := uc.projects.ListByTeams(ctx, teamIDs)
	if err != nil {
		return nil, err
	}
	projectIDs := make([]string, 0, len(projects))
	for _, p := range projects {
		projectIDs = append(projectIDs, p.ID)
	}

	return uc.tasks.List(ctx, repository.TaskFilter{ProjectIDs: projectIDs})
}

// CreateTask records userID as both creator and assignee.
func (uc *UseCase) CreateTask(ctx context.Context, userID string, in CreateInput) (*domain.Task, error) {
	if err := validation.Struct(in); err != nil {
		if validation.IsMissing(err) {
			return nil, domain.ErrTaskFields
		}
		return nil, domain.Invalid(err.Error())
	}

	project, err := uc.authorizeProject(ctx, userID, in.ProjectID)
	if err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		Project:     domain.ProjectRef{ID: project.ID, Name: project.Name},
		CreatedBy:   userID,
		AssignedTo:  &domain.UserRef{ID: userID},
	}
	if task.Status == "" {
		task.Status = domain.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}

	return uc.tasks.Create(ctx, task)
}

// UpdateTask applies a sparse patch. Referenced projects and assignees must
// exist.
func (uc *UseCase) UpdateTask(ctx context.Context, userID, taskID string, patch domain.TaskPatch) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if uc.policy.StrictMutations {
		if _, err := uc.authorizeProject(ctx, userID, task.Project.ID); err != nil {
			return nil, err
		}
	}

	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return task, nil
	}

	if patch.ProjectID != nil && *patch.ProjectID != task.Project.ID {
		if uc.policy.StrictMutations {
			_, err = uc.authorizeProject(ctx, userID, *patch.ProjectID)
		} else {
			_, err = uc.projects.GetByID(ctx, *patch.ProjectID)
		}
		if err != nil {
			return nil, err
		}
	}
	if patch.AssignedTo != nil {
		if _, err := uc.users.GetByID(ctx, *patch.AssignedTo); err != nil {
			return nil, err
		}
	}

	patch.Apply(task)
	return uc.tasks.Update(ctx, task)
}

func (uc *UseCase) DeleteTask(ctx context.Context, userID, taskID string) error {
	if uc.policy.StrictMutations {
		task, err := uc.tasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if _, err := uc.authorizeProject(ctx, userID, task.Project.ID); err != nil {
			return err
		}
	}
	if err := uc.tasks.Delete(ctx, taskID); err != nil {
		return err
	}
	uc.logger.Debug("task deleted", zap.String("task_id", taskID), zap.String("user_id", userID))
	return nil
}

// authorizeProject loads the project and checks its team is visible to
// userID.
func (uc *UseCase) authorizeProject(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	project, err := uc.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.teams.GetVisible(ctx, project.Team.ID, userID); err != nil {
		if errors.Is(err, domain.ErrTeamNotFound) {
			return nil, domain.ErrAccessDenied
		}
		return nil, err
	}
	return project, nil
}
