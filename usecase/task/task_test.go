package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository/memory"
)

type fixture struct {
	store   *memory.Store
	team    *domain.Team
	project *domain.Project
}

// newFixture creates users alice, bob and carol; alice owns a team with one
// project and bob is a member. carol sees nothing.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	for _, id := range []string{"alice", "bob", "carol"} {
		require.NoError(t, store.Users().Create(ctx, &domain.User{ID: id, Email: id + "@example.com", Name: id}))
	}

	team := &domain.Team{Name: "Core", Owner: domain.UserRef{ID: "alice"}, Members: []string{"alice", "bob"}}
	require.NoError(t, store.Teams().Create(ctx, team))
	project := &domain.Project{Name: "Board", Team: domain.TeamRef{ID: team.ID}, OwnerID: "alice"}
	require.NoError(t, store.Projects().Create(ctx, project))

	return &fixture{store: store, team: team, project: project}
}

func (f *fixture) useCase(policy Policy) *UseCase {
	return New(f.store.Users(), f.store.Teams(), f.store.Projects(), f.store.Tasks(), policy, nil)
}

func TestCreateTask_Defaults(t *testing.T) {
	f := newFixture(t)
	uc := f.useCase(Policy{})

	created, err := uc.CreateTask(context.Background(), "bob", CreateInput{Title: "Write docs", ProjectID: f.project.ID})
	require.NoError(t, err)
	require.Equal(t, domain.StatusTodo, created.Status)
	require.Equal(t, domain.PriorityMedium, created.Priority)
	require.Equal(t, "bob", created.CreatedBy)
	require.Equal(t, "bob", created.AssignedTo.ID)
	require.Equal(t, "bob@example.com", created.AssignedTo.Email)
	require.Equal(t, "Board", created.Project.Name)
	require.Nil(t, created.DueDate)
}

func TestCreateTask_Errors(t *testing.T) {
	f := newFixture(t)
	uc := f.useCase(Policy{})

	tests := []struct {
		name    string
		userID  string
		in      CreateInput
		want    error
		invalid bool
	}{
		{name: "missing title", userID: "alice", in: CreateInput{ProjectID: f.project.ID}, want: domain.ErrTaskFields},
		{name: "missing project", userID: "alice", in: CreateInput{Title: "T"}, want: domain.ErrTaskFields},
		{name: "bad priority", userID: "alice", in: CreateInput{Title: "T", ProjectID: f.project.ID, Priority: "urgent"}, invalid: true},
		{name: "bad status", userID: "alice", in: CreateInput{Title: "T", ProjectID: f.project.ID, Status: "blocked"}, invalid: true},
		{name: "unknown project", userID: "alice", in: CreateInput{Title: "T", ProjectID: "missing"}, want: domain.ErrProjectNotFound},
		{name: "invisible project", userID: "carol", in: CreateInput{Title: "T", ProjectID: f.project.ID}, want: domain.ErrAccessDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.CreateTask(context.Background(), tt.userID, tt.in)
			if tt.invalid {
				require.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid), "got %v", err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestListTasks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uc := f.useCase(Policy{})

	first, err := uc.CreateTask(ctx, "alice", CreateInput{Title: "first", ProjectID: f.project.ID})
	require.NoError(t, err)
	second, err := uc.CreateTask(ctx, "alice", CreateInput{Title: "second", ProjectID: f.project.ID})
	require.NoError(t, err)

	tasks, err := uc.ListTasks(ctx, "bob", "")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Equal(t, second.ID, tasks[0].ID)
	require.Equal(t, first.ID, tasks[1].ID)

	tasks, err = uc.ListTasks(ctx, "carol", "")
	require.NoError(t, err)
	require.Empty(t, tasks)

	// Filtering by project skips the visibility check by default.
	tasks, err = uc.ListTasks(ctx, "carol", f.project.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	strict := f.useCase(Policy{StrictProjectFilter: true})
	_, err = strict.ListTasks(ctx, "carol", f.project.ID)
	require.ErrorIs(t, err, domain.ErrAccessDenied)
	tasks, err = strict.ListTasks(ctx, "bob", f.project.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
}

func TestUpdateTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uc := f.useCase(Policy{})

	due := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	created, err := uc.CreateTask(ctx, "alice", CreateInput{Title: "T", Description: "keep", DueDate: &due, ProjectID: f.project.ID})
	require.NoError(t, err)

	status := domain.StatusInProgress
	updated, err := uc.UpdateTask(ctx, "alice", created.ID, domain.TaskPatch{Status: &status})
	require.NoError(t, err)
	require.Equal(t, domain.StatusInProgress, updated.Status)
	require.Equal(t, "T", updated.Title)
	require.Equal(t, "keep", updated.Description)
	require.Equal(t, due, *updated.DueDate)

	assignee := "bob"
	updated, err = uc.UpdateTask(ctx, "alice", created.ID, domain.TaskPatch{ClearDueDate: true, AssignedTo: &assignee})
	require.NoError(t, err)
	require.Nil(t, updated.DueDate)
	require.Equal(t, "bob", updated.AssignedTo.ID)
	require.Equal(t, "bob", updated.AssignedTo.Name)

	bad := domain.TaskStatus("blocked")
	_, err = uc.UpdateTask(ctx, "alice", created.ID, domain.TaskPatch{Status: &bad})
	require.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	ghost := "ghost"
	_, err = uc.UpdateTask(ctx, "alice", created.ID, domain.TaskPatch{AssignedTo: &ghost})
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.UpdateTask(ctx, "alice", created.ID, domain.TaskPatch{ProjectID: &ghost})
	require.ErrorIs(t, err, domain.ErrProjectNotFound)

	_, err = uc.UpdateTask(ctx, "alice", "missing", domain.TaskPatch{Status: &status})
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestUpdateTask_Policy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, err := f.useCase(Policy{}).CreateTask(ctx, "alice", CreateInput{Title: "T", ProjectID: f.project.ID})
	require.NoError(t, err)

	title := "renamed by outsider"
	updated, err := f.useCase(Policy{}).UpdateTask(ctx, "carol", created.ID, domain.TaskPatch{Title: &title})
	require.NoError(t, err)
	require.Equal(t, title, updated.Title)

	_, err = f.useCase(Policy{StrictMutations: true}).UpdateTask(ctx, "carol", created.ID, domain.TaskPatch{Title: &title})
	require.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestDeleteTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uc := f.useCase(Policy{})
	strict := f.useCase(Policy{StrictMutations: true})

	created, err := uc.CreateTask(ctx, "alice", CreateInput{Title: "T", ProjectID: f.project.ID})
	require.NoError(t, err)

	require.ErrorIs(t, strict.DeleteTask(ctx, "carol", created.ID), domain.ErrAccessDenied)
	require.NoError(t, uc.DeleteTask(ctx, "carol", created.ID))
	require.ErrorIs(t, uc.DeleteTask(ctx, "alice", created.ID), domain.ErrTaskNotFound)
	require.ErrorIs(t, strict.DeleteTask(ctx, "alice", created.ID), domain.ErrTaskNotFound)

	tasks, err := uc.ListTasks(ctx, "alice", "")
	require.NoError(t, err)
	require.Empty(t, tasks)
}
