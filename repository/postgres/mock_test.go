package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskflow/domain"
)

var teamRowColumns = []string{
	"id", "name", "description",
	"owner_id", "owner_name", "owner_email",
	"members", "created_at", "updated_at",
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestTeamRepository_ListVisibleFiltersByMembership(t *testing.T) {
	mock := newMockPool(t)
	repo := &teamRepository{pool: mock}
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE (t.owner_id = $1 OR EXISTS ( SELECT 1 FROM team_members vm WHERE vm.team_id = t.id AND vm.user_id = $1 ))")).
		WithArgs("u2").
		WillReturnRows(pgxmock.NewRows(teamRowColumns).
			AddRow("t1", "Core", "", "u1", "Alice", "a@example.com", []string{"u1", "u2"}, now, now))

	teams, err := repo.ListVisible(context.Background(), "u2")
	require.NoError(t, err)
	require.Len(t, teams, 1)
	require.Equal(t, "t1", teams[0].ID)
	require.Equal(t, "Alice", teams[0].Owner.Name)
	require.Equal(t, []string{"u1", "u2"}, teams[0].Members)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepository_GetVisibleHiddenTeam(t *testing.T) {
	mock := newMockPool(t)
	repo := &teamRepository{pool: mock}

	mock.ExpectQuery(regexp.QuoteMeta("vm.user_id = $1 )) AND t.id = $2")).
		WithArgs("stranger", "t1").
		WillReturnRows(pgxmock.NewRows(teamRowColumns))

	_, err := repo.GetVisible(context.Background(), "t1", "stranger")
	require.ErrorIs(t, err, domain.ErrTeamNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_DeleteMissing(t *testing.T) {
	mock := newMockPool(t)
	repo := &taskRepository{pool: mock}

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.ErrorIs(t, repo.Delete(context.Background(), "missing"), domain.ErrTaskNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func sampleWorkspace() *domain.Workspace {
	return &domain.Workspace{
		Team: &domain.Team{
			ID:      "team-1",
			Name:    "My First Team",
			Owner:   domain.UserRef{ID: "u1"},
			Members: []string{"u1"},
		},
		Project: &domain.Project{ID: "project-1", Name: "Sample Project", OwnerID: "u1"},
		Tasks: []*domain.Task{
			{ID: "task-1", Title: "First", Status: domain.StatusTodo, Priority: domain.PriorityHigh, CreatedBy: "u1"},
			{ID: "task-2", Title: "Second", Status: domain.StatusDone, Priority: domain.PriorityLow, CreatedBy: "u1"},
		},
	}
}

func timestamps(now time.Time) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now)
}

func TestOnboardingRepository_SeedCommits(t *testing.T) {
	mock := newMockPool(t)
	repo := &onboardingRepository{pool: mock}
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO teams").
		WithArgs("team-1", "My First Team", "", "u1").
		WillReturnRows(timestamps(now))
	mock.ExpectExec("INSERT INTO team_members").
		WithArgs("team-1", "u1", 0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("INSERT INTO projects").
		WithArgs("project-1", "Sample Project", "", "team-1", "u1").
		WillReturnRows(timestamps(now))
	mock.ExpectQuery("INSERT INTO tasks").WillReturnRows(timestamps(now))
	mock.ExpectQuery("INSERT INTO tasks").WillReturnRows(timestamps(now))
	mock.ExpectCommit()

	ws := sampleWorkspace()
	require.NoError(t, repo.SeedWorkspace(context.Background(), ws))
	require.Equal(t, "My First Team", ws.Project.Team.Name)
	require.Equal(t, "project-1", ws.Tasks[1].Project.ID)
	require.Equal(t, now, ws.Tasks[1].CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOnboardingRepository_SeedRollsBack(t *testing.T) {
	mock := newMockPool(t)
	repo := &onboardingRepository{pool: mock}
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO teams").WillReturnRows(timestamps(now))
	mock.ExpectExec("INSERT INTO team_members").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("INSERT INTO projects").WillReturnRows(timestamps(now))
	mock.ExpectQuery("INSERT INTO tasks").WillReturnRows(timestamps(now))
	mock.ExpectQuery("INSERT INTO tasks").WillReturnError(errors.New("foreign key violation"))
	mock.ExpectRollback()

	err := repo.SeedWorkspace(context.Background(), sampleWorkspace())
	require.ErrorContains(t, err, `insert sample task "Second"`)
	require.NoError(t, mock.ExpectationsWereMet())
}
