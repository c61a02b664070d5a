// Package memory keeps the whole membership graph in process memory. It is
// used by the "memory" storage driver and as the fake behind usecase and
// handler tests.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

type teamRow struct {
	team domain.Team
	seq  uint64
}

type projectRow struct {
	project domain.Project
	seq     uint64
}

type taskRow struct {
	task       domain.Task
	assigneeID string
	seq        uint64
}

// Store is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	seq      uint64
	now      func() time.Time
	users    map[string]domain.User
	emails   map[string]string
	teams    map[string]*teamRow
	projects map[string]*projectRow
	tasks    map[string]*taskRow
	revoked  map[string]time.Time
}

func New() *Store {
	return &Store{
		now:      func() time.Time { return time.Now().UTC() },
		users:    make(map[string]domain.User),
		emails:   make(map[string]string),
		teams:    make(map[string]*teamRow),
		projects: make(map[string]*projectRow),
		tasks:    make(map[string]*taskRow),
		revoked:  make(map[string]time.Time),
	}
}

func (s *Store) Users() repository.UserRepository { return userRepo{s} }
func (s *Store) Teams() repository.TeamRepository { return teamRepo{s} }
func (s *Store) Projects() repository.ProjectRepository { return projectRepo{s} }
func (s *Store) Tasks() repository.TaskRepository { return taskRepo{s} }
func (s *Store) Onboarding() repository.OnboardingRepository { return onboardingRepo{s} }
func (s *Store) Revocations() repository.RevocationRepository { return revocationRepo{s} }

// Ping lets the health monitor treat the store like a database connection.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) next() uint64 {
	s.seq++
	return s.seq
}

// --- users ---

type userRepo struct{ s *Store }

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	id, ok := r.s.emails[email]
	r.s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

func (r userRepo) Create(_ context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := user.Email
	if _, exists := r.s.emails[key]; exists {
		return domain.ErrUserExists
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = r.s.now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	r.s.emails[key] = user.ID
	return nil
}

// --- teams ---

type teamRepo struct{ s *Store }

func (r teamRepo) ListVisible(_ context.Context, userID string) ([]domain.Team, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]*teamRow, 0)
	for _, row := range r.s.teams {
		if row.team.VisibleTo(userID) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	teams := make([]domain.Team, 0, len(rows))
	for _, row := range rows {
		teams = append(teams, r.s.populateTeam(row.team))
	}
	return teams, nil
}

func (r teamRepo) GetVisible(_ context.Context, teamID, userID string) (*domain.Team, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.teams[teamID]
	if !ok || !row.team.VisibleTo(userID) {
		return nil, domain.ErrTeamNotFound
	}
	team := r.s.populateTeam(row.team)
	return &team, nil
}

func (r teamRepo) Create(_ context.Context, team *domain.Team) error {
	if team == nil {
		return domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.insertTeam(team)
	*team = r.s.populateTeam(*team)
	return nil
}

func (s *Store) insertTeam(team *domain.Team) {
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	team.CreatedAt = s.now()
	team.UpdatedAt = team.CreatedAt

	stored := *team
	stored.Members = slices.Clone(team.Members)
	s.teams[team.ID] = &teamRow{team: stored, seq: s.next()}
}

func (s *Store) populateTeam(team domain.Team) domain.Team {
	if owner, ok := s.users[team.Owner.ID]; ok {
		team.Owner = domain.UserRef{ID: owner.ID, Name: owner.Name, Email: owner.Email}
	}
	team.Members = slices.Clone(team.Members)
	if team.Members == nil {
		team.Members = []string{}
	}
	return team
}

// --- projects ---

type projectRepo struct{ s *Store }

func (r projectRepo) GetByID(_ context.Context, id string) (*domain.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	project := r.s.populateProject(row.project)
	return &project, nil
}

func (r projectRepo) ListByTeams(_ context.Context, teamIDs []string) ([]domain.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]*projectRow, 0)
	for _, row := range r.s.projects {
		if slices.Contains(teamIDs, row.project.Team.ID) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	projects := make([]domain.Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, r.s.populateProject(row.project))
	}
	return projects, nil
}

func (r projectRepo) Create(_ context.Context, project *domain.Project) error {
	if project == nil {
		return domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.insertProject(project)
	*project = r.s.populateProject(*project)
	return nil
}

func (s *Store) insertProject(project *domain.Project) {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	project.CreatedAt = s.now()
	project.UpdatedAt = project.CreatedAt
	s.projects[project.ID] = &projectRow{project: *project, seq: s.next()}
}

func (s *Store) populateProject(project domain.Project) domain.Project {
	if row, ok := s.teams[project.Team.ID]; ok {
		project.Team.Name = row.team.Name
	}
	return project
}

// --- tasks ---

type taskRepo struct{ s *Store }

func (r taskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	task := r.s.populateTask(row)
	return &task, nil
}

func (r taskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]*taskRow, 0)
	for _, row := range r.s.tasks {
		if slices.Contains(filter.ProjectIDs, row.task.Project.ID) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })

	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, r.s.populateTask(row))
	}
	return tasks, nil
}

func (r taskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row := r.s.insertTask(task)
	created := r.s.populateTask(row)
	return &created, nil
}

func (r taskRepo) Update(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.tasks[task.ID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}

	stored := *task
	stored.CreatedAt = row.task.CreatedAt
	stored.CreatedBy = row.task.CreatedBy
	stored.UpdatedAt = r.s.now()
	stored.DueDate = cloneTime(task.DueDate)
	row.task = stored
	row.assigneeID = ""
	if task.AssignedTo != nil {
		row.assigneeID = task.AssignedTo.ID
	}

	updated := r.s.populateTask(row)
	return &updated, nil
}

func (r taskRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

func (s *Store) insertTask(task *domain.Task) *taskRow {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.CreatedAt = s.now()
	task.UpdatedAt = task.CreatedAt

	stored := *task
	stored.DueDate = cloneTime(task.DueDate)
	row := &taskRow{task: stored, seq: s.next()}
	if task.AssignedTo != nil {
		row.assigneeID = task.AssignedTo.ID
	}
	s.tasks[task.ID] = row
	return row
}

func (s *Store) populateTask(row *taskRow) domain.Task {
	task := row.task
	task.DueDate = cloneTime(row.task.DueDate)
	if project, ok := s.projects[task.Project.ID]; ok {
		task.Project.Name = project.project.Name
	}
	task.AssignedTo = nil
	if row.assigneeID != "" {
		ref := domain.UserRef{ID: row.assigneeID}
		if user, ok := s.users[row.assigneeID]; ok {
			ref.Name = user.Name
			ref.Email = user.Email
		}
		task.AssignedTo = &ref
	}
	return task
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// --- onboarding ---

type onboardingRepo struct{ s *Store }

func (r onboardingRepo) SeedWorkspace(_ context.Context, ws *domain.Workspace) error {
	if ws == nil || ws.Team == nil || ws.Project == nil {
		return domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.insertTeam(ws.Team)
	ws.Project.Team = domain.TeamRef{ID: ws.Team.ID, Name: ws.Team.Name}
	r.s.insertProject(ws.Project)
	for _, task := range ws.Tasks {
		task.Project = domain.ProjectRef{ID: ws.Project.ID, Name: ws.Project.Name}
		r.s.insertTask(task)
	}
	return nil
}

// --- revocations ---

type revocationRepo struct{ s *Store }

func (r revocationRepo) Revoke(_ context.Context, tokenID string, until time.Time) error {
	if tokenID == "" {
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	for id, exp := range r.s.revoked {
		if !now.Before(exp) {
			delete(r.s.revoked, id)
		}
	}
	if now.Before(until) {
		r.s.revoked[tokenID] = until
	}
	return nil
}

func (r revocationRepo) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	until, ok := r.s.revoked[tokenID]
	return ok && r.s.now().Before(until), nil
}
