// Package onboarding gives every new account a sample team, project and
// board so the first login is not empty.
package onboarding

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
	"github.com/fastygo/taskflow/usecase"
)

const (
	SampleTeamName           = "My First Team"
	SampleTeamDescription    = "Welcome to TaskFlow! This is your sample team."
	SampleProjectName        = "Sample Project"
	SampleProjectDescription = "Get started with this sample project"
)

type sampleTask struct {
	title       string
	description string
	status      domain.TaskStatus
	priority    domain.TaskPriority
	dueInDays   int
}

var sampleTasks = []sampleTask{
	{"Review project requirements", "Go through all the requirements and make sure everything is clear", domain.StatusTodo, domain.PriorityHigh, 2},
	{"Set up development environment", "Install all necessary tools and dependencies", domain.StatusTodo, domain.PriorityHigh, 3},
	{"Create wireframes", "Design initial wireframes for the main pages", domain.StatusTodo, domain.PriorityMedium, 5},
	{"Design database schema", "Create the database structure and relationships", domain.StatusInProgress, domain.PriorityHigh, 1},
	{"Implement authentication", "Build login and signup functionality with JWT", domain.StatusInProgress, domain.PriorityHigh, 4},
	{"Set up project repository", "Initialize Git repository and set up version control", domain.StatusDone, domain.PriorityMedium, -1},
	{"Define project goals", "Document main objectives and success criteria", domain.StatusDone, domain.PriorityHigh, -2},
	{"Research best practices", "Study industry standards and best practices for task management", domain.StatusDone, domain.PriorityLow, -3},
}

// SampleWorkspace builds the starter content owned by userID. Due dates are
// relative to now.
func SampleWorkspace(userID string, now time.Time) *domain.Workspace {
	owner := domain.UserRef{ID: userID}
	ws := &domain.Workspace{
		Team: &domain.Team{
			Name:        SampleTeamName,
			Description: SampleTeamDescription,
			Owner:       owner,
			Members:     []string{userID},
		},
		Project: &domain.Project{
			Name:        SampleProjectName,
			Description: SampleProjectDescription,
			OwnerID:     userID,
		},
		Tasks: make([]*domain.Task, 0, len(sampleTasks)),
	}

	for _, st := range sampleTasks {
		due := now.Add(time.Duration(st.dueInDays) * 24 * time.Hour)
		assignee := owner
		ws.Tasks = append(ws.Tasks, &domain.Task{
			Title:       st.title,
			Description: st.description,
			Status:      st.status,
			Priority:    st.priority,
			DueDate:     &due,
			CreatedBy:   userID,
			AssignedTo:  &assignee,
		})
	}
	return ws
}

type Seeder struct {
	repo   repository.OnboardingRepository
	buffer usecase.OnboardingBuffer
	logger *zap.Logger
	now    func() time.Time
}

// New returns a seeder. buffer may be nil, in which case failed seeds are
// only logged.
func New(repo repository.OnboardingRepository, buffer usecase.OnboardingBuffer, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		repo:   repo,
		buffer: buffer,
		logger: logger,
		now:    time.Now,
	}
}

// Seed writes the sample workspace for userID in one atomic step.
func (s *Seeder) Seed(ctx context.Context, userID string) error {
	return s.repo.SeedWorkspace(ctx, SampleWorkspace(userID, s.now()))
}

// Onboard seeds userID and swallows any failure. Signup must succeed even
// when the starter content cannot be written.
func (s *Seeder) Onboard(ctx context.Context, userID string) {
	err := s.Seed(ctx, userID)
	if err == nil {
		return
	}
	s.logger.Error("failed to seed sample workspace", zap.String("user_id", userID), zap.Error(err))

	if s.buffer == nil {
		return
	}
	if bufErr := s.buffer.BufferOnboarding(ctx, userID); bufErr != nil {
		s.logger.Error("failed to buffer onboarding", zap.String("user_id", userID), zap.Error(bufErr))
		return
	}
	s.logger.Warn("onboarding buffered for retry", zap.String("user_id", userID))
}
