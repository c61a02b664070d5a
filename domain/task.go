package domain

import "time"

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a work item on a project board. There is no position
// field: moving a card between columns only changes Status.
type Task struct {
	ID          string       `json:"_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	Project     ProjectRef   `json:"project"`
	CreatedBy   string       `json:"createdBy"`
	AssignedTo  *UserRef     `json:"assignedTo,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusDone
}

// TaskPatch is a sparse update: nil fields are left untouched.
type TaskPatch struct {
	Title        *string
	Description  *string
	Status       *TaskStatus
	Priority     *TaskPriority
	DueDate      *time.Time
	ClearDueDate bool
	AssignedTo   *string
	ProjectID    *string
}

// Validate rejects patches that would leave the task malformed.
func (p TaskPatch) Validate() error {
	if p.Title != nil && *p.Title == "" {
		return Invalid("title must not be empty")
	}
	if p.Status != nil && !p.Status.Valid() {
		return Invalid("status must be one of todo, in-progress, done")
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return Invalid("priority must be one of low, medium, high")
	}
	if p.ProjectID != nil && *p.ProjectID == "" {
		return Invalid("projectId must not be empty")
	}
	if p.AssignedTo != nil && *p.AssignedTo == "" {
		return Invalid("assignedTo must not be empty")
	}
	return nil
}

// Apply copies the present fields onto t. Reference fields only get their
// id replaced; repositories re-populate names on the next read.
func (p TaskPatch) Apply(t *Task) {
	if t == nil {
		return
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		due := *p.DueDate
		t.DueDate = &due
	}
	if p.AssignedTo != nil {
		t.AssignedTo = &UserRef{ID: *p.AssignedTo}
	}
	if p.ProjectID != nil {
		t.Project = ProjectRef{ID: *p.ProjectID}
	}
}

// Empty reports whether the patch carries no changes.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.DueDate == nil && !p.ClearDueDate &&
		p.AssignedTo == nil && p.ProjectID == nil
}
