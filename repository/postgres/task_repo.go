package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

const taskSelect = `
	SELECT t.id, t.title, t.description, t.status, t.priority, t.due_date,
		p.id, p.name, t.created_by,
		a.id, a.name, a.email,
		t.created_at, t.updated_at
	FROM tasks t
	JOIN projects p ON p.id = t.project_id
	LEFT JOIN users a ON a.id = t.assigned_to
`

type taskRepository struct {
	pool pgxPool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return scanTask(r.pool.QueryRow(ctx, taskSelect+` WHERE t.id = $1`, id))
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0)
	if len(filter.ProjectIDs) == 0 {
		return tasks, nil
	}

	rows, err := r.pool.Query(ctx, taskSelect+`
	WHERE t.project_id = ANY($1)
	ORDER BY t.created_at DESC, t.id DESC
	`, filter.ProjectIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if err := insertTask(ctx, r.pool, task); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, task.ID)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET title = $2,
		description = $3,
		status = $4,
		priority = $5,
		due_date = $6,
		project_id = $7,
		assigned_to = $8,
		updated_at = NOW()
	WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		nullTime(task.DueDate),
		task.Project.ID,
		nullString(assigneeID(task)),
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrTaskNotFound
	}
	return r.GetByID(ctx, task.ID)
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func insertTask(ctx context.Context, q queryer, task *domain.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, title, description, status, priority, due_date, project_id, created_by, assigned_to)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING created_at, updated_at
	`
	return q.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		nullTime(task.DueDate),
		task.Project.ID,
		task.CreatedBy,
		nullString(assigneeID(task)),
	).Scan(&task.CreatedAt, &task.UpdatedAt)
}

func assigneeID(task *domain.Task) string {
	if task.AssignedTo == nil {
		return ""
	}
	return task.AssignedTo.ID
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var (
		status, priority   string
		due                *time.Time
		aID, aName, aEmail *string
	)

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&status,
		&priority,
		&due,
		&task.Project.ID,
		&task.Project.Name,
		&task.CreatedBy,
		&aID,
		&aName,
		&aEmail,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	task.Priority = domain.TaskPriority(priority)
	task.DueDate = due
	if aID != nil {
		task.AssignedTo = &domain.UserRef{ID: *aID}
		if aName != nil {
			task.AssignedTo.Name = *aName
		}
		if aEmail != nil {
			task.AssignedTo.Email = *aEmail
		}
	}

	return &task, nil
}
