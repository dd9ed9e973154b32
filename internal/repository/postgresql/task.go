package postgresql

import (
	"context"
	"fmt"

	"github.com/opsgrid/opsgrid-backend-go/internal/domain/delegation"
	"github.com/opsgrid/opsgrid-backend-go/internal/pkg/database"
)

type taskRepository struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) delegation.TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, title, description, assigner_id, assignee_id, due_date, status, created_at, updated_at`

func scanTask(row interface{ Scan(dest ...any) error }) (delegation.Task, error) {
	var t delegation.Task
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.AssignerID, &t.AssigneeID,
		&t.DueDate, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// Create implements delegation.TaskRepository.
func (r *taskRepository) Create(ctx context.Context, task delegation.Task) (delegation.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tasks (title, description, assigner_id, assignee_id, due_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.AssignerID,
		task.AssigneeID,
		task.DueDate,
		task.Status,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return delegation.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// GetByID implements delegation.TaskRepository.
func (r *taskRepository) GetByID(ctx context.Context, id string) (delegation.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	return scanTask(q.QueryRow(ctx, query, id))
}

// ListByAssignee implements delegation.TaskRepository.
func (r *taskRepository) ListByAssignee(ctx context.Context, assigneeID string) ([]delegation.Task, error) {
	return r.listWhere(ctx, "WHERE assignee_id = $1", assigneeID)
}

// ListByAssigner implements delegation.TaskRepository.
func (r *taskRepository) ListByAssigner(ctx context.Context, assignerID string) ([]delegation.Task, error) {
	return r.listWhere(ctx, "WHERE assigner_id = $1", assignerID)
}

// List implements delegation.TaskRepository.
func (r *taskRepository) List(ctx context.Context) ([]delegation.Task, error) {
	return r.listWhere(ctx, "")
}

func (r *taskRepository) listWhere(ctx context.Context, where string, args ...interface{}) ([]delegation.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + taskColumns + ` FROM tasks ` + where + ` ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []delegation.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// UpdateStatus implements delegation.TaskRepository.
func (r *taskRepository) UpdateStatus(ctx context.Context, id string, status delegation.TaskStatus) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE tasks SET status = $2, updated_at = NOW() WHERE id = $1`

	tag, err := q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return delegation.ErrTaskNotFound
	}

	return nil
}

// UpdateAssignee implements delegation.TaskRepository.
func (r *taskRepository) UpdateAssignee(ctx context.Context, id string, assigneeID string) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE tasks SET assignee_id = $2, updated_at = NOW() WHERE id = $1`

	tag, err := q.Exec(ctx, query, id, assigneeID)
	if err != nil {
		return fmt.Errorf("failed to update task assignee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return delegation.ErrTaskNotFound
	}

	return nil
}
