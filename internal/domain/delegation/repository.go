package delegation

import "context"

type TaskRepository interface {
	Create(ctx context.Context, task Task) (Task, error)
	GetByID(ctx context.Context, id string) (Task, error)
	ListByAssignee(ctx context.Context, assigneeID string) ([]Task, error)
	ListByAssigner(ctx context.Context, assignerID string) ([]Task, error)
	List(ctx context.Context) ([]Task, error)
	UpdateStatus(ctx context.Context, id string, status TaskStatus) error
	UpdateAssignee(ctx context.Context, id string, assigneeID string) error
}
