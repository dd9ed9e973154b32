package leave

import (
	"context"
	"time"
)

type LeaveRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	ListByUser(ctx context.Context, userID string) ([]LeaveRequest, error)
	ListApprovedByUser(ctx context.Context, userID string) ([]LeaveRequest, error)
	ListByStatus(ctx context.Context, status Status) ([]LeaveRequest, error)
	List(ctx context.Context) ([]LeaveRequest, error)
	UpdateStatus(ctx context.Context, id string, status Status, note *string, decidedBy string, decidedAt time.Time) error
	HasOverlap(ctx context.Context, userID string, start, end time.Time) (bool, error)
}
