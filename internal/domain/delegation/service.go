package delegation

import "context"

type DelegationService interface {
	Create(ctx context.Context, req CreateTaskRequest) (TaskResponse, error)
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (TaskResponse, error)
	Reassign(ctx context.Context, id string, req ReassignRequest) (TaskResponse, error)
	ListAssignedToMe(ctx context.Context) ([]TaskResponse, error)
	ListDelegatedByMe(ctx context.Context) ([]TaskResponse, error)
	List(ctx context.Context) ([]TaskResponse, error)
}
