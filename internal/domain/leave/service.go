package leave

import "context"

type LeaveService interface {
	Submit(ctx context.Context, req SubmitRequest) (LeaveResponse, error)
	Approve(ctx context.Context, id string, req DecisionRequest) (LeaveResponse, error)
	Reject(ctx context.Context, id string, req DecisionRequest) (LeaveResponse, error)
	ListMine(ctx context.Context) ([]LeaveResponse, error)
	ListPending(ctx context.Context) ([]LeaveResponse, error)
	List(ctx context.Context) ([]LeaveResponse, error)
}
