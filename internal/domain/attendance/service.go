package attendance

import "context"

type AttendanceService interface {
	CheckIn(ctx context.Context) (PunchResponse, error)
	CheckOut(ctx context.Context) (PunchResponse, error)
	ListMine(ctx context.Context, filter PunchFilter) ([]PunchResponse, int64, error)
	List(ctx context.Context, filter PunchFilter) ([]PunchResponse, int64, error)
}
