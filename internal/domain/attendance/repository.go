package attendance

import (
	"context"
	"time"
)

type PunchRepository interface {
	Create(ctx context.Context, punch Punch) (Punch, error)
	SetOutTime(ctx context.Context, id string, outTime time.Time) error
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Punch, error)
	GetOpenPunch(ctx context.Context, userID string) (Punch, error)
	ListByUser(ctx context.Context, userID string) ([]Punch, error)
	ListByUserBetween(ctx context.Context, userID string, start, end time.Time) ([]Punch, error)
	List(ctx context.Context, filter PunchFilter) ([]Punch, int64, error)
	GetStaleOpenPunches(ctx context.Context, olderThanDays int) ([]Punch, error)
}
