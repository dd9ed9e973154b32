package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/opsgrid/opsgrid-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePunchRepo struct {
	punches []attendance.Punch
	nextID  int
}

func (f *fakePunchRepo) Create(ctx context.Context, punch attendance.Punch) (attendance.Punch, error) {
	f.nextID++
	punch.ID = "punch-" + string(rune('0'+f.nextID))
	f.punches = append(f.punches, punch)
	return punch, nil
}

func (f *fakePunchRepo) SetOutTime(ctx context.Context, id string, outTime time.Time) error {
	for i := range f.punches {
		if f.punches[i].ID == id {
			f.punches[i].OutTime = &outTime
			return nil
		}
	}
	return attendance.ErrPunchNotFound
}

func (f *fakePunchRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Punch, error) {
	for i := range f.punches {
		if f.punches[i].UserID == userID && f.punches[i].Date.Equal(date) {
			return &f.punches[i], nil
		}
	}
	return nil, nil
}

func (f *fakePunchRepo) GetOpenPunch(ctx context.Context, userID string) (attendance.Punch, error) {
	for i := len(f.punches) - 1; i >= 0; i-- {
		p := f.punches[i]
		if p.UserID == userID && p.InTime != nil && p.OutTime == nil {
			return p, nil
		}
	}
	return attendance.Punch{}, pgx.ErrNoRows
}

func (f *fakePunchRepo) ListByUser(ctx context.Context, userID string) ([]attendance.Punch, error) {
	var out []attendance.Punch
	for _, p := range f.punches {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePunchRepo) ListByUserBetween(ctx context.Context, userID string, start, end time.Time) ([]attendance.Punch, error) {
	var out []attendance.Punch
	for _, p := range f.punches {
		if p.UserID == userID && !p.Date.Before(start) && !p.Date.After(end) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePunchRepo) List(ctx context.Context, filter attendance.PunchFilter) ([]attendance.Punch, int64, error) {
	var out []attendance.Punch
	for _, p := range f.punches {
		if filter.UserID != nil && p.UserID != *filter.UserID {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (f *fakePunchRepo) GetStaleOpenPunches(ctx context.Context, olderThanDays int) ([]attendance.Punch, error) {
	return nil, nil
}

func authedContext(t *testing.T, userID string) context.Context {
	t.Helper()

	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"type":    "access",
	})
	require.NoError(t, err)

	return jwtauth.NewContext(context.Background(), token, nil)
}

func fixedClock(value time.Time) func() time.Time {
	return func() time.Time { return value }
}

func TestCheckIn_RecordsPunchForToday(t *testing.T) {
	repo := &fakePunchRepo{}
	at := time.Date(2024, 4, 15, 9, 35, 0, 0, time.UTC)
	svc := NewAttendanceService(nil, repo).WithClock(fixedClock(at))

	ctx := authedContext(t, "user-1")
	resp, err := svc.CheckIn(ctx)

	require.NoError(t, err)
	assert.Equal(t, "user-1", resp.UserID)
	assert.Equal(t, "2024-04-15", resp.Date)
	require.NotNil(t, resp.InTime)
	assert.Nil(t, resp.OutTime)
}

func TestCheckIn_RejectsSecondPunchSameDay(t *testing.T) {
	repo := &fakePunchRepo{}
	at := time.Date(2024, 4, 15, 9, 35, 0, 0, time.UTC)
	svc := NewAttendanceService(nil, repo).WithClock(fixedClock(at))

	ctx := authedContext(t, "user-1")
	_, err := svc.CheckIn(ctx)
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckOut_ClosesOpenPunch(t *testing.T) {
	repo := &fakePunchRepo{}
	in := time.Date(2024, 4, 15, 9, 35, 0, 0, time.UTC)
	svc := NewAttendanceService(nil, repo).WithClock(fixedClock(in))

	ctx := authedContext(t, "user-1")
	_, err := svc.CheckIn(ctx)
	require.NoError(t, err)

	out := in.Add(8 * time.Hour)
	svc.WithClock(fixedClock(out))

	resp, err := svc.CheckOut(ctx)
	require.NoError(t, err)
	require.NotNil(t, resp.OutTime)
	assert.Equal(t, "2024-04-15T17:35:00Z", *resp.OutTime)
}

func TestCheckOut_RequiresOpenPunch(t *testing.T) {
	repo := &fakePunchRepo{}
	svc := NewAttendanceService(nil, repo).WithClock(fixedClock(time.Date(2024, 4, 15, 18, 0, 0, 0, time.UTC)))

	ctx := authedContext(t, "user-1")
	_, err := svc.CheckOut(ctx)

	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestListMine_ScopesToCaller(t *testing.T) {
	repo := &fakePunchRepo{}
	at := time.Date(2024, 4, 15, 9, 0, 0, 0, time.UTC)
	svc := NewAttendanceService(nil, repo).WithClock(fixedClock(at))

	_, err := svc.CheckIn(authedContext(t, "user-1"))
	require.NoError(t, err)
	_, err = svc.CheckIn(authedContext(t, "user-2"))
	require.NoError(t, err)

	punches, total, err := svc.ListMine(authedContext(t, "user-1"), attendance.PunchFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, punches, 1)
	assert.Equal(t, "user-1", punches[0].UserID)
}
