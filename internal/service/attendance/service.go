package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/opsgrid/opsgrid-backend-go/internal/domain/attendance"
	"github.com/opsgrid/opsgrid-backend-go/internal/pkg/database"
)

type AttendanceServiceImpl struct {
	db        *database.DB
	punchRepo attendance.PunchRepository

	// now is injected so tests can pin the working day.
	now func() time.Time
}

func NewAttendanceService(db *database.DB, punchRepo attendance.PunchRepository) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		db:        db,
		punchRepo: punchRepo,
		now:       time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (a *AttendanceServiceImpl) WithClock(now func() time.Time) *AttendanceServiceImpl {
	a.now = now
	return a
}

func userIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid")
	}

	return userID, nil
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context) (attendance.PunchResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return attendance.PunchResponse{}, err
	}

	nowUTC := a.now().UTC()
	today := nowUTC.Truncate(24 * time.Hour)

	existing, err := a.punchRepo.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return attendance.PunchResponse{}, err
	}
	if existing != nil {
		return attendance.PunchResponse{}, attendance.ErrAlreadyCheckedIn
	}

	punch, err := a.punchRepo.Create(ctx, attendance.Punch{
		UserID: userID,
		Date:   today,
		InTime: &nowUTC,
	})
	if err != nil {
		return attendance.PunchResponse{}, err
	}

	return attendance.ToResponse(punch), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context) (attendance.PunchResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return attendance.PunchResponse{}, err
	}

	punch, err := a.punchRepo.GetOpenPunch(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.PunchResponse{}, attendance.ErrNotCheckedIn
		}
		return attendance.PunchResponse{}, err
	}

	nowUTC := a.now().UTC()
	if err := a.punchRepo.SetOutTime(ctx, punch.ID, nowUTC); err != nil {
		return attendance.PunchResponse{}, err
	}

	punch.OutTime = &nowUTC
	return attendance.ToResponse(punch), nil
}

// ListMine implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListMine(ctx context.Context, filter attendance.PunchFilter) ([]attendance.PunchResponse, int64, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	filter.UserID = &userID
	return a.List(ctx, filter)
}

// List implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) List(ctx context.Context, filter attendance.PunchFilter) ([]attendance.PunchResponse, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	punches, total, err := a.punchRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]attendance.PunchResponse, 0, len(punches))
	for _, p := range punches {
		responses = append(responses, attendance.ToResponse(p))
	}

	return responses, total, nil
}
