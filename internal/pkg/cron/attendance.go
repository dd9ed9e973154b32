package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/opsgrid/opsgrid-backend-go/internal/domain/attendance"
	"github.com/opsgrid/opsgrid-backend-go/internal/pkg/sse"
)

// Punches left open for this many days are flagged for follow-up. The
// punch itself is not closed automatically: an in-only punch is counted
// as a full present day by the reconciliation rules, and back-filling an
// out time would silently turn it into a half day.
const stalePunchAgeDays = 2

type AttendanceJobs struct {
	punchRepo attendance.PunchRepository
	hub       *sse.Hub
}

func NewAttendanceJobs(punchRepo attendance.PunchRepository, hub *sse.Hub) *AttendanceJobs {
	return &AttendanceJobs{
		punchRepo: punchRepo,
		hub:       hub,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("flag_stale_open_punches", 1*time.Hour, j.FlagStaleOpenPunches)
}

// FlagStaleOpenPunches notifies users whose check-in was never followed
// by a check-out so they can ask an admin to correct the record.
func (j *AttendanceJobs) FlagStaleOpenPunches(ctx context.Context) error {
	// Only run at midnight (00:00-00:59 UTC)
	if time.Now().UTC().Hour() != 0 {
		return nil
	}

	stale, err := j.punchRepo.GetStaleOpenPunches(ctx, stalePunchAgeDays)
	if err != nil {
		return fmt.Errorf("failed to get stale open punches: %w", err)
	}

	if len(stale) == 0 {
		slog.Info("Cron: No stale open punches found")
		return nil
	}

	for _, punch := range stale {
		slog.Warn("Cron: Stale open punch",
			"punch_id", punch.ID,
			"user_id", punch.UserID,
			"date", punch.Date.Format("2006-01-02"))

		if j.hub != nil {
			j.hub.Publish(punch.UserID, sse.Event{
				ID:   uuid.NewString(),
				Name: "punch.stale",
				Payload: map[string]string{
					"punch_id": punch.ID,
					"date":     punch.Date.Format("2006-01-02"),
				},
			})
		}
	}

	slog.Info("Cron: Stale open punch scan finished", "flagged", len(stale))
	return nil
}
