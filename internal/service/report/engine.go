package report

import (
	"fmt"
	"time"

	"github.com/opsgrid/opsgrid-backend-go/internal/domain/report"
	"github.com/opsgrid/opsgrid-backend-go/internal/pkg/validator"
)

// PunchRecord is a raw attendance row as handed to the engine: a
// calendar day plus optional check-in/check-out timestamps. Timestamps
// are ISO-8601 strings and may be malformed; malformed rows degrade to
// "no punch" instead of failing the computation.
type PunchRecord struct {
	Date    string  // YYYY-MM-DD
	InTime  *string // ISO-8601, nil when no check-in was recorded
	OutTime *string // ISO-8601, nil for an open shift
}

// LeaveRecord is a raw leave interval, inclusive on both ends. Only
// Approved intervals affect classification.
type LeaveRecord struct {
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
	Status    string // Pending | Approved | Rejected
}

// Engine reconciles raw punches and leave intervals into per-day
// statuses and punctuality scores. It performs no I/O and reads no
// clock: the caller passes the "today" reference explicitly, so the
// same inputs always produce the same output.
type Engine struct {
	shiftStartMinutes int
}

// NewEngine builds an engine for a shift starting at the given HH:MM
// time of day.
func NewEngine(shiftStart string) (*Engine, error) {
	t, err := time.Parse("15:04", shiftStart)
	if err != nil {
		return nil, fmt.Errorf("invalid shift start %q: %w", shiftStart, err)
	}
	return &Engine{shiftStartMinutes: t.Hour()*60 + t.Minute()}, nil
}

// points buckets check-in delay into a coarse score: at most 10 minutes
// late is +1, at most 20 is +0.5, anything later is -1. The bounds are
// inclusive.
func (e *Engine) points(in time.Time) float64 {
	delay := in.Hour()*60 + in.Minute() - e.shiftStartMinutes
	switch {
	case delay <= 10:
		return 1
	case delay <= 20:
		return 0.5
	default:
		return -1
	}
}

// halfDayHours is the completed-shift duration below which a day counts
// as a half day. Exactly 5 hours is a full present day.
const halfDayHours = 5.0

type parsedPunch struct {
	in       time.Time
	hasOut   bool
	hours    float64
	hasHours bool
}

// parsePunch validates one raw punch. A nil result means the row is
// unusable and must be treated as "no punch"; skipped reports how many
// anomalies the row contributed.
func parsePunch(rec PunchRecord) (p *parsedPunch, skipped int) {
	if rec.InTime == nil {
		// A punch row without a check-in cannot be classified.
		return nil, 1
	}

	in, ok := validator.IsValidDateTime(*rec.InTime)
	if !ok {
		return nil, 1
	}

	punch := &parsedPunch{in: in}

	if rec.OutTime == nil {
		return punch, 0
	}

	out, ok := validator.IsValidDateTime(*rec.OutTime)
	if !ok {
		// Bad check-out: keep the check-in, drop the duration.
		return punch, 1
	}

	if out.Before(in) {
		// Clock skew. Never let a negative duration reach the totals.
		return punch, 1
	}

	punch.hasOut = true
	punch.hours = out.Sub(in).Hours()
	punch.hasHours = true
	return punch, 0
}

// classifyDay applies the classification precedence for a single day.
// The order is load-bearing: Sunday beats everything, a punch beats
// leave, leave beats absence, and absence only applies to past days.
func (e *Engine) classifyDay(isSunday bool, punch *parsedPunch, onLeave, isPast bool) (status string, points float64) {
	switch {
	case isSunday:
		return report.StatusSunday, 0
	case punch != nil && punch.hasOut:
		if punch.hours < halfDayHours {
			return report.StatusHalfDay, e.points(punch.in)
		}
		return report.StatusPresent, e.points(punch.in)
	case punch != nil:
		// Open shift: counted as full present even if a later check-out
		// would have made it a half day.
		return report.StatusPresent, e.points(punch.in)
	case onLeave:
		return report.StatusLeave, 0
	case isPast:
		return report.StatusAbsent, 0
	default:
		return report.StatusNoData, 0
	}
}

type leaveInterval struct {
	start string
	end   string
}

// parseLeaves keeps only well-formed Approved intervals.
func parseLeaves(leaves []LeaveRecord) (intervals []leaveInterval, skipped int) {
	for _, rec := range leaves {
		if rec.Status != "Approved" {
			continue
		}
		if _, ok := validator.IsValidDate(rec.StartDate); !ok {
			skipped++
			continue
		}
		if _, ok := validator.IsValidDate(rec.EndDate); !ok {
			skipped++
			continue
		}
		intervals = append(intervals, leaveInterval{start: rec.StartDate, end: rec.EndDate})
	}
	return intervals, skipped
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthlyReport classifies every calendar day of the given month and
// folds the results into a summary. asOf is the "today" reference used
// to tell past days (absence-eligible) from present and future days.
func (e *Engine) MonthlyReport(year int, month time.Month, punches []PunchRecord, leaves []LeaveRecord, asOf time.Time) ([]report.DayStatus, report.MonthlySummary) {
	var summary report.MonthlySummary

	punchByDate := make(map[string]*parsedPunch)
	for _, rec := range punches {
		if _, ok := validator.IsValidDate(rec.Date); !ok {
			summary.SkippedRecords++
			continue
		}
		if _, exists := punchByDate[rec.Date]; exists {
			// At most one punch per (user, date); first one wins.
			summary.SkippedRecords++
			continue
		}
		punch, skipped := parsePunch(rec)
		summary.SkippedRecords += skipped
		if punch != nil {
			punchByDate[rec.Date] = punch
		}
	}

	intervals, skipped := parseLeaves(leaves)
	summary.SkippedRecords += skipped

	asOfStr := asOf.Format("2006-01-02")
	total := daysInMonth(year, month)
	days := make([]report.DayStatus, 0, total)

	for d := 1; d <= total; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		dateStr := date.Format("2006-01-02")

		isSunday := date.Weekday() == time.Sunday
		isPast := dateStr < asOfStr

		punch := punchByDate[dateStr]

		onLeave := false
		for _, iv := range intervals {
			if iv.start <= dateStr && dateStr <= iv.end {
				onLeave = true
				break
			}
		}

		status, points := e.classifyDay(isSunday, punch, onLeave, isPast)
		days = append(days, report.DayStatus{Day: d, Status: status, Points: points})

		switch status {
		case report.StatusPresent:
			summary.PresentCount++
		case report.StatusAbsent:
			summary.AbsentCount++
		case report.StatusLeave:
			summary.LeaveCount++
		case report.StatusHalfDay:
			summary.HalfDayCount++
		}

		if !isSunday {
			summary.WorkingDaysInMonth++
		}
		if punch != nil && punch.hasHours {
			summary.TotalHours += punch.hours
		}
		summary.MonthlyPoints += points
	}

	if summary.WorkingDaysInMonth > 0 {
		score := summary.MonthlyPoints / float64(summary.WorkingDaysInMonth) * 100
		if score < 0 {
			score = 0
		}
		summary.MonthlyScorePercent = score
	}

	return days, summary
}

// Cumulative applies the punctuality rule to every punch in the user's
// history, regardless of month. The denominator is the number of
// punches with a valid check-in, not working days: this is a lifetime
// metric, intentionally different from the monthly score.
func (e *Engine) Cumulative(punches []PunchRecord) report.CumulativeSummary {
	var summary report.CumulativeSummary

	for _, rec := range punches {
		if rec.InTime == nil {
			continue
		}
		in, ok := validator.IsValidDateTime(*rec.InTime)
		if !ok {
			summary.SkippedRecords++
			continue
		}
		summary.PunchCount++
		summary.CumulativePoints += e.points(in)
	}

	if summary.PunchCount > 0 {
		score := summary.CumulativePoints / float64(summary.PunchCount) * 100
		if score < 0 {
			score = 0
		}
		summary.CumulativeScorePercent = score
	}

	return summary
}
