package report

import (
	"testing"
	"time"

	"github.com/opsgrid/opsgrid-backend-go/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine("09:30")
	require.NoError(t, err)
	return engine
}

// punchOn builds a punch for a day in April 2024 with the given
// clock-in and optional clock-out times (HH:MM, UTC).
func punchOn(day int, in string, out *string) PunchRecord {
	date := time.Date(2024, time.April, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	rec := PunchRecord{
		Date:   date,
		InTime: strPtr(date + "T" + in + ":00Z"),
	}
	if out != nil {
		rec.OutTime = strPtr(date + "T" + *out + ":00Z")
	}
	return rec
}

// afterApril is an asOf reference safely past the end of April 2024, so
// every day of the month is a past day.
var afterApril = time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)

func TestNewEngine_RejectsBadShiftStart(t *testing.T) {
	_, err := NewEngine("9h30")
	assert.Error(t, err)

	_, err = NewEngine("25:00")
	assert.Error(t, err)
}

func TestMonthlyReport_SundayDominatesPunchAndLeave(t *testing.T) {
	engine := newTestEngine(t)

	// 2024-04-07 is a Sunday. Give it both a punch and approved leave.
	punches := []PunchRecord{punchOn(7, "09:00", strPtr("17:00"))}
	leaves := []LeaveRecord{{StartDate: "2024-04-07", EndDate: "2024-04-07", Status: "Approved"}}

	days, summary := engine.MonthlyReport(2024, time.April, punches, leaves, afterApril)

	assert.Equal(t, report.StatusSunday, days[6].Status)
	assert.Equal(t, 0.0, days[6].Points)
	assert.Equal(t, 0, summary.PresentCount)
	assert.Equal(t, 0, summary.LeaveCount)
}

func TestMonthlyReport_WorkingDaysExcludeSundays(t *testing.T) {
	engine := newTestEngine(t)

	// December 2024: 31 days, 5 Sundays (1, 8, 15, 22, 29).
	_, summary := engine.MonthlyReport(2024, time.December, nil, nil, afterApril)
	assert.Equal(t, 26, summary.WorkingDaysInMonth)

	// April 2024: 30 days, 4 Sundays (7, 14, 21, 28).
	_, summary = engine.MonthlyReport(2024, time.April, nil, nil, afterApril)
	assert.Equal(t, 26, summary.WorkingDaysInMonth)
}

func TestMonthlyReport_PointBucketBoundaries(t *testing.T) {
	engine := newTestEngine(t)

	cases := []struct {
		inTime string
		want   float64
	}{
		{"09:00", 1},   // early
		{"09:30", 1},   // on time
		{"09:40", 1},   // 10 minutes late, inclusive bound
		{"09:41", 0.5}, // 11 minutes late
		{"09:50", 0.5}, // 20 minutes late, inclusive bound
		{"09:51", -1},  // 21 minutes late
		{"12:30", -1},  // hours late scores the same as 21 minutes
	}

	for _, c := range cases {
		punches := []PunchRecord{punchOn(1, c.inTime, strPtr("17:00"))}
		days, _ := engine.MonthlyReport(2024, time.April, punches, nil, afterApril)
		assert.Equalf(t, c.want, days[0].Points, "inTime %s", c.inTime)
	}
}

func TestMonthlyReport_HalfDayThreshold(t *testing.T) {
	engine := newTestEngine(t)

	// 4.5 hours is a half day.
	days, summary := engine.MonthlyReport(2024, time.April,
		[]PunchRecord{punchOn(1, "09:00", strPtr("13:30"))}, nil, afterApril)
	assert.Equal(t, report.StatusHalfDay, days[0].Status)
	assert.Equal(t, 1, summary.HalfDayCount)
	assert.InDelta(t, 4.5, summary.TotalHours, 1e-9)

	// Exactly 5 hours is a full present day.
	days, summary = engine.MonthlyReport(2024, time.April,
		[]PunchRecord{punchOn(1, "09:00", strPtr("14:00"))}, nil, afterApril)
	assert.Equal(t, report.StatusPresent, days[0].Status)
	assert.Equal(t, 1, summary.PresentCount)
	assert.InDelta(t, 5.0, summary.TotalHours, 1e-9)
}

func TestMonthlyReport_OpenPunchIsAlwaysPresent(t *testing.T) {
	engine := newTestEngine(t)

	// No check-out: counted as present even though a short duration
	// would have made it a half day.
	days, summary := engine.MonthlyReport(2024, time.April,
		[]PunchRecord{punchOn(1, "09:20", nil)}, nil, afterApril)

	assert.Equal(t, report.StatusPresent, days[0].Status)
	assert.Equal(t, 1.0, days[0].Points)
	assert.Equal(t, 0.0, summary.TotalHours)
}

func TestMonthlyReport_LeavePrecedesAbsence(t *testing.T) {
	engine := newTestEngine(t)

	leaves := []LeaveRecord{{StartDate: "2024-04-01", EndDate: "2024-04-03", Status: "Approved"}}
	days, summary := engine.MonthlyReport(2024, time.April, nil, leaves, afterApril)

	for d := 0; d < 3; d++ {
		assert.Equal(t, report.StatusLeave, days[d].Status)
	}
	assert.Equal(t, report.StatusAbsent, days[3].Status)
	assert.Equal(t, 3, summary.LeaveCount)
}

func TestMonthlyReport_PendingAndRejectedLeaveAreIgnored(t *testing.T) {
	engine := newTestEngine(t)

	leaves := []LeaveRecord{
		{StartDate: "2024-04-01", EndDate: "2024-04-01", Status: "Pending"},
		{StartDate: "2024-04-02", EndDate: "2024-04-02", Status: "Rejected"},
	}
	days, _ := engine.MonthlyReport(2024, time.April, nil, leaves, afterApril)

	assert.Equal(t, report.StatusAbsent, days[0].Status)
	assert.Equal(t, report.StatusAbsent, days[1].Status)
}

func TestMonthlyReport_OverlappingLeavesCountOnce(t *testing.T) {
	engine := newTestEngine(t)

	leaves := []LeaveRecord{
		{StartDate: "2024-04-01", EndDate: "2024-04-05", Status: "Approved"},
		{StartDate: "2024-04-03", EndDate: "2024-04-10", Status: "Approved"},
	}
	_, summary := engine.MonthlyReport(2024, time.April, nil, leaves, afterApril)

	// 10 distinct leave days minus the Sunday (April 7).
	assert.Equal(t, 9, summary.LeaveCount)
}

func TestMonthlyReport_TodayAndFutureAreNoData(t *testing.T) {
	engine := newTestEngine(t)

	asOf := time.Date(2024, time.April, 15, 9, 0, 0, 0, time.UTC) // a Monday
	days, summary := engine.MonthlyReport(2024, time.April, nil, nil, asOf)

	// Days before the 15th are absent (Sundays excepted).
	assert.Equal(t, report.StatusAbsent, days[0].Status)
	assert.Equal(t, report.StatusSunday, days[13].Status)

	// The 15th itself and everything after carry no data yet.
	assert.Equal(t, report.StatusNoData, days[14].Status)
	assert.Equal(t, report.StatusNoData, days[29].Status)
	assert.Equal(t, 12, summary.AbsentCount)
}

func TestMonthlyReport_ScoreFloorsAtZero(t *testing.T) {
	engine := newTestEngine(t)

	// Late every working day of the first week: negative point total.
	var punches []PunchRecord
	for d := 1; d <= 6; d++ {
		punches = append(punches, punchOn(d, "11:00", strPtr("17:00")))
	}
	_, summary := engine.MonthlyReport(2024, time.April, punches, nil, afterApril)

	assert.Less(t, summary.MonthlyPoints, 0.0)
	assert.Equal(t, 0.0, summary.MonthlyScorePercent)
}

func TestMonthlyReport_Idempotent(t *testing.T) {
	engine := newTestEngine(t)

	punches := []PunchRecord{
		punchOn(1, "09:25", strPtr("15:25")),
		punchOn(2, "10:00", nil),
	}
	leaves := []LeaveRecord{{StartDate: "2024-04-03", EndDate: "2024-04-04", Status: "Approved"}}

	days1, summary1 := engine.MonthlyReport(2024, time.April, punches, leaves, afterApril)
	days2, summary2 := engine.MonthlyReport(2024, time.April, punches, leaves, afterApril)

	require.Equal(t, days1, days2)
	require.Equal(t, summary1, summary2)
}

func TestMonthlyReport_EndToEndScenario(t *testing.T) {
	engine := newTestEngine(t)

	// April 2024: 30 days, Sundays on 7/14/21/28, 26 working days.
	// 22 punch days (2 of them late), 1 approved leave day, 3 absent.
	sundays := map[int]bool{7: true, 14: true, 21: true, 28: true}
	leaveDay := 5
	absentDays := map[int]bool{10: true, 18: true, 25: true}
	lateDays := map[int]bool{3: true, 4: true}

	var punches []PunchRecord
	for d := 1; d <= 30; d++ {
		if sundays[d] || d == leaveDay || absentDays[d] {
			continue
		}
		if lateDays[d] {
			punches = append(punches, punchOn(d, "10:00", strPtr("16:00")))
		} else {
			punches = append(punches, punchOn(d, "09:25", strPtr("15:25")))
		}
	}
	leaves := []LeaveRecord{{StartDate: "2024-04-05", EndDate: "2024-04-05", Status: "Approved"}}

	days, summary := engine.MonthlyReport(2024, time.April, punches, leaves, afterApril)

	require.Len(t, days, 30)
	assert.Equal(t, 22, summary.PresentCount)
	assert.Equal(t, 3, summary.AbsentCount)
	assert.Equal(t, 1, summary.LeaveCount)
	assert.Equal(t, 0, summary.HalfDayCount)
	assert.Equal(t, 26, summary.WorkingDaysInMonth)
	assert.InDelta(t, 18.0, summary.MonthlyPoints, 1e-9) // 20*1 + 2*(-1)
	assert.InDelta(t, 69.23, summary.MonthlyScorePercent, 0.01)
	assert.InDelta(t, 132.0, summary.TotalHours, 1e-9) // 22 shifts of 6 hours
	assert.Equal(t, 0, summary.SkippedRecords)
}

func TestMonthlyReport_MalformedInTimeDegradesToNoPunch(t *testing.T) {
	engine := newTestEngine(t)

	punches := []PunchRecord{{Date: "2024-04-01", InTime: strPtr("not-a-timestamp")}}
	days, summary := engine.MonthlyReport(2024, time.April, punches, nil, afterApril)

	assert.Equal(t, report.StatusAbsent, days[0].Status)
	assert.Equal(t, 1, summary.SkippedRecords)
}

func TestMonthlyReport_MalformedOutTimeKeepsCheckIn(t *testing.T) {
	engine := newTestEngine(t)

	punches := []PunchRecord{{
		Date:    "2024-04-01",
		InTime:  strPtr("2024-04-01T09:20:00Z"),
		OutTime: strPtr("garbage"),
	}}
	days, summary := engine.MonthlyReport(2024, time.April, punches, nil, afterApril)

	assert.Equal(t, report.StatusPresent, days[0].Status)
	assert.Equal(t, 1.0, days[0].Points)
	assert.Equal(t, 0.0, summary.TotalHours)
	assert.Equal(t, 1, summary.SkippedRecords)
}

func TestMonthlyReport_OutBeforeInNeverGoesNegative(t *testing.T) {
	engine := newTestEngine(t)

	punches := []PunchRecord{{
		Date:    "2024-04-01",
		InTime:  strPtr("2024-04-01T09:20:00Z"),
		OutTime: strPtr("2024-04-01T07:00:00Z"),
	}}
	days, summary := engine.MonthlyReport(2024, time.April, punches, nil, afterApril)

	assert.Equal(t, report.StatusPresent, days[0].Status)
	assert.Equal(t, 0.0, summary.TotalHours)
	assert.Equal(t, 1, summary.SkippedRecords)
}

func TestMonthlyReport_MalformedDateIsSkipped(t *testing.T) {
	engine := newTestEngine(t)

	punches := []PunchRecord{{Date: "01-04-2024", InTime: strPtr("2024-04-01T09:20:00Z")}}
	days, summary := engine.MonthlyReport(2024, time.April, punches, nil, afterApril)

	assert.Equal(t, report.StatusAbsent, days[0].Status)
	assert.Equal(t, 1, summary.SkippedRecords)
}

func TestMonthlyReport_DuplicatePunchFirstWins(t *testing.T) {
	engine := newTestEngine(t)

	punches := []PunchRecord{
		punchOn(1, "09:25", strPtr("15:25")),
		punchOn(1, "11:00", strPtr("17:00")),
	}
	days, summary := engine.MonthlyReport(2024, time.April, punches, nil, afterApril)

	assert.Equal(t, 1.0, days[0].Points)
	assert.Equal(t, 1, summary.SkippedRecords)
}

func TestCumulative_LifetimePoints(t *testing.T) {
	engine := newTestEngine(t)

	punches := []PunchRecord{
		punchOn(1, "09:25", strPtr("15:25")), // +1
		punchOn(2, "09:45", nil),             // +0.5
		punchOn(3, "11:00", strPtr("17:00")), // -1
		{Date: "2024-04-04"},                 // no check-in, not counted
	}
	summary := engine.Cumulative(punches)

	assert.Equal(t, 3, summary.PunchCount)
	assert.InDelta(t, 0.5, summary.CumulativePoints, 1e-9)
	assert.InDelta(t, 0.5/3*100, summary.CumulativeScorePercent, 1e-9)
}

func TestCumulative_FloorsAtZero(t *testing.T) {
	engine := newTestEngine(t)

	punches := []PunchRecord{
		punchOn(1, "11:00", nil),
		punchOn(2, "12:00", nil),
	}
	summary := engine.Cumulative(punches)

	assert.InDelta(t, -2.0, summary.CumulativePoints, 1e-9)
	assert.Equal(t, 0.0, summary.CumulativeScorePercent)
}

func TestCumulative_EmptyHistory(t *testing.T) {
	engine := newTestEngine(t)

	summary := engine.Cumulative(nil)

	assert.Equal(t, 0, summary.PunchCount)
	assert.Equal(t, 0.0, summary.CumulativeScorePercent)
}

func TestCumulative_SkipsMalformedCheckIns(t *testing.T) {
	engine := newTestEngine(t)

	punches := []PunchRecord{
		punchOn(1, "09:25", nil),
		{Date: "2024-04-02", InTime: strPtr("broken")},
	}
	summary := engine.Cumulative(punches)

	assert.Equal(t, 1, summary.PunchCount)
	assert.Equal(t, 1, summary.SkippedRecords)
}
