package report

import (
	"testing"
	"time"

	"github.com/opsgrid/opsgrid-backend-go/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCalendarCells_LeadingBlanksAndPadding(t *testing.T) {
	engine := newTestEngine(t)

	// April 2024 starts on a Monday: one leading blank, 30 days, then
	// padding to a full final week.
	days, _ := engine.MonthlyReport(2024, time.April, nil, nil, afterApril)
	cells := BuildCalendarCells(2024, time.April, days)

	require.Len(t, cells, 35)
	assert.Equal(t, 0, cells[0].Day)
	assert.Equal(t, 1, cells[1].Day)
	assert.Equal(t, 30, cells[30].Day)
	for _, cell := range cells[31:] {
		assert.Equal(t, 0, cell.Day)
	}
}

func TestBuildCalendarCells_MonthStartingOnSunday(t *testing.T) {
	engine := newTestEngine(t)

	// December 2024 starts on a Sunday: no leading blanks.
	days, _ := engine.MonthlyReport(2024, time.December, nil, nil, afterApril)
	cells := BuildCalendarCells(2024, time.December, days)

	require.Len(t, cells, 35)
	assert.Equal(t, 1, cells[0].Day)
	assert.Equal(t, report.StatusSunday, cells[0].Status)
}

func TestBuildCalendarCells_NeverMoreThan42(t *testing.T) {
	engine := newTestEngine(t)

	// March 2025 starts on a Saturday with 31 days: the worst case,
	// six leading blanks plus 31 days rounds up to 42 cells.
	days, _ := engine.MonthlyReport(2025, time.March, nil, nil, afterApril)
	cells := BuildCalendarCells(2025, time.March, days)

	require.Len(t, cells, 42)
	assert.Equal(t, 0, cells[5].Day)
	assert.Equal(t, 1, cells[6].Day)
	assert.Equal(t, 31, cells[36].Day)
}

func TestBuildCalendarCells_CarriesStatusAndPoints(t *testing.T) {
	engine := newTestEngine(t)

	punches := []PunchRecord{punchOn(1, "09:25", strPtr("15:25"))}
	days, _ := engine.MonthlyReport(2024, time.April, punches, nil, afterApril)
	cells := BuildCalendarCells(2024, time.April, days)

	assert.Equal(t, report.StatusPresent, cells[1].Status)
	assert.Equal(t, 1.0, cells[1].Points)
}
