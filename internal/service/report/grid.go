package report

import (
	"time"

	"github.com/opsgrid/opsgrid-backend-go/internal/domain/report"
)

// BuildCalendarCells lays a month's day statuses into week rows for the
// calendar view. Weeks start on Sunday; blank cells (Day 0) pad the
// first and last rows, so a month never needs more than 42 cells.
func BuildCalendarCells(year int, month time.Month, days []report.DayStatus) []report.GridCell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	leading := int(first.Weekday())

	cells := make([]report.GridCell, 0, 42)
	for i := 0; i < leading; i++ {
		cells = append(cells, report.GridCell{})
	}
	for _, day := range days {
		cells = append(cells, report.GridCell{Day: day.Day, Status: day.Status, Points: day.Points})
	}
	for len(cells)%7 != 0 {
		cells = append(cells, report.GridCell{})
	}
	return cells
}
