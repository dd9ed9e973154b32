package report

// Status codes for one reconciled calendar day.
const (
	StatusSunday  = "SUN"
	StatusPresent = "P"
	StatusHalfDay = "H"
	StatusLeave   = "L"
	StatusAbsent  = "A"
	StatusNoData  = "-"
)

// DayStatus is the classification of one calendar day for one user.
type DayStatus struct {
	Day    int     `json:"day"`
	Status string  `json:"status"`
	Points float64 `json:"points"`
}

type MonthlySummary struct {
	PresentCount        int     `json:"present_count"`
	AbsentCount         int     `json:"absent_count"`
	LeaveCount          int     `json:"leave_count"`
	HalfDayCount        int     `json:"half_day_count"`
	TotalHours          float64 `json:"total_hours"`
	MonthlyPoints       float64 `json:"monthly_points"`
	WorkingDaysInMonth  int     `json:"working_days_in_month"`
	MonthlyScorePercent float64 `json:"monthly_score_percent"`

	// SkippedRecords counts punch/leave rows that were malformed and
	// excluded from the computation.
	SkippedRecords int `json:"skipped_records,omitempty"`
}

type CumulativeSummary struct {
	CumulativePoints       float64 `json:"cumulative_points"`
	CumulativeScorePercent float64 `json:"cumulative_score_percent"`
	PunchCount             int     `json:"punch_count"`
	SkippedRecords         int     `json:"skipped_records,omitempty"`
}

// GridCell is one cell of the month calendar view. Day 0 marks the
// blank padding cells before the 1st and after the last day.
type GridCell struct {
	Day    int     `json:"day"`
	Status string  `json:"status,omitempty"`
	Points float64 `json:"points,omitempty"`
}

type MonthlyReportResponse struct {
	UserID  string         `json:"user_id"`
	Year    int            `json:"year"`
	Month   int            `json:"month"`
	Days    []DayStatus    `json:"days"`
	Cells   []GridCell     `json:"cells"`
	Summary MonthlySummary `json:"summary"`
}

type CumulativeReportResponse struct {
	UserID string `json:"user_id"`
	CumulativeSummary
}

type TeamMemberReport struct {
	UserID      string         `json:"user_id"`
	DisplayName string         `json:"display_name"`
	AvatarURL   *string        `json:"avatar_url,omitempty"`
	Days        []DayStatus    `json:"days"`
	Summary     MonthlySummary `json:"summary"`
}

type TeamMatrixResponse struct {
	Year    int                `json:"year"`
	Month   int                `json:"month"`
	Members []TeamMemberReport `json:"members"`
}
