package attendance

import "time"

// Punch is one user's check-in/check-out record for one calendar day.
// At most one punch exists per (user, date). A punch with InTime set and
// OutTime nil is an open shift.
type Punch struct {
	ID        string
	UserID    string
	Date      time.Time // calendar day, midnight UTC
	InTime    *time.Time
	OutTime   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
