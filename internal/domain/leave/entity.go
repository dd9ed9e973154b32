package leave

import "time"

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// LeaveRequest covers the inclusive interval [StartDate, EndDate].
// Only Approved requests affect attendance reconciliation.
type LeaveRequest struct {
	ID           string
	UserID       string
	StartDate    time.Time
	EndDate      time.Time
	Reason       string
	Status       Status
	DecisionNote *string
	DecidedBy    *string
	DecidedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
