package delegation

import "time"

type TaskStatus string

const (
	StatusOpen       TaskStatus = "open"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
	StatusCancelled  TaskStatus = "cancelled"
)

// Task is a unit of delegated work from one user to another.
type Task struct {
	ID          string
	Title       string
	Description *string
	AssignerID  string
	AssigneeID  string
	DueDate     *time.Time
	Status      TaskStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CanTransition reports whether a status change is allowed. Done and
// cancelled are terminal.
func (s TaskStatus) CanTransition(to TaskStatus) bool {
	switch s {
	case StatusOpen:
		return to == StatusInProgress || to == StatusDone || to == StatusCancelled
	case StatusInProgress:
		return to == StatusDone || to == StatusCancelled
	default:
		return false
	}
}
