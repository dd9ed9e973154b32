package delegation

import "errors"

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrInvalidTransition  = errors.New("invalid task status transition")
	ErrNotTaskParticipant = errors.New("only the assigner or assignee may modify this task")
	ErrAssigneeNotFound   = errors.New("assignee not found")
)
