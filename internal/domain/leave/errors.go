package leave

import "errors"

var (
	ErrLeaveRequestNotFound  = errors.New("leave request not found")
	ErrLeaveAlreadyProcessed = errors.New("leave request already processed")
	ErrLeaveOverlap          = errors.New("leave request overlaps an existing request")
	ErrInvalidDateRange      = errors.New("end date must not be before start date")
	ErrCannotDecideOwnLeave  = errors.New("cannot approve or reject your own leave request")
)
