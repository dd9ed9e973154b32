package attendance

import "errors"

var (
	ErrAlreadyCheckedIn = errors.New("already checked in today")
	ErrNotCheckedIn     = errors.New("no open punch to check out from")
	ErrPunchNotFound    = errors.New("punch not found")
)
