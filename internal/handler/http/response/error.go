package response

import (
	"errors"
	"net/http"

	"github.com/opsgrid/opsgrid-backend-go/internal/domain/attendance"
	"github.com/opsgrid/opsgrid-backend-go/internal/domain/auth"
	"github.com/opsgrid/opsgrid-backend-go/internal/domain/delegation"
	"github.com/opsgrid/opsgrid-backend-go/internal/domain/leave"
	"github.com/opsgrid/opsgrid-backend-go/internal/domain/report"
	"github.com/opsgrid/opsgrid-backend-go/internal/domain/user"
	"github.com/opsgrid/opsgrid-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Auth domain errors
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrEmailNotVerified):
		Forbidden(w, "Email not verified")
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// User domain errors
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in today")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "No open punch to check out from", nil)
	case errors.Is(err, attendance.ErrPunchNotFound):
		NotFound(w, "Punch not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrLeaveOverlap):
		Conflict(w, "Leave request overlaps an existing request")
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, "End date must not be before start date", nil)
	case errors.Is(err, leave.ErrCannotDecideOwnLeave):
		Forbidden(w, "Cannot approve or reject your own leave request")

	// Delegation domain errors
	case errors.Is(err, delegation.ErrTaskNotFound):
		NotFound(w, "Task not found")
	case errors.Is(err, delegation.ErrInvalidTransition):
		Conflict(w, "Invalid task status transition")
	case errors.Is(err, delegation.ErrNotTaskParticipant):
		Forbidden(w, "Only the assigner or assignee may modify this task")
	case errors.Is(err, delegation.ErrAssigneeNotFound):
		NotFound(w, "Assignee not found")

	// Report domain errors
	case errors.Is(err, report.ErrInvalidPeriod):
		BadRequest(w, "Invalid year or month", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
