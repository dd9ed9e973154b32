package delegation

import (
	"github.com/opsgrid/opsgrid-backend-go/internal/pkg/validator"
)

type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	AssigneeID  string  `json:"assignee_id"`
	DueDate     *string `json:"due_date,omitempty"` // YYYY-MM-DD
}

func (r *CreateTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	}

	if !validator.IsValidUUID(r.AssigneeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "assignee_id",
			Message: "assignee_id must be a valid id",
		})
	}

	if r.DueDate != nil {
		if _, ok := validator.IsValidDate(*r.DueDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "due_date",
				Message: "due_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Status, []string{
		string(StatusInProgress), string(StatusDone), string(StatusCancelled),
	}) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: in_progress, done, cancelled",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ReassignRequest struct {
	AssigneeID string `json:"assignee_id"`
}

func (r *ReassignRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.AssigneeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "assignee_id",
			Message: "assignee_id must be a valid id",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TaskResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	AssignerID  string  `json:"assigner_id"`
	AssigneeID  string  `json:"assignee_id"`
	DueDate     *string `json:"due_date,omitempty"`
	Status      string  `json:"status"`
}

func ToResponse(t Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		AssignerID:  t.AssignerID,
		AssigneeID:  t.AssigneeID,
		Status:      string(t.Status),
	}
	if t.DueDate != nil {
		s := t.DueDate.Format("2006-01-02")
		resp.DueDate = &s
	}
	return resp
}
