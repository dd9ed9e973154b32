package attendance

import (
	"github.com/opsgrid/opsgrid-backend-go/internal/pkg/validator"
)

type PunchResponse struct {
	ID      string  `json:"id"`
	UserID  string  `json:"user_id"`
	Date    string  `json:"date"`
	InTime  *string `json:"in_time,omitempty"`
	OutTime *string `json:"out_time,omitempty"`
}

type PunchFilter struct {
	UserID    *string `json:"user_id,omitempty"`
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, in_time, out_time
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *PunchFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.SortBy == "" {
		f.SortBy = "date"
	}
	if !validator.IsInSlice(f.SortBy, []string{"date", "in_time", "out_time"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "sort_by",
			Message: "sort_by must be one of: date, in_time, out_time",
		})
	}

	if f.SortOrder == "" {
		f.SortOrder = "desc"
	}
	if !validator.IsInSlice(f.SortOrder, []string{"asc", "desc"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "sort_order",
			Message: "sort_order must be asc or desc",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func ToResponse(p Punch) PunchResponse {
	resp := PunchResponse{
		ID:     p.ID,
		UserID: p.UserID,
		Date:   p.Date.Format("2006-01-02"),
	}
	if p.InTime != nil {
		s := p.InTime.UTC().Format("2006-01-02T15:04:05Z07:00")
		resp.InTime = &s
	}
	if p.OutTime != nil {
		s := p.OutTime.UTC().Format("2006-01-02T15:04:05Z07:00")
		resp.OutTime = &s
	}
	return resp
}
