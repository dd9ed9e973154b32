package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/opsgrid/opsgrid-backend-go/internal/domain/report"
	"github.com/opsgrid/opsgrid-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	MyMonthly(w http.ResponseWriter, r *http.Request)
	MyCumulative(w http.ResponseWriter, r *http.Request)
	UserMonthly(w http.ResponseWriter, r *http.Request)
	UserCumulative(w http.ResponseWriter, r *http.Request)
	TeamMatrix(w http.ResponseWriter, r *http.Request)
}

type ReportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &ReportHandlerImpl{reportService: reportService}
}

// parsePeriod reads year and month query parameters, defaulting to the
// current month when absent.
func parsePeriod(r *http.Request) (year, month int) {
	now := time.Now().UTC()
	year, month = now.Year(), int(now.Month())

	if y := r.URL.Query().Get("year"); y != "" {
		if parsed, err := strconv.Atoi(y); err == nil {
			year = parsed
		}
	}
	if m := r.URL.Query().Get("month"); m != "" {
		if parsed, err := strconv.Atoi(m); err == nil {
			month = parsed
		}
	}

	return year, month
}

func userIDFromClaims(r *http.Request) (string, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", false
	}
	userID, ok := claims["user_id"].(string)
	return userID, ok && userID != ""
}

// MyMonthly implements ReportHandler.
func (h *ReportHandlerImpl) MyMonthly(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromClaims(r)
	if !ok {
		response.Unauthorized(w, "user_id claim is missing or invalid")
		return
	}

	year, month := parsePeriod(r)

	monthly, err := h.reportService.MonthlyReport(r.Context(), userID, year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, monthly)
}

// MyCumulative implements ReportHandler.
func (h *ReportHandlerImpl) MyCumulative(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromClaims(r)
	if !ok {
		response.Unauthorized(w, "user_id claim is missing or invalid")
		return
	}

	cumulative, err := h.reportService.Cumulative(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, cumulative)
}

// UserMonthly implements ReportHandler.
func (h *ReportHandlerImpl) UserMonthly(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		response.BadRequest(w, "User ID is required", nil)
		return
	}

	year, month := parsePeriod(r)

	monthly, err := h.reportService.MonthlyReport(r.Context(), userID, year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, monthly)
}

// UserCumulative implements ReportHandler.
func (h *ReportHandlerImpl) UserCumulative(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		response.BadRequest(w, "User ID is required", nil)
		return
	}

	cumulative, err := h.reportService.Cumulative(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, cumulative)
}

// TeamMatrix implements ReportHandler.
func (h *ReportHandlerImpl) TeamMatrix(w http.ResponseWriter, r *http.Request) {
	year, month := parsePeriod(r)

	matrix, err := h.reportService.TeamMatrix(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, matrix)
}
