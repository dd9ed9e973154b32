package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/opsgrid/opsgrid-backend-go/internal/domain/attendance"
	"github.com/opsgrid/opsgrid-backend-go/internal/domain/leave"
	"github.com/opsgrid/opsgrid-backend-go/internal/domain/report"
	"github.com/opsgrid/opsgrid-backend-go/internal/domain/user"
)

type ReportServiceImpl struct {
	engine    *Engine
	punchRepo attendance.PunchRepository
	leaveRepo leave.LeaveRepository
	userRepo  user.UserRepository

	// now supplies the "today" reference for past/future classification.
	// Injected so tests can pin it.
	now func() time.Time
}

func NewReportService(
	engine *Engine,
	punchRepo attendance.PunchRepository,
	leaveRepo leave.LeaveRepository,
	userRepo user.UserRepository,
) *ReportServiceImpl {
	return &ReportServiceImpl{
		engine:    engine,
		punchRepo: punchRepo,
		leaveRepo: leaveRepo,
		userRepo:  userRepo,
		now:       time.Now,
	}
}

// WithClock overrides the "today" source. Used by tests.
func (s *ReportServiceImpl) WithClock(now func() time.Time) *ReportServiceImpl {
	s.now = now
	return s
}

func toPunchRecord(p attendance.Punch) PunchRecord {
	rec := PunchRecord{Date: p.Date.Format("2006-01-02")}
	if p.InTime != nil {
		s := p.InTime.UTC().Format(time.RFC3339)
		rec.InTime = &s
	}
	if p.OutTime != nil {
		s := p.OutTime.UTC().Format(time.RFC3339)
		rec.OutTime = &s
	}
	return rec
}

func toLeaveRecord(l leave.LeaveRequest) LeaveRecord {
	return LeaveRecord{
		StartDate: l.StartDate.Format("2006-01-02"),
		EndDate:   l.EndDate.Format("2006-01-02"),
		Status:    string(l.Status),
	}
}

func (s *ReportServiceImpl) monthlyFor(ctx context.Context, userID string, year, month int) ([]report.DayStatus, report.MonthlySummary, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-24 * time.Hour)

	punches, err := s.punchRepo.ListByUserBetween(ctx, userID, start, end)
	if err != nil {
		return nil, report.MonthlySummary{}, fmt.Errorf("failed to list punches: %w", err)
	}

	leaves, err := s.leaveRepo.ListApprovedByUser(ctx, userID)
	if err != nil {
		return nil, report.MonthlySummary{}, fmt.Errorf("failed to list approved leaves: %w", err)
	}

	punchRecords := make([]PunchRecord, 0, len(punches))
	for _, p := range punches {
		punchRecords = append(punchRecords, toPunchRecord(p))
	}
	leaveRecords := make([]LeaveRecord, 0, len(leaves))
	for _, l := range leaves {
		leaveRecords = append(leaveRecords, toLeaveRecord(l))
	}

	days, summary := s.engine.MonthlyReport(year, time.Month(month), punchRecords, leaveRecords, s.now().UTC())
	return days, summary, nil
}

// MonthlyReport implements report.ReportService.
func (s *ReportServiceImpl) MonthlyReport(ctx context.Context, userID string, year, month int) (report.MonthlyReportResponse, error) {
	if month < 1 || month > 12 || year < 2000 || year > 2200 {
		return report.MonthlyReportResponse{}, report.ErrInvalidPeriod
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.MonthlyReportResponse{}, user.ErrUserNotFound
		}
		return report.MonthlyReportResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	days, summary, err := s.monthlyFor(ctx, userID, year, month)
	if err != nil {
		return report.MonthlyReportResponse{}, err
	}

	return report.MonthlyReportResponse{
		UserID:  userID,
		Year:    year,
		Month:   month,
		Days:    days,
		Cells:   BuildCalendarCells(year, time.Month(month), days),
		Summary: summary,
	}, nil
}

// Cumulative implements report.ReportService.
func (s *ReportServiceImpl) Cumulative(ctx context.Context, userID string) (report.CumulativeReportResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.CumulativeReportResponse{}, user.ErrUserNotFound
		}
		return report.CumulativeReportResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	punches, err := s.punchRepo.ListByUser(ctx, userID)
	if err != nil {
		return report.CumulativeReportResponse{}, fmt.Errorf("failed to list punch history: %w", err)
	}

	records := make([]PunchRecord, 0, len(punches))
	for _, p := range punches {
		records = append(records, toPunchRecord(p))
	}

	return report.CumulativeReportResponse{
		UserID:            userID,
		CumulativeSummary: s.engine.Cumulative(records),
	}, nil
}

// TeamMatrix implements report.ReportService.
func (s *ReportServiceImpl) TeamMatrix(ctx context.Context, year, month int) (report.TeamMatrixResponse, error) {
	if month < 1 || month > 12 || year < 2000 || year > 2200 {
		return report.TeamMatrixResponse{}, report.ErrInvalidPeriod
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return report.TeamMatrixResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	resp := report.TeamMatrixResponse{
		Year:    year,
		Month:   month,
		Members: make([]report.TeamMemberReport, 0, len(users)),
	}

	for _, u := range users {
		days, summary, err := s.monthlyFor(ctx, u.ID, year, month)
		if err != nil {
			return report.TeamMatrixResponse{}, err
		}
		resp.Members = append(resp.Members, report.TeamMemberReport{
			UserID:      u.ID,
			DisplayName: u.DisplayName,
			AvatarURL:   u.AvatarURL,
			Days:        days,
			Summary:     summary,
		})
	}

	return resp, nil
}
