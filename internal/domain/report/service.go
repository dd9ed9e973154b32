package report

import "context"

type ReportService interface {
	MonthlyReport(ctx context.Context, userID string, year, month int) (MonthlyReportResponse, error)
	Cumulative(ctx context.Context, userID string) (CumulativeReportResponse, error)
	TeamMatrix(ctx context.Context, year, month int) (TeamMatrixResponse, error)
}
