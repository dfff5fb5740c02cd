package report

import "context"

// ReportService builds dashboards, reports and exports over attendance records
type ReportService interface {
	Dashboard(ctx context.Context, filter ReportFilter) (DashboardResponse, error)
	AttendanceReport(ctx context.Context, filter ReportFilter) (AttendanceReport, error)
	Export(ctx context.Context, req ExportRequest) (ExportFile, error)
	Archive(ctx context.Context, req ExportRequest) (ArchiveResponse, error)
}
