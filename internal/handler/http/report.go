package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	Dashboard(w http.ResponseWriter, r *http.Request)
	AttendanceReport(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	Archive(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func filterFromQuery(r *http.Request) report.ReportFilter {
	q := r.URL.Query()
	return report.ReportFilter{
		Period:    report.Period(q.Get("period")),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		StaffName: q.Get("staff_name"),
	}
}

// Dashboard handles GET /dashboard
func (h *reportHandlerImpl) Dashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.Dashboard(r.Context(), filterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// AttendanceReport handles GET /reports/attendance
func (h *reportHandlerImpl) AttendanceReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.AttendanceReport(r.Context(), filterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: int64(result.Total)})
}

// Export handles GET /reports/attendance/export
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	req := report.ExportRequest{
		ReportFilter: filterFromQuery(r),
		Format:       report.ExportFormat(r.URL.Query().Get("format")),
	}

	file, err := h.reportService.Export(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Data, file.Rows)
}

// Archive handles POST /reports/attendance/archive
func (h *reportHandlerImpl) Archive(w http.ResponseWriter, r *http.Request) {
	var req report.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.reportService.Archive(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Export archived successfully", result)
}
