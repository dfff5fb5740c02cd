package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/storage"
)

const archivePrefix = "attendance"

type ReportOptions struct {
	Settings config.Settings
	// Storage receives archived exports; archiving fails without one.
	Storage   storage.FileStorage
	URLExpiry time.Duration
}

type ReportServiceImpl struct {
	attendance.AttendanceRepository
	staff.StaffRepository
	storage    storage.FileStorage
	settings   config.Settings
	loc        *time.Location
	urlExpiry  time.Duration
	aggregator *Aggregator
	now        func() time.Time
}

func NewReportService(attendanceRepository attendance.AttendanceRepository, staffRepository staff.StaffRepository, opts ReportOptions) (report.ReportService, error) {
	loc, err := opts.Settings.Location()
	if err != nil {
		return nil, err
	}
	if opts.URLExpiry <= 0 {
		opts.URLExpiry = 15 * time.Minute
	}

	return &ReportServiceImpl{
		AttendanceRepository: attendanceRepository,
		StaffRepository:      staffRepository,
		storage:              opts.Storage,
		settings:             opts.Settings,
		loc:                  loc,
		urlExpiry:            opts.URLExpiry,
		aggregator:           NewAggregator(loc, opts.Settings.LateAfterSeconds()),
		now:                  time.Now,
	}, nil
}

// selection is the filtered view shared by every report.
type selection struct {
	period      report.PeriodRange
	start, end  time.Time
	all         []attendance.Attendance
	inRange     []attendance.Attendance // store order, for KPI ties
	records     []attendance.Attendance // sorted by date and time
	departments map[string]string
	totalStaff  int
	warnings    []string
}

func (s *ReportServiceImpl) selectRecords(ctx context.Context, filter report.ReportFilter) (selection, error) {
	if err := filter.Validate(); err != nil {
		return selection{}, err
	}

	start, end, err := ResolvePeriod(filter, s.now(), s.loc)
	if err != nil {
		return selection{}, err
	}

	fetched := s.AttendanceRepository.FetchAll(ctx)
	sel := selection{
		period:      periodRange(filter.Period, start, end),
		start:       start,
		end:         end,
		all:         fetched.Records,
		departments: map[string]string{},
		warnings:    fetched.Warnings,
	}

	members, err := s.StaffRepository.List(ctx)
	if err != nil {
		slog.Warn("staff roster unavailable for report", "error", err)
		sel.warnings = append(sel.warnings, "could not read staff roster")
	}
	sel.totalStaff = len(members)
	for _, m := range members {
		if _, ok := sel.departments[m.Name]; !ok {
			sel.departments[m.Name] = m.Department
		}
	}

	records := s.aggregator.FilterByRange(fetched.Records, start, end)
	records = s.aggregator.FilterByStaff(records, filter.StaffName)
	sel.inRange = records
	sel.records = append([]attendance.Attendance(nil), records...)
	sortRecords(sel.records)

	return sel, nil
}

// Dashboard implements report.ReportService.
func (s *ReportServiceImpl) Dashboard(ctx context.Context, filter report.ReportFilter) (report.DashboardResponse, error) {
	sel, err := s.selectRecords(ctx, filter)
	if err != nil {
		return report.DashboardResponse{}, err
	}

	today := s.aggregator.FilterByStaff(sel.all, filter.StaffName)

	return report.DashboardResponse{
		Period:             sel.period,
		KPIs:               s.aggregator.ComputeKPIs(sel.inRange, sel.start, sel.end),
		DailyTrend:         s.aggregator.DailyTrend(sel.records),
		HourlyDistribution: s.aggregator.HourlyDistribution(sel.records),
		Today:              s.aggregator.TodayView(today, s.now(), sel.departments),
		TotalStaff:         sel.totalStaff,
		Warnings:           sel.warnings,
	}, nil
}

// AttendanceReport implements report.ReportService.
func (s *ReportServiceImpl) AttendanceReport(ctx context.Context, filter report.ReportFilter) (report.AttendanceReport, error) {
	sel, err := s.selectRecords(ctx, filter)
	if err != nil {
		return report.AttendanceReport{}, err
	}

	records := make([]attendance.AttendanceResponse, 0, len(sel.records))
	for _, r := range sel.records {
		records = append(records, attendance.NewAttendanceResponse(r))
	}

	staffName := filter.StaffName
	if staffName == "" {
		staffName = allStaffLabel
	}

	return report.AttendanceReport{
		Period:              sel.period,
		StaffName:           staffName,
		Total:               len(records),
		Records:             records,
		StaffSummaries:      s.aggregator.StaffSummaries(sel.records, sel.departments),
		DepartmentSummaries: s.aggregator.DepartmentSummaries(sel.records, sel.departments),
		Warnings:            sel.warnings,
	}, nil
}

// Export implements report.ReportService.
func (s *ReportServiceImpl) Export(ctx context.Context, req report.ExportRequest) (report.ExportFile, error) {
	if err := req.Validate(); err != nil {
		return report.ExportFile{}, err
	}

	sel, err := s.selectRecords(ctx, req.ReportFilter)
	if err != nil {
		return report.ExportFile{}, err
	}

	opts := export.Options{
		MaxRows:       s.settings.Export.MaxRows,
		MaxCellLength: s.settings.Export.MaxCellLength,
		Location:      s.loc,
	}

	var (
		buf         bytes.Buffer
		rows        int
		contentType string
	)
	switch req.Format {
	case report.FormatXLSX:
		rows, err = export.WriteXLSX(&buf, sel.records, opts)
		contentType = export.ContentTypeXLSX
	default:
		rows, err = export.WriteCSV(&buf, sel.records, opts)
		contentType = export.ContentTypeCSV
	}
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("failed to export attendance: %w", err)
	}

	if len(sel.records) > rows {
		slog.Info("export truncated", "records", len(sel.records), "rows", rows)
	}

	return report.ExportFile{
		Filename:    fmt.Sprintf("attendance_%s_%s.%s", sel.period.StartDate, sel.period.EndDate, req.Format),
		ContentType: contentType,
		Data:        buf.Bytes(),
		Rows:        rows,
	}, nil
}

// Archive implements report.ReportService.
func (s *ReportServiceImpl) Archive(ctx context.Context, req report.ExportRequest) (report.ArchiveResponse, error) {
	if s.storage == nil {
		return report.ArchiveResponse{}, fmt.Errorf("%w: no storage configured", report.ErrArchiveFailed)
	}

	file, err := s.Export(ctx, req)
	if err != nil {
		return report.ArchiveResponse{}, err
	}

	path := fmt.Sprintf("%s/%s_%s", archivePrefix, s.now().In(s.loc).Format("20060102-150405"), file.Filename)
	key, err := s.storage.Upload(ctx, bytes.NewReader(file.Data), path, file.ContentType)
	if err != nil {
		return report.ArchiveResponse{}, fmt.Errorf("%w: %w", report.ErrArchiveFailed, err)
	}

	url, err := s.storage.GetURL(ctx, key, s.urlExpiry)
	if err != nil {
		return report.ArchiveResponse{}, fmt.Errorf("%w: %w", report.ErrArchiveFailed, err)
	}

	slog.Info("export archived", "key", key, "rows", file.Rows)
	return report.ArchiveResponse{
		Key:    key,
		URL:    url,
		Format: string(req.Format),
		Rows:   file.Rows,
	}, nil
}

// sortRecords orders by date, then by displayed instant.
func sortRecords(records []attendance.Attendance) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		ti, tj := records[i].Timestamp(), records[j].Timestamp()
		if ti == nil || tj == nil {
			return ti != nil
		}
		return ti.Before(*tj)
	})
}
