package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/docstore"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc     *ReportServiceImpl
	store   *docstore.MemoryStore
	storage *storage.LocalStorage
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := docstore.NewMemoryStore()

	staffRepo := document.NewStaffRepository(store, "staff", time.Second)
	for _, s := range []staff.Staff{{Name: "Alice", Department: "IT"}, {Name: "Bob", Department: "HR"}} {
		_, err := staffRepo.Create(ctx, s)
		require.NoError(t, err)
	}

	attendanceRepo := document.NewAttendanceRepository(store, document.AttendanceOptions{
		Collection: "attendance",
		Timeout:    time.Second,
		Location:   time.UTC,
	})

	local, err := storage.NewLocalStorage(t.TempDir(), "/exports")
	require.NoError(t, err)

	settings := config.DefaultSettings()
	settings.Timezone = "UTC"
	svc, err := NewReportService(attendanceRepo, staffRepo, ReportOptions{Settings: settings, Storage: local})
	require.NoError(t, err)

	impl := svc.(*ReportServiceImpl)
	impl.now = func() time.Time { return testNow }
	return fixture{svc: impl, store: store, storage: local}
}

func (f fixture) seedNested(t *testing.T, date string, children ...docstore.Data) {
	t.Helper()
	require.NoError(t, f.store.Seed("attendance", docstore.Document{ID: date, Data: docstore.Data{"date": date}}))
	for i, c := range children {
		require.NoError(t, f.store.Seed("attendance/"+date+"/records", docstore.Document{ID: fmt.Sprintf("r%d", i), Data: c}))
	}
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	f.seedNested(t, "2024-01-05",
		docstore.Data{"name": "Alice", "timestamp": "2024-01-05 08:00:00", "action": "check_in"},
		docstore.Data{"name": "Bob", "timestamp": "2024-01-05 09:30:00", "action": "check in"},
		docstore.Data{"name": "Alice", "timestamp": "2024-01-05 17:00:00", "action": "check_out"},
	)
	f.seedNested(t, "2024-01-04",
		docstore.Data{"name": "Bob", "timestamp": "2024-01-04 08:15:00", "action": "check_in"},
	)

	resp, err := f.svc.Dashboard(context.Background(), report.ReportFilter{Period: report.PeriodToday})
	require.NoError(t, err)

	assert.Equal(t, "2024-01-05", resp.Period.StartDate)
	assert.Equal(t, "2024-01-05", resp.Period.EndDate)
	assert.Equal(t, 2, resp.KPIs.TotalCheckins)
	assert.Equal(t, 2.0, resp.KPIs.AvgCheckinsPerDay)
	assert.Equal(t, "08:45:00", resp.KPIs.AverageCheckinTime)
	assert.Equal(t, "Alice", resp.KPIs.EarliestStaff)
	assert.Equal(t, "Bob", resp.KPIs.LatestStaff)
	assert.Equal(t, 1, resp.KPIs.LateCheckins)
	assert.Equal(t, 2, resp.TotalStaff)
	require.Len(t, resp.Today, 2)
	assert.Equal(t, "Alice", resp.Today[0].StaffName)
	assert.Equal(t, "IT", resp.Today[0].Department)
	assert.Empty(t, resp.Warnings)

	week, err := f.svc.Dashboard(context.Background(), report.ReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, report.PeriodLast7Days, week.Period.Period)
	assert.Equal(t, 3, week.KPIs.TotalCheckins)
	assert.Len(t, week.DailyTrend, 2)
}

func TestDashboard_KPITiesFollowStoreOrder(t *testing.T) {
	f := newFixture(t)
	f.seedNested(t, "2024-01-05",
		docstore.Data{"name": "Bob", "timestamp": "2024-01-05 08:00:00", "action": "check_in"},
	)
	f.seedNested(t, "2024-01-04",
		docstore.Data{"name": "Alice", "timestamp": "2024-01-04 08:00:00", "action": "check_in"},
	)

	resp, err := f.svc.Dashboard(context.Background(), report.ReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.KPIs.TotalCheckins)
	assert.Equal(t, "Bob", resp.KPIs.EarliestStaff)
	assert.Equal(t, "Bob", resp.KPIs.LatestStaff)

	rep, err := f.svc.AttendanceReport(context.Background(), report.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, rep.Records, 2)
	assert.Equal(t, "Alice", rep.Records[0].StaffName)
}

func TestDashboard_StoreDownDegrades(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := f.svc.Dashboard(ctx, report.ReportFilter{Period: report.PeriodLast30Days})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.KPIs.TotalCheckins)
	assert.Equal(t, "-", resp.KPIs.AverageCheckinTime)
	assert.NotEmpty(t, resp.Warnings)
}

func TestDashboard_InvalidFilter(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Dashboard(context.Background(), report.ReportFilter{Period: report.PeriodCustom})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "start_date")
}

func TestAttendanceReport_StaffFilterAndSummaries(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Seed("attendance",
		docstore.Document{ID: "f1", Data: docstore.Data{"staff_name": "Alice", "date": "2024-01-02", "check_in": "08:00:00", "check_out": "16:00:00", "status": "present"}},
		docstore.Document{ID: "f2", Data: docstore.Data{"staff_name": "Bob", "date": "2024-01-02", "check_in": "09:00:00", "status": "present"}},
	))

	resp, err := f.svc.AttendanceReport(context.Background(), report.ReportFilter{
		Period:    report.PeriodCustom,
		StartDate: "2024-01-01",
		EndDate:   "2024-01-03",
		StaffName: "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "Alice", resp.Records[0].StaffName)
	require.Len(t, resp.StaffSummaries, 1)
	assert.Equal(t, 8.0, resp.StaffSummaries[0].TotalHours)
	assert.Equal(t, "IT", resp.StaffSummaries[0].Department)

	all, err := f.svc.AttendanceReport(context.Background(), report.ReportFilter{Period: report.PeriodCustom, StartDate: "2024-01-01", EndDate: "2024-01-03"})
	require.NoError(t, err)
	assert.Equal(t, "All Staff", all.StaffName)
	assert.Equal(t, 2, all.Total)
	assert.Len(t, all.DepartmentSummaries, 2)
}

func TestExport_CSVCapped(t *testing.T) {
	f := newFixture(t)
	children := make([]docstore.Data, 0, 150)
	for i := 0; i < 150; i++ {
		children = append(children, docstore.Data{
			"name":      fmt.Sprintf("Staff member number %d of the night shift", i),
			"timestamp": fmt.Sprintf("2024-01-05 08:%02d:00", i%60),
			"action":    "check_in",
		})
	}
	f.seedNested(t, "2024-01-05", children...)

	file, err := f.svc.Export(context.Background(), report.ExportRequest{ReportFilter: report.ReportFilter{Period: report.PeriodToday}})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, "attendance_2024-01-05_2024-01-05.csv", file.Filename)
	assert.Equal(t, 100, file.Rows)

	rows, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 101)
	for _, row := range rows {
		for _, cell := range row {
			assert.LessOrEqual(t, len([]rune(cell)), 30)
		}
	}
}

func TestExport_InvalidFormat(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Export(context.Background(), report.ExportRequest{Format: "pdf"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "format")
}

func TestArchive(t *testing.T) {
	f := newFixture(t)
	f.seedNested(t, "2024-01-05", docstore.Data{"name": "Alice", "timestamp": "2024-01-05 08:00:00"})

	resp, err := f.svc.Archive(context.Background(), report.ExportRequest{
		ReportFilter: report.ReportFilter{Period: report.PeriodToday},
		Format:       report.FormatXLSX,
	})
	require.NoError(t, err)
	assert.Equal(t, "attendance/20240105-120000_attendance_2024-01-05_2024-01-05.xlsx", resp.Key)
	assert.Equal(t, "/exports/"+resp.Key, resp.URL)
	assert.Equal(t, 1, resp.Rows)

	rc, err := f.storage.Download(context.Background(), resp.Key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestArchive_NoStorage(t *testing.T) {
	f := newFixture(t)
	f.svc.storage = nil

	_, err := f.svc.Archive(context.Background(), report.ExportRequest{})
	assert.ErrorIs(t, err, report.ErrArchiveFailed)
}

func TestResolvePeriod(t *testing.T) {
	tests := []struct {
		name       string
		filter     report.ReportFilter
		start, end string
	}{
		{"today", report.ReportFilter{Period: report.PeriodToday}, "2024-01-05", "2024-01-05"},
		{"last 7 days", report.ReportFilter{Period: report.PeriodLast7Days}, "2023-12-30", "2024-01-05"},
		{"last 30 days", report.ReportFilter{Period: report.PeriodLast30Days}, "2023-12-07", "2024-01-05"},
		{"custom reversed", report.ReportFilter{Period: report.PeriodCustom, StartDate: "2024-02-01", EndDate: "2024-01-01"}, "2024-02-01", "2024-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := ResolvePeriod(tt.filter, testNow, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.start, start.Format("2006-01-02"))
			assert.Equal(t, tt.end, end.Format("2006-01-02"))
		})
	}

	_, _, err := ResolvePeriod(report.ReportFilter{Period: "yesterday"}, testNow, time.UTC)
	assert.ErrorIs(t, err, report.ErrInvalidPeriod)
}
