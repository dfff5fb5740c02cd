package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/system"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timestamp"
)

// Intervals configures the background jobs. Zero disables a job.
type Intervals struct {
	Archive time.Duration
	Probe   time.Duration
}

// DashboardJobs archives the previous day's attendance and probes the
// document store.
type DashboardJobs struct {
	reportService report.ReportService
	systemService system.SystemService
	loc           *time.Location
	now           func() time.Time

	mu           sync.Mutex
	lastArchived string
}

func NewDashboardJobs(reportService report.ReportService, systemService system.SystemService, loc *time.Location) *DashboardJobs {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardJobs{
		reportService: reportService,
		systemService: systemService,
		loc:           loc,
		now:           time.Now,
	}
}

func (j *DashboardJobs) RegisterJobs(scheduler *Scheduler, intervals Intervals) {
	scheduler.AddJob("archive_previous_day", intervals.Archive, j.ArchivePreviousDay)
	scheduler.AddJob("probe_document_store", intervals.Probe, j.ProbeStore)
}

// ArchivePreviousDay uploads yesterday's CSV export once per day.
func (j *DashboardJobs) ArchivePreviousDay(ctx context.Context) error {
	day := j.now().In(j.loc).AddDate(0, 0, -1).Format(timestamp.DateLayout)

	j.mu.Lock()
	done := j.lastArchived == day
	j.mu.Unlock()
	if done {
		return nil
	}

	res, err := j.reportService.Archive(ctx, report.ExportRequest{
		ReportFilter: report.ReportFilter{
			Period:    report.PeriodCustom,
			StartDate: day,
			EndDate:   day,
		},
		Format: report.FormatCSV,
	})
	if err != nil {
		return fmt.Errorf("archive %s: %w", day, err)
	}

	j.mu.Lock()
	j.lastArchived = day
	j.mu.Unlock()

	slog.Info("daily attendance archived", "date", day, "key", res.Key, "rows", res.Rows)
	return nil
}

// ProbeStore writes the connection probe document.
func (j *DashboardJobs) ProbeStore(ctx context.Context) error {
	res, err := j.systemService.TestConnection(ctx)
	if err != nil {
		return fmt.Errorf("connection probe: %w", err)
	}
	slog.Debug("document store reachable", "latency_ms", res.LatencyMS)
	return nil
}
