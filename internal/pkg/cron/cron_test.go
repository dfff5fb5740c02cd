package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReports struct {
	report.ReportService
	requests []report.ExportRequest
	err      error
}

func (f *fakeReports) Archive(ctx context.Context, req report.ExportRequest) (report.ArchiveResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return report.ArchiveResponse{}, f.err
	}
	return report.ArchiveResponse{Key: "attendance/x.csv", Format: string(req.Format)}, nil
}

type fakeSystem struct {
	system.SystemService
	calls int
	err   error
}

func (f *fakeSystem) TestConnection(ctx context.Context) (system.ConnectionTestResponse, error) {
	f.calls++
	return system.ConnectionTestResponse{Status: "connected"}, f.err
}

func TestArchivePreviousDay(t *testing.T) {
	reports := &fakeReports{}
	jobs := NewDashboardJobs(reports, &fakeSystem{}, time.UTC)
	jobs.now = func() time.Time { return time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC) }

	require.NoError(t, jobs.ArchivePreviousDay(context.Background()))
	require.NoError(t, jobs.ArchivePreviousDay(context.Background()))

	require.Len(t, reports.requests, 1, "same day is archived once")
	req := reports.requests[0]
	assert.Equal(t, report.PeriodCustom, req.Period)
	assert.Equal(t, "2024-02-29", req.StartDate)
	assert.Equal(t, "2024-02-29", req.EndDate)
	assert.Equal(t, report.FormatCSV, req.Format)

	jobs.now = func() time.Time { return time.Date(2024, 3, 2, 0, 30, 0, 0, time.UTC) }
	require.NoError(t, jobs.ArchivePreviousDay(context.Background()))
	assert.Len(t, reports.requests, 2)
}

func TestArchivePreviousDayRetriesAfterFailure(t *testing.T) {
	reports := &fakeReports{err: report.ErrArchiveFailed}
	jobs := NewDashboardJobs(reports, &fakeSystem{}, time.UTC)

	err := jobs.ArchivePreviousDay(context.Background())
	assert.ErrorIs(t, err, report.ErrArchiveFailed)

	reports.err = nil
	require.NoError(t, jobs.ArchivePreviousDay(context.Background()))
	assert.Len(t, reports.requests, 2)
}

func TestProbeStore(t *testing.T) {
	sys := &fakeSystem{}
	jobs := NewDashboardJobs(&fakeReports{}, sys, nil)
	require.NoError(t, jobs.ProbeStore(context.Background()))
	assert.Equal(t, 1, sys.calls)

	sys.err = errors.New("down")
	assert.Error(t, jobs.ProbeStore(context.Background()))
}

func TestRegisterJobsSkipsDisabled(t *testing.T) {
	s := NewScheduler()
	NewDashboardJobs(&fakeReports{}, &fakeSystem{}, time.UTC).RegisterJobs(s, Intervals{Probe: time.Minute})
	assert.Equal(t, 1, s.Len())
}

func TestSchedulerRunsImmediatelyAndStops(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler()
	s.AddJob("count", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 10*time.Millisecond)
	s.Stop()

	s.RunOnce(context.Background())
	assert.Equal(t, int32(2), runs.Load())
}
