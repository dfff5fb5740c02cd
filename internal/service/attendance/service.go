package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	staff.StaffRepository
	events *sse.Hub
	now    func() time.Time
}

// NewAttendanceService records check-ins and check-outs. events may be nil.
func NewAttendanceService(attendanceRepository attendance.AttendanceRepository, staffRepository staff.StaffRepository, events *sse.Hub) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		StaffRepository:      staffRepository,
		events:               events,
		now:                  time.Now,
	}
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckRequest) (attendance.AttendanceResponse, error) {
	return a.record(ctx, req, attendance.ActionCheckIn)
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckRequest) (attendance.AttendanceResponse, error) {
	return a.record(ctx, req, attendance.ActionCheckOut)
}

func (a *AttendanceServiceImpl) record(ctx context.Context, req attendance.CheckRequest, action attendance.Action) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if _, err := a.StaffRepository.GetByName(ctx, req.StaffName); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	at := req.At(a.now())
	record, err := a.AttendanceRepository.Upsert(ctx, req.StaffName, action, at)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to record %s for %s: %w", action, req.StaffName, err)
	}

	slog.Info("attendance recorded", "staff_name", req.StaffName, "action", action, "date", record.Date)

	resp := attendance.NewAttendanceResponse(record)
	a.events.Publish(sse.Event{Topic: sse.TopicAttendance, Name: string(action), Data: resp})
	return resp, nil
}
