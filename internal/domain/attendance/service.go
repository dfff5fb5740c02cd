package attendance

import "context"

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	CheckIn(ctx context.Context, req CheckRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, req CheckRequest) (AttendanceResponse, error)
}
