package attendance

import (
	"context"
	"time"
)

// FetchResult carries whatever could be read. Warnings describe the parts
// that could not.
type FetchResult struct {
	Records  []Attendance
	Warnings []string
}

type AttendanceRepository interface {
	// FetchAll reads nested and flat records. It never fails; store errors
	// become warnings and an empty or partial result.
	FetchAll(ctx context.Context) FetchResult

	// Upsert records a check-in or check-out for staffName on the calendar
	// day of at. Read-then-write, not atomic.
	Upsert(ctx context.Context, staffName string, action Action, at time.Time) (Attendance, error)
}
