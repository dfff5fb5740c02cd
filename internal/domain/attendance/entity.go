package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timestamp"
)

type Action string

const (
	ActionCheckIn  Action = "check_in"
	ActionCheckOut Action = "check_out"
)

// ParseAction accepts the canonical values plus the loose spellings devices
// send ("checkin", "Check Out", ...). Anything mentioning "out" is a check-out.
func ParseAction(s string) (Action, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if norm == "" {
		return "", false
	}
	if strings.Contains(norm, "out") {
		return ActionCheckOut, true
	}
	if strings.Contains(norm, "in") {
		return ActionCheckIn, true
	}
	return "", false
}

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
)

// ParseStatus defaults unknown values to present.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusAbsent:
		return StatusAbsent
	case StatusLate:
		return StatusLate
	}
	return StatusPresent
}

// Source records which stored shape a record was read from.
type Source string

const (
	SourceFlat   Source = "flat"
	SourceNested Source = "nested"
)

// Attendance is one staff member's record for one calendar day. Optional
// fields are defaulted when the record is read, never later.
type Attendance struct {
	ID        string
	StaffName string
	Date      string // YYYY-MM-DD
	CheckIn   *time.Time
	CheckOut  *time.Time
	Status    Status

	// Device metadata carried by nested records
	Action     Action
	NFCUID     string
	DeviceID   string
	Department string
	UserID     string

	Source Source
}

// CalendarDate parses Date. ok is false for a missing or malformed date.
func (a Attendance) CalendarDate(loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(timestamp.DateLayout, a.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Timestamp is the instant shown for the record: check-in, else check-out.
func (a Attendance) Timestamp() *time.Time {
	if a.CheckIn != nil {
		return a.CheckIn
	}
	return a.CheckOut
}

// WorkedHours is check-out minus check-in. ok is false when either is missing
// or the interval is negative.
func (a Attendance) WorkedHours() (float64, bool) {
	if a.CheckIn == nil || a.CheckOut == nil {
		return 0, false
	}
	d := a.CheckOut.Sub(*a.CheckIn)
	if d < 0 {
		return 0, false
	}
	return d.Hours(), true
}
