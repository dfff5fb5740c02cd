package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// CheckRequest records a check-in or check-out. Timestamp is optional RFC3339;
// the server clock is used when it is empty.
type CheckRequest struct {
	StaffName string `json:"staff_name"`
	Timestamp string `json:"timestamp,omitempty"`
}

func (r *CheckRequest) Validate() error {
	var errs validator.ValidationErrors

	r.StaffName = strings.TrimSpace(r.StaffName)
	if validator.IsEmpty(r.StaffName) {
		errs.Add("staff_name", "staff_name is required")
	} else if !validator.IsValidStaffName(r.StaffName) {
		errs.Add("staff_name", "staff_name must not exceed 100 characters or contain slashes")
	}

	if r.Timestamp != "" {
		if _, ok := validator.IsValidDateTime(r.Timestamp); !ok {
			errs.Add("timestamp", "timestamp must be an RFC3339 date-time")
		}
	}

	return errs.Err()
}

// At returns the requested instant, or now when none was given.
func (r *CheckRequest) At(now time.Time) time.Time {
	if t, ok := validator.IsValidDateTime(r.Timestamp); ok {
		return t
	}
	return now
}

type AttendanceResponse struct {
	ID         string  `json:"id"`
	StaffName  string  `json:"staff_name"`
	Date       string  `json:"date"`
	CheckIn    *string `json:"check_in"`
	CheckOut   *string `json:"check_out"`
	Status     string  `json:"status"`
	Action     string  `json:"action,omitempty"`
	NFCUID     string  `json:"nfc_uid,omitempty"`
	DeviceID   string  `json:"device_id,omitempty"`
	Department string  `json:"department,omitempty"`
	UserID     string  `json:"user_id,omitempty"`
	Source     string  `json:"source,omitempty"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:         a.ID,
		StaffName:  a.StaffName,
		Date:       a.Date,
		CheckIn:    formatInstant(a.CheckIn),
		CheckOut:   formatInstant(a.CheckOut),
		Status:     string(a.Status),
		Action:     string(a.Action),
		NFCUID:     a.NFCUID,
		DeviceID:   a.DeviceID,
		Department: a.Department,
		UserID:     a.UserID,
		Source:     string(a.Source),
	}
}

func formatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
