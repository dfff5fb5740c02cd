package staff

import "time"

// Staff is a roster entry. Attendance rows reference staff by Name, so the
// name is the business key.
type Staff struct {
	ID         string
	Name       string
	Position   string
	Department string
	Email      string
	Phone      string
	CreatedAt  time.Time
}
