package user

import "time"

type Role string

const (
	RoleAdmin Role = "admin" // manages staff and accounts
	RoleStaff Role = "staff" // reads dashboards, records attendance
)

// ParseRole reports whether s names a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleStaff:
		return RoleStaff, true
	}
	return "", false
}

// User is a login credential.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// IsAdmin checks if user can manage staff and accounts
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
