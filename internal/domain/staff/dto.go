package staff

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CreateStaffRequest struct {
	Name       string `json:"name"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

func (r *CreateStaffRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if !validator.IsValidStaffName(r.Name) {
		errs.Add("name", "name must not exceed 100 characters or contain slashes")
	}
	if r.Email != "" && !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}
	if r.Phone != "" && !validator.IsValidPhoneNumber(r.Phone) {
		errs.Add("phone", "phone must contain 7 to 15 digits")
	}

	return errs.Err()
}

// UpdateStaffRequest changes only the fields that are present. The name is
// the lookup key and cannot be changed.
type UpdateStaffRequest struct {
	Position   *string `json:"position"`
	Department *string `json:"department"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
}

func (r *UpdateStaffRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Position == nil && r.Department == nil && r.Email == nil && r.Phone == nil {
		errs.Add("body", "at least one field must be provided")
	}
	if r.Email != nil && *r.Email != "" && !validator.IsValidEmail(*r.Email) {
		errs.Add("email", "email must be a valid email address")
	}
	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "phone must contain 7 to 15 digits")
	}

	return errs.Err()
}

type StaffResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	CreatedAt  string `json:"created_at,omitempty"`
}

func NewStaffResponse(s Staff) StaffResponse {
	resp := StaffResponse{
		ID:         s.ID,
		Name:       s.Name,
		Position:   s.Position,
		Department: s.Department,
		Email:      s.Email,
		Phone:      s.Phone,
	}
	if !s.CreatedAt.IsZero() {
		resp.CreatedAt = s.CreatedAt.Format(time.RFC3339)
	}
	return resp
}
