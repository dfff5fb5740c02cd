package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/docstore"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid username or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token revoked")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUsernameExists):
		Conflict(w, "Username already exists")
	case errors.Is(err, user.ErrInvalidRole):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Staff domain errors
	case errors.Is(err, staff.ErrStaffNotFound):
		NotFound(w, "Staff not found")
	case errors.Is(err, staff.ErrStaffNameExists):
		Conflict(w, "Staff name already exists")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrInvalidAction):
		BadRequest(w, err.Error(), nil)

	// Report domain errors
	case errors.Is(err, report.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, report.ErrInvalidExportFormat):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, report.ErrArchiveFailed):
		slog.Error("archive failed", "error", err)
		InternalServerError(w, "Failed to archive export")

	// Store errors
	case errors.Is(err, docstore.ErrUnavailable):
		slog.Warn("document store unavailable", "error", err)
		ServiceUnavailable(w, "Attendance store is unavailable, try again later")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
