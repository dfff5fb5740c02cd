package attendance

import (
	"errors"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/docstore"
)

// Attendance domain errors
var (
	ErrStoreUnavailable = docstore.ErrUnavailable
	ErrInvalidAction    = errors.New("action must be check_in or check_out")
)
