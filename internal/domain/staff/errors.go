package staff

import (
	"errors"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/docstore"
)

var (
	ErrStaffNotFound    = errors.New("staff not found")
	ErrStaffNameExists  = errors.New("staff name already exists")
	ErrStoreUnavailable = docstore.ErrUnavailable
)
