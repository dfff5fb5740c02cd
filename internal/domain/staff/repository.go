package staff

import "context"

type StaffRepository interface {
	// List returns every staff record, oldest first.
	List(ctx context.Context) ([]Staff, error)

	// GetByName returns the oldest record with the given name.
	GetByName(ctx context.Context, name string) (Staff, error)

	Create(ctx context.Context, newStaff Staff) (Staff, error)

	// UpdateByName applies non-nil fields to the oldest record with the
	// given name.
	UpdateByName(ctx context.Context, name string, req UpdateStaffRequest) (Staff, error)

	// DeleteByName removes the oldest record with the given name.
	DeleteByName(ctx context.Context, name string) error
}
