package staff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type StaffServiceImpl struct {
	staff.StaffRepository
}

func NewStaffService(staffRepository staff.StaffRepository) staff.StaffService {
	return &StaffServiceImpl{StaffRepository: staffRepository}
}

// List implements staff.StaffService.
func (s *StaffServiceImpl) List(ctx context.Context) ([]staff.StaffResponse, error) {
	members, err := s.StaffRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}

	resp := make([]staff.StaffResponse, 0, len(members))
	for _, m := range members {
		resp = append(resp, staff.NewStaffResponse(m))
	}
	return resp, nil
}

// Get implements staff.StaffService.
func (s *StaffServiceImpl) Get(ctx context.Context, name string) (staff.StaffResponse, error) {
	if err := validateName(name); err != nil {
		return staff.StaffResponse{}, err
	}

	member, err := s.StaffRepository.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return staff.StaffResponse{}, err
	}
	return staff.NewStaffResponse(member), nil
}

// Create implements staff.StaffService.
func (s *StaffServiceImpl) Create(ctx context.Context, req staff.CreateStaffRequest) (staff.StaffResponse, error) {
	if err := req.Validate(); err != nil {
		return staff.StaffResponse{}, err
	}

	_, err := s.StaffRepository.GetByName(ctx, req.Name)
	if err == nil {
		return staff.StaffResponse{}, staff.ErrStaffNameExists
	}
	if !errors.Is(err, staff.ErrStaffNotFound) {
		return staff.StaffResponse{}, fmt.Errorf("failed to check staff name: %w", err)
	}

	created, err := s.StaffRepository.Create(ctx, staff.Staff{
		Name:       req.Name,
		Position:   strings.TrimSpace(req.Position),
		Department: strings.TrimSpace(req.Department),
		Email:      strings.TrimSpace(req.Email),
		Phone:      strings.TrimSpace(req.Phone),
	})
	if err != nil {
		return staff.StaffResponse{}, fmt.Errorf("failed to create staff: %w", err)
	}

	slog.Info("staff created", "name", created.Name, "id", created.ID)
	return staff.NewStaffResponse(created), nil
}

// Update implements staff.StaffService.
func (s *StaffServiceImpl) Update(ctx context.Context, name string, req staff.UpdateStaffRequest) (staff.StaffResponse, error) {
	if err := validateName(name); err != nil {
		return staff.StaffResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return staff.StaffResponse{}, err
	}

	updated, err := s.StaffRepository.UpdateByName(ctx, strings.TrimSpace(name), req)
	if err != nil {
		return staff.StaffResponse{}, err
	}
	return staff.NewStaffResponse(updated), nil
}

// Delete implements staff.StaffService.
func (s *StaffServiceImpl) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	if err := s.StaffRepository.DeleteByName(ctx, strings.TrimSpace(name)); err != nil {
		return err
	}

	// attendance rows keep the name and are not removed
	slog.Info("staff deleted", "name", name)
	return nil
}

func validateName(name string) error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(name) {
		errs.Add("name", "name is required")
	}
	return errs.Err()
}
