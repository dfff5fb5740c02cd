package document

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/docstore"
)

type staffRepositoryImpl struct {
	base
	collection string
	now        func() time.Time
}

func NewStaffRepository(store docstore.Store, collection string, timeout time.Duration) staff.StaffRepository {
	if collection == "" {
		collection = "staff"
	}
	return &staffRepositoryImpl{
		base:       newBase(store, timeout),
		collection: collection,
		now:        time.Now,
	}
}

// List implements staff.StaffRepository.
func (r *staffRepositoryImpl) List(ctx context.Context) ([]staff.Staff, error) {
	docs, err := r.get(ctx, r.store.Collection(r.collection))
	if err != nil {
		return nil, err
	}

	result := make([]staff.Staff, 0, len(docs))
	for _, doc := range docs {
		result = append(result, toStaff(doc))
	}
	return result, nil
}

// GetByName implements staff.StaffRepository.
func (r *staffRepositoryImpl) GetByName(ctx context.Context, name string) (staff.Staff, error) {
	doc, err := r.findByName(ctx, name)
	if err != nil {
		return staff.Staff{}, err
	}
	return toStaff(doc), nil
}

// Create implements staff.StaffRepository.
func (r *staffRepositoryImpl) Create(ctx context.Context, newStaff staff.Staff) (staff.Staff, error) {
	if newStaff.CreatedAt.IsZero() {
		newStaff.CreatedAt = r.now().UTC()
	}
	data := docstore.Data{
		"name":       newStaff.Name,
		"position":   newStaff.Position,
		"department": newStaff.Department,
		"email":      newStaff.Email,
		"phone":      newStaff.Phone,
		"created_at": newStaff.CreatedAt.Format(time.RFC3339Nano),
	}

	id, err := r.add(ctx, r.store.Collection(r.collection), data)
	if err != nil {
		return staff.Staff{}, err
	}
	newStaff.ID = id
	return newStaff, nil
}

// UpdateByName implements staff.StaffRepository.
func (r *staffRepositoryImpl) UpdateByName(ctx context.Context, name string, req staff.UpdateStaffRequest) (staff.Staff, error) {
	doc, err := r.findByName(ctx, name)
	if err != nil {
		return staff.Staff{}, err
	}

	patch := docstore.Data{}
	if req.Position != nil {
		patch["position"] = *req.Position
	}
	if req.Department != nil {
		patch["department"] = *req.Department
	}
	if req.Email != nil {
		patch["email"] = *req.Email
	}
	if req.Phone != nil {
		patch["phone"] = *req.Phone
	}

	if err := r.update(ctx, r.store.Collection(r.collection), doc.ID, patch); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return staff.Staff{}, staff.ErrStaffNotFound
		}
		return staff.Staff{}, err
	}

	for k, v := range patch {
		doc.Data[k] = v
	}
	return toStaff(doc), nil
}

// DeleteByName implements staff.StaffRepository.
func (r *staffRepositoryImpl) DeleteByName(ctx context.Context, name string) error {
	doc, err := r.findByName(ctx, name)
	if err != nil {
		return err
	}

	if err := r.remove(ctx, r.store.Collection(r.collection), doc.ID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return staff.ErrStaffNotFound
		}
		return err
	}
	return nil
}

// findByName returns the oldest document with the given name.
func (r *staffRepositoryImpl) findByName(ctx context.Context, name string) (docstore.Document, error) {
	docs, err := r.query(ctx, r.store.Collection(r.collection), docstore.Where("name", docstore.OpEqual, name).WithLimit(1))
	if err != nil {
		return docstore.Document{}, err
	}
	if len(docs) == 0 {
		return docstore.Document{}, staff.ErrStaffNotFound
	}
	return docs[0], nil
}

func toStaff(doc docstore.Document) staff.Staff {
	return staff.Staff{
		ID:         doc.ID,
		Name:       str(doc.Data, "name", "staff_name"),
		Position:   str(doc.Data, "position"),
		Department: str(doc.Data, "department"),
		Email:      str(doc.Data, "email"),
		Phone:      str(doc.Data, "phone"),
		CreatedAt:  parseCreatedAt(doc.Data),
	}
}
