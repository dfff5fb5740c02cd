package document

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/system"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/docstore"
)

const probeDocumentID = "connection"

type connectionRepositoryImpl struct {
	base
	collection string
}

func NewConnectionRepository(store docstore.Store, collection string, timeout time.Duration) system.ConnectionRepository {
	if collection == "" {
		collection = "test"
	}
	return &connectionRepositoryImpl{base: newBase(store, timeout), collection: collection}
}

// WriteProbe implements system.ConnectionRepository.
func (r *connectionRepositoryImpl) WriteProbe(ctx context.Context, at time.Time, status string) error {
	return r.set(ctx, r.store.Collection(r.collection), probeDocumentID, docstore.Data{
		"timestamp": at.UTC().Format(time.RFC3339Nano),
		"status":    status,
	})
}
