package document

import (
	"context"
	"errors"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/docstore"
)

var errBoom = errors.New("boom")

// faultyStore wraps a store and fails, or blocks until the context ends, for
// collections whose path starts with one of the given prefixes. With exact set
// the path must equal one of them.
type faultyStore struct {
	docstore.Store
	failing []string
	block   bool
	exact   bool
}

func (s *faultyStore) Collection(path string) docstore.Collection {
	return &faultyCollection{Collection: s.Store.Collection(path), store: s}
}

func (s *faultyStore) affects(path string) bool {
	for _, prefix := range s.failing {
		if s.exact && path != prefix {
			continue
		}
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (s *faultyStore) fail(ctx context.Context, path string) error {
	if !s.affects(path) {
		return nil
	}
	if s.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return errBoom
}

type faultyCollection struct {
	docstore.Collection
	store *faultyStore
}

func (c *faultyCollection) Sub(docID, name string) docstore.Collection {
	return &faultyCollection{Collection: c.Collection.Sub(docID, name), store: c.store}
}

func (c *faultyCollection) Get(ctx context.Context) ([]docstore.Document, error) {
	if err := c.store.fail(ctx, c.Path()); err != nil {
		return nil, err
	}
	return c.Collection.Get(ctx)
}

func (c *faultyCollection) Query(ctx context.Context, q docstore.Query) ([]docstore.Document, error) {
	if err := c.store.fail(ctx, c.Path()); err != nil {
		return nil, err
	}
	return c.Collection.Query(ctx, q)
}

func (c *faultyCollection) Add(ctx context.Context, data docstore.Data) (string, error) {
	if err := c.store.fail(ctx, c.Path()); err != nil {
		return "", err
	}
	return c.Collection.Add(ctx, data)
}

func (c *faultyCollection) Set(ctx context.Context, id string, data docstore.Data) error {
	if err := c.store.fail(ctx, c.Path()); err != nil {
		return err
	}
	return c.Collection.Set(ctx, id, data)
}

func (c *faultyCollection) Update(ctx context.Context, id string, patch docstore.Data) error {
	if err := c.store.fail(ctx, c.Path()); err != nil {
		return err
	}
	return c.Collection.Update(ctx, id, patch)
}

func (c *faultyCollection) Delete(ctx context.Context, id string) error {
	if err := c.store.fail(ctx, c.Path()); err != nil {
		return err
	}
	return c.Collection.Delete(ctx, id)
}
