package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps documents in process. Used for local development and
// tests; contents are lost on restart.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollectionData
}

type memoryCollectionData struct {
	order []string
	docs  map[string]Data
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollectionData)}
}

func (m *MemoryStore) Collection(path string) Collection {
	return &memoryCollection{store: m, path: path}
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryStore) Close() {}

// Seed inserts documents with fixed ids, in order. Intended for fixtures.
func (m *MemoryStore) Seed(path string, docs ...Document) error {
	c := m.Collection(path)
	for _, d := range docs {
		if err := c.Set(context.Background(), d.ID, d.Data); err != nil {
			return err
		}
	}
	return nil
}

type memoryCollection struct {
	store *MemoryStore
	path  string
}

func (c *memoryCollection) Path() string { return c.path }

func (c *memoryCollection) Sub(docID, name string) Collection {
	return &memoryCollection{store: c.store, path: JoinPath(c.path, docID, name)}
}

func (c *memoryCollection) Get(ctx context.Context) ([]Document, error) {
	return c.Query(ctx, Query{})
}

func (c *memoryCollection) Query(ctx context.Context, q Query) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidatePath(c.path); err != nil {
		return nil, err
	}
	if err := ValidateQuery(q); err != nil {
		return nil, err
	}

	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	data, ok := c.store.collections[c.path]
	if !ok {
		return []Document{}, nil
	}

	result := make([]Document, 0, len(data.order))
	for _, id := range data.order {
		doc := data.docs[id]
		if q.Filter != nil && !matches(doc, *q.Filter) {
			continue
		}
		result = append(result, Document{ID: id, Data: copyData(doc)})
		if q.Limit > 0 && len(result) >= q.Limit {
			break
		}
	}
	return result, nil
}

func (c *memoryCollection) Add(ctx context.Context, data Data) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate document id: %w", err)
	}
	if err := c.Set(ctx, id.String(), data); err != nil {
		return "", err
	}
	return id.String(), nil
}

func (c *memoryCollection) Set(ctx context.Context, id string, data Data) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidatePath(c.path); err != nil {
		return err
	}
	if err := ValidateID(id); err != nil {
		return err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	coll, ok := c.store.collections[c.path]
	if !ok {
		coll = &memoryCollectionData{docs: make(map[string]Data)}
		c.store.collections[c.path] = coll
	}
	if _, exists := coll.docs[id]; !exists {
		coll.order = append(coll.order, id)
	}
	coll.docs[id] = copyData(data)
	return nil
}

func (c *memoryCollection) Update(ctx context.Context, id string, patch Data) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidatePath(c.path); err != nil {
		return err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	coll, ok := c.store.collections[c.path]
	if !ok {
		return ErrNotFound
	}
	doc, ok := coll.docs[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range copyData(patch) {
		doc[k] = v
	}
	return nil
}

func (c *memoryCollection) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidatePath(c.path); err != nil {
		return err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	coll, ok := c.store.collections[c.path]
	if !ok {
		return ErrNotFound
	}
	if _, ok := coll.docs[id]; !ok {
		return ErrNotFound
	}
	delete(coll.docs, id)
	for i, existing := range coll.order {
		if existing == id {
			coll.order = append(coll.order[:i], coll.order[i+1:]...)
			break
		}
	}

	// sub-collections go with their parent
	prefix := c.path + "/" + id + "/"
	for path := range c.store.collections {
		if strings.HasPrefix(path, prefix) {
			delete(c.store.collections, path)
		}
	}
	return nil
}

func matches(doc Data, f Filter) bool {
	v, ok := doc[f.Field]
	if !ok {
		return false
	}

	cmp, comparable := compareValues(v, f.Value)
	if !comparable {
		return f.Op == OpEqual && reflect.DeepEqual(v, f.Value)
	}

	switch f.Op {
	case OpEqual:
		return cmp == 0
	case OpLess:
		return cmp < 0
	case OpLessEqual:
		return cmp <= 0
	case OpGreater:
		return cmp > 0
	case OpGreaterEqual:
		return cmp >= 0
	}
	return false
}

// compareValues orders two values of the same kind. The second result is false
// when the values cannot be ordered against each other.
func compareValues(a, b any) (int, bool) {
	if af, ok := number(a); ok {
		bf, ok := number(b)
		if !ok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return av.Compare(bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok || av != bv {
			return 0, false
		}
		return 0, true
	}
	return 0, false
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func copyData(d Data) Data {
	if d == nil {
		return Data{}
	}
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case Data:
		return map[string]any(copyData(t))
	case map[string]any:
		return map[string]any(copyData(t))
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = copyValue(item)
		}
		return out
	}
	return v
}
