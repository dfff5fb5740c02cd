package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrUnsupportedOp   = errors.New("unsupported filter operator")
	ErrInvalidPath     = errors.New("invalid collection path")
	ErrInvalidDocument = errors.New("invalid document id")

	// ErrUnavailable marks a store call that failed or timed out. Repositories
	// wrap backend errors with it.
	ErrUnavailable = errors.New("document store unavailable")
)

// Op is a single-field comparison operator.
type Op string

const (
	OpEqual        Op = "=="
	OpLess         Op = "<"
	OpLessEqual    Op = "<="
	OpGreater      Op = ">"
	OpGreaterEqual Op = ">="
)

func (o Op) Valid() bool {
	switch o {
	case OpEqual, OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
		return true
	}
	return false
}

// Data is the loosely-typed body of a document.
type Data map[string]any

// Document is a stored document. Documents are returned oldest first.
type Document struct {
	ID   string
	Data Data
}

// Filter is a predicate on one field.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Query composes at most one server-side filter with an optional limit.
// Anything richer is filtered in memory by the caller.
type Query struct {
	Filter *Filter
	Limit  int
}

// Where builds a Query with a single filter.
func Where(field string, op Op, value any) Query {
	return Query{Filter: &Filter{Field: field, Op: op, Value: value}}
}

// WithLimit returns a copy of q capped at n results.
func (q Query) WithLimit(n int) Query {
	q.Limit = n
	return q
}

// Store hands out collection handles. Handles are cheap; the store itself is
// long-lived and shared.
type Store interface {
	Collection(path string) Collection
	Ping(ctx context.Context) error
	Close()
}

// Collection is a flat set of documents addressed by path, e.g. "staff" or
// "attendance/2024-01-05/records".
type Collection interface {
	Path() string
	Get(ctx context.Context) ([]Document, error)
	Query(ctx context.Context, q Query) ([]Document, error)
	Add(ctx context.Context, data Data) (string, error)
	Set(ctx context.Context, id string, data Data) error
	// Update merges patch into an existing document. Returns ErrNotFound when
	// the document does not exist.
	Update(ctx context.Context, id string, patch Data) error
	// Delete removes a document. Returns ErrNotFound when it does not exist.
	Delete(ctx context.Context, id string) error
	// Sub returns the sub-collection name owned by document docID.
	Sub(docID, name string) Collection
}

// JoinPath builds a sub-collection path.
func JoinPath(collection, docID, name string) string {
	return collection + "/" + docID + "/" + name
}

// ValidatePath rejects empty paths and paths that address a document.
func ValidatePath(path string) error {
	if path == "" || strings.HasPrefix(path, "/") || strings.HasSuffix(path, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	// collection paths always have an odd number of segments
	if len(strings.Split(path, "/"))%2 == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return nil
}

func ValidateID(id string) error {
	if id == "" || strings.Contains(id, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidDocument, id)
	}
	return nil
}

// ValidateQuery checks the filter field and operator.
func ValidateQuery(q Query) error {
	if q.Filter == nil {
		return nil
	}
	if q.Filter.Field == "" {
		return fmt.Errorf("filter field is required")
	}
	if !q.Filter.Op.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedOp, q.Filter.Op)
	}
	return nil
}
