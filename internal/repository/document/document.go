// Package document implements the domain repositories on top of a docstore.Store.
package document

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/docstore"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timestamp"
)

const defaultTimeout = 5 * time.Second

// base bounds every store call with the configured timeout.
type base struct {
	store   docstore.Store
	timeout time.Duration
}

func newBase(store docstore.Store, timeout time.Duration) base {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return base{store: store, timeout: timeout}
}

func (b base) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.timeout)
}

func (b base) get(ctx context.Context, c docstore.Collection) ([]docstore.Document, error) {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()
	docs, err := c.Get(ctx)
	if err != nil {
		return nil, unavailable("read "+c.Path(), err)
	}
	return docs, nil
}

func (b base) query(ctx context.Context, c docstore.Collection, q docstore.Query) ([]docstore.Document, error) {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()
	docs, err := c.Query(ctx, q)
	if err != nil {
		return nil, unavailable("query "+c.Path(), err)
	}
	return docs, nil
}

func (b base) add(ctx context.Context, c docstore.Collection, data docstore.Data) (string, error) {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()
	id, err := c.Add(ctx, data)
	if err != nil {
		return "", unavailable("add to "+c.Path(), err)
	}
	return id, nil
}

func (b base) set(ctx context.Context, c docstore.Collection, id string, data docstore.Data) error {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()
	if err := c.Set(ctx, id, data); err != nil {
		return unavailable("set "+c.Path()+"/"+id, err)
	}
	return nil
}

// update and remove pass docstore.ErrNotFound through unwrapped so callers can
// map it to their own not-found error.
func (b base) update(ctx context.Context, c docstore.Collection, id string, patch docstore.Data) error {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()
	if err := c.Update(ctx, id, patch); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return err
		}
		return unavailable("update "+c.Path()+"/"+id, err)
	}
	return nil
}

func (b base) remove(ctx context.Context, c docstore.Collection, id string) error {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()
	if err := c.Delete(ctx, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return err
		}
		return unavailable("delete "+c.Path()+"/"+id, err)
	}
	return nil
}

func unavailable(op string, err error) error {
	if errors.Is(err, docstore.ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, docstore.ErrUnavailable, err)
}

// str returns the first present key rendered as a string, "" when none is.
func str(data docstore.Data, keys ...string) string {
	for _, key := range keys {
		v, ok := data[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			return strings.TrimSpace(t)
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		case float32:
			return strconv.FormatFloat(float64(t), 'f', -1, 32)
		default:
			return strings.TrimSpace(fmt.Sprint(t))
		}
	}
	return ""
}

func formatInstant(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.RFC3339)
}

func parseCreatedAt(data docstore.Data) time.Time {
	if t := timestamp.NormalizeIn(data["created_at"], time.UTC); t != nil {
		return *t
	}
	return time.Time{}
}
