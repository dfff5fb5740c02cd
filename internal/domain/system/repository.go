package system

import (
	"context"
	"time"
)

type ConnectionRepository interface {
	// WriteProbe overwrites the connection probe document.
	WriteProbe(ctx context.Context, at time.Time, status string) error
}
