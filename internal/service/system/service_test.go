package system

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/docstore"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings(t *testing.T) {
	store := docstore.NewMemoryStore()
	svc := NewSystemService(document.NewConnectionRepository(store, "test", time.Second), store, config.DefaultSettings(), "memory")

	resp := svc.Settings(context.Background())
	assert.Equal(t, "memory", resp.StoreDriver)
	assert.Equal(t, "09:00", resp.WorkingHours.Start)
	assert.Equal(t, 100, resp.Export.MaxRows)
}

func TestTestConnection(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	svc := NewSystemService(document.NewConnectionRepository(store, "test", time.Second), store, config.DefaultSettings(), "memory")

	resp, err := svc.TestConnection(ctx)
	require.NoError(t, err)
	assert.Equal(t, "connected", resp.Status)
	assert.GreaterOrEqual(t, resp.LatencyMS, int64(0))

	docs, err := store.Collection("test").Get(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "connection", docs[0].ID)
	assert.Equal(t, "connected", docs[0].Data["status"])
}

func TestTestConnection_Unavailable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := docstore.NewMemoryStore()
	svc := NewSystemService(document.NewConnectionRepository(store, "test", time.Second), store, config.DefaultSettings(), "memory")

	_, err := svc.TestConnection(ctx)
	assert.ErrorIs(t, err, docstore.ErrUnavailable)
}
