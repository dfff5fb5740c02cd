package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "/exports/")
	require.NoError(t, err)

	key, err := s.Upload(ctx, strings.NewReader("name,date\n"), "2024/01/report.csv", "text/csv")
	require.NoError(t, err)
	assert.Equal(t, "2024/01/report.csv", key)

	exists, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := s.Download(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "name,date\n", string(body))

	url, err := s.GetURL(ctx, key, 0)
	require.NoError(t, err)
	assert.Equal(t, "/exports/2024/01/report.csv", url)

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key))

	exists, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.Download(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_StaysInsideBase(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "/exports")
	require.NoError(t, err)

	key, err := s.Upload(ctx, strings.NewReader("x"), "../../escape.csv", "text/csv")
	require.NoError(t, err)
	assert.Equal(t, "escape.csv", key)

	_, err = s.Upload(ctx, strings.NewReader("x"), "..", "text/csv")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestNewFromConfig(t *testing.T) {
	ctx := context.Background()

	fs, err := NewFromConfig(ctx, config.StorageConfig{Type: "local", BasePath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, fs)

	_, err = NewFromConfig(ctx, config.StorageConfig{Type: "s3"})
	assert.Error(t, err)

	_, err = NewFromConfig(ctx, config.StorageConfig{Type: "ftp"})
	assert.Error(t, err)
}

func TestS3Storage_Key(t *testing.T) {
	s := &S3Storage{bucket: "b", prefix: "exports"}

	key, err := s.key("/2024/report.csv")
	require.NoError(t, err)
	assert.Equal(t, "exports/2024/report.csv", key)

	_, err = s.key("/")
	assert.ErrorIs(t, err, ErrInvalidPath)
}
