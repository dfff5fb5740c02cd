package system

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/system"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/docstore"
)

const probeStatus = "connected"

type SystemServiceImpl struct {
	system.ConnectionRepository
	store       docstore.Store
	settings    config.Settings
	storeDriver string
	now         func() time.Time
}

func NewSystemService(connectionRepository system.ConnectionRepository, store docstore.Store, settings config.Settings, storeDriver string) system.SystemService {
	return &SystemServiceImpl{
		ConnectionRepository: connectionRepository,
		store:                store,
		settings:             settings,
		storeDriver:          storeDriver,
		now:                  time.Now,
	}
}

// Settings implements system.SystemService.
func (s *SystemServiceImpl) Settings(ctx context.Context) system.SettingsResponse {
	return system.SettingsResponse{
		Settings:    s.settings,
		StoreDriver: s.storeDriver,
	}
}

// TestConnection implements system.SystemService.
func (s *SystemServiceImpl) TestConnection(ctx context.Context) (system.ConnectionTestResponse, error) {
	start := s.now()

	if err := s.store.Ping(ctx); err != nil {
		return system.ConnectionTestResponse{}, fmt.Errorf("ping: %w: %w", docstore.ErrUnavailable, err)
	}
	if err := s.ConnectionRepository.WriteProbe(ctx, start, probeStatus); err != nil {
		return system.ConnectionTestResponse{}, err
	}

	return system.ConnectionTestResponse{
		Status:    probeStatus,
		Timestamp: start.Format(time.RFC3339),
		LatencyMS: time.Since(start).Milliseconds(),
	}, nil
}
