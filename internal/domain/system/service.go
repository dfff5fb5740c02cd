package system

import "context"

type SystemService interface {
	Settings(ctx context.Context) SettingsResponse
	// TestConnection writes a probe document and reports the round trip.
	TestConnection(ctx context.Context) (ConnectionTestResponse, error)
}
