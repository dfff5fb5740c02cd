package system

import "github.com/cmlabs-hris/attendance-backend-go/internal/config"

type SettingsResponse struct {
	config.Settings
	StoreDriver string `json:"store_driver"`
}

type ConnectionTestResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	LatencyMS int64  `json:"latency_ms"`
}
