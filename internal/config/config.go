package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database    DatabaseConfig
	JWT         JWTConfig
	App         AppConfig
	DocStore    DocStoreConfig
	Collections CollectionConfig
	Storage     StorageConfig
	CORS        CORSConfig
	Bootstrap   BootstrapConfig
	Jobs        JobsConfig
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Name         string
	Version      string
	Port         int
	Env          string
	LogLevel     string
	SettingsFile string
}

// DocStoreConfig selects the document store backend
type DocStoreConfig struct {
	Driver  string // "postgres" or "memory"
	Timeout time.Duration
}

// CollectionConfig names the document collections
type CollectionConfig struct {
	Attendance     string
	FlatAttendance string // empty means flat rows share the attendance collection
	Staff          string
	Users          string
	ConnectionTest string
}

// StorageConfig uses a tagged union: Type decides which fields apply
type StorageConfig struct {
	Type string // "local" or "s3"

	// local
	BasePath string
	BaseURL  string

	// s3
	S3Bucket          string
	S3Prefix          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3UsePathStyle    bool
	PresignExpiry     time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// BootstrapConfig provisions an admin account on startup when both fields are set
type BootstrapConfig struct {
	AdminUsername string
	AdminPassword string
}

// JobsConfig sets background job intervals. Zero disables a job.
type JobsConfig struct {
	ArchiveInterval time.Duration
	ProbeInterval   time.Duration
	AutoMigrate     bool
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds and validates a Config from environment variables only.
func FromEnv() (*Config, error) {
	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbMaxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		URL:      getEnv("DATABASE_URL", ""),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(dbMaxConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Name:         getEnv("APP_NAME", "attendance-dashboard"),
		Version:      getEnv("APP_VERSION", "v1.0.0"),
		Port:         appPort,
		Env:          getEnv("APP_ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		SettingsFile: getEnv("SETTINGS_FILE", ""),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "8h"),
	}

	// Document store
	storeTimeout, err := time.ParseDuration(getEnv("STORE_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_TIMEOUT: %w", err)
	}
	config.DocStore = DocStoreConfig{
		Driver:  getEnv("DOCSTORE_DRIVER", "postgres"),
		Timeout: storeTimeout,
	}

	config.Collections = CollectionConfig{
		Attendance:     getEnv("ATTENDANCE_COLLECTION", "attendance"),
		FlatAttendance: getEnv("FLAT_ATTENDANCE_COLLECTION", ""),
		Staff:          getEnv("STAFF_COLLECTION", "staff"),
		Users:          getEnv("USERS_COLLECTION", "users"),
		ConnectionTest: getEnv("CONNECTION_TEST_COLLECTION", "test"),
	}

	// Export archive storage
	presignExpiry, err := time.ParseDuration(getEnv("S3_PRESIGN_EXPIRY", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid S3_PRESIGN_EXPIRY: %w", err)
	}
	usePathStyle, err := strconv.ParseBool(getEnv("S3_USE_PATH_STYLE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid S3_USE_PATH_STYLE: %w", err)
	}
	config.Storage = StorageConfig{
		Type:              getEnv("STORAGE_TYPE", "local"),
		BasePath:          getEnv("STORAGE_BASE_PATH", "./exports"),
		BaseURL:           getEnv("STORAGE_BASE_URL", "/exports"),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Prefix:          getEnv("S3_PREFIX", ""),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3UsePathStyle:    usePathStyle,
		PresignExpiry:     presignExpiry,
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	config.Bootstrap = BootstrapConfig{
		AdminUsername: getEnv("BOOTSTRAP_ADMIN_USERNAME", ""),
		AdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
	}

	archiveInterval, err := time.ParseDuration(getEnv("ARCHIVE_INTERVAL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid ARCHIVE_INTERVAL: %w", err)
	}
	probeInterval, err := time.ParseDuration(getEnv("PROBE_INTERVAL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROBE_INTERVAL: %w", err)
	}
	autoMigrate, err := strconv.ParseBool(getEnv("AUTO_MIGRATE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_MIGRATE: %w", err)
	}
	config.Jobs = JobsConfig{
		ArchiveInterval: archiveInterval,
		ProbeInterval:   probeInterval,
		AutoMigrate:     autoMigrate,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	switch c.DocStore.Driver {
	case "postgres":
		if c.Database.URL == "" && c.Database.Password == "" {
			return fmt.Errorf("DATABASE_URL or DB_PASSWORD is required for the postgres docstore")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported DOCSTORE_DRIVER: %q", c.DocStore.Driver)
	}
	if c.DocStore.Timeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive")
	}

	if c.Collections.Attendance == "" || c.Collections.Staff == "" || c.Collections.Users == "" {
		return fmt.Errorf("collection names must not be empty")
	}

	switch c.Storage.Type {
	case "local":
		if c.Storage.BasePath == "" {
			return fmt.Errorf("STORAGE_BASE_PATH is required for local storage")
		}
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for s3 storage")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_TYPE: %q", c.Storage.Type)
	}

	if c.Jobs.ArchiveInterval < 0 || c.Jobs.ProbeInterval < 0 {
		return fmt.Errorf("job intervals must not be negative")
	}

	if (c.Bootstrap.AdminUsername == "") != (c.Bootstrap.AdminPassword == "") {
		return fmt.Errorf("BOOTSTRAP_ADMIN_USERNAME and BOOTSTRAP_ADMIN_PASSWORD must be set together")
	}

	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
