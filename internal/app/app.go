package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/system"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database/migrations"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/docstore"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/document"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	reportService "github.com/cmlabs-hris/attendance-backend-go/internal/service/report"
	staffService "github.com/cmlabs-hris/attendance-backend-go/internal/service/staff"
	systemService "github.com/cmlabs-hris/attendance-backend-go/internal/service/system"
	"github.com/jackc/pgx/v5/stdlib"
)

// App holds the wired services shared by the API server and the admin CLI.
// The caller must call Close when done.
type App struct {
	Config   *config.Config
	Settings config.Settings
	Store    docstore.Store
	DB       *database.DB // nil for the memory store
	JWT      jwt.Service
	Storage  storage.FileStorage
	Events   *sse.Hub

	Auth       auth.AuthService
	Staff      staff.StaffService
	Attendance attendance.AttendanceService
	Report     report.ReportService
	System     system.SystemService
}

// Options control startup checks.
type Options struct {
	// AutoMigrate applies pending migrations instead of refusing to start.
	AutoMigrate bool
	// SkipMigrationCheck opens the database without looking at the schema.
	SkipMigrationCheck bool
}

// New wires every dependency from cfg. Storage failures are logged and leave
// archiving disabled; store failures are fatal.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	settings, err := config.LoadSettings(cfg.App.SettingsFile)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	loc, err := settings.Location()
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Settings: settings, Events: sse.NewHub()}

	if err := a.openStore(opts); err != nil {
		return nil, err
	}

	a.JWT, err = jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("creating jwt service: %w", err)
	}

	timeout := cfg.DocStore.Timeout
	attendanceRepo := document.NewAttendanceRepository(a.Store, document.AttendanceOptions{
		Collection:     cfg.Collections.Attendance,
		FlatCollection: cfg.Collections.FlatAttendance,
		Timeout:        timeout,
		Location:       loc,
	})
	staffRepo := document.NewStaffRepository(a.Store, cfg.Collections.Staff, timeout)
	userRepo := document.NewUserRepository(a.Store, cfg.Collections.Users, timeout)
	connectionRepo := document.NewConnectionRepository(a.Store, cfg.Collections.ConnectionTest, timeout)

	a.Storage, err = storage.NewFromConfig(ctx, cfg.Storage)
	if err != nil {
		slog.Warn("export archive storage disabled", "type", cfg.Storage.Type, "error", err)
		a.Storage = nil
	}

	a.Auth = authService.NewAuthService(userRepo, a.JWT)
	a.Staff = staffService.NewStaffService(staffRepo)
	a.Attendance = attendanceService.NewAttendanceService(attendanceRepo, staffRepo, a.Events)
	a.System = systemService.NewSystemService(connectionRepo, a.Store, settings, cfg.DocStore.Driver)
	a.Report, err = reportService.NewReportService(attendanceRepo, staffRepo, reportService.ReportOptions{
		Settings:  settings,
		Storage:   a.Storage,
		URLExpiry: cfg.Storage.PresignExpiry,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("creating report service: %w", err)
	}

	return a, nil
}

// Bootstrap provisions the configured admin account, if any.
func (a *App) Bootstrap(ctx context.Context) error {
	username := a.Config.Bootstrap.AdminUsername
	if username == "" {
		return nil
	}
	created, err := a.Auth.EnsureAdmin(ctx, username, a.Config.Bootstrap.AdminPassword)
	if err != nil {
		return fmt.Errorf("bootstrapping admin %q: %w", username, err)
	}
	if created {
		slog.Info("admin account created", "username", username)
	}
	return nil
}

func (a *App) Close() {
	if a.Store != nil {
		a.Store.Close()
	}
}

func (a *App) openStore(opts Options) error {
	switch a.Config.DocStore.Driver {
	case "memory":
		slog.Warn("using in-memory document store, data is lost on exit")
		a.Store = docstore.NewMemoryStore()
		return nil
	case "postgres":
	default:
		return fmt.Errorf("unsupported docstore driver %q", a.Config.DocStore.Driver)
	}

	db, err := OpenDatabase(a.Config)
	if err != nil {
		return err
	}

	if !opts.SkipMigrationCheck {
		sqlDB := stdlib.OpenDBFromPool(db.Pool)
		if opts.AutoMigrate {
			err = migrations.MigrateUp(sqlDB)
		} else {
			err = migrations.CheckDBMigrationStatus(sqlDB)
		}
		if err != nil {
			db.Close()
			return fmt.Errorf("database schema: %w", err)
		}
	}

	a.DB = db
	a.Store = postgresql.NewDocumentStore(db)
	return nil
}

// OpenDatabase connects the pgx pool described by cfg.
func OpenDatabase(cfg *config.Config) (*database.DB, error) {
	db, err := database.NewPostgreSQLDBWithOptions(cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return db, nil
}

// ParseLogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
