package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/app"
	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/attendance-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cron"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := app.ParseLogLevel(cfg.App.LogLevel)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, app.Options{AutoMigrate: cfg.Jobs.AutoMigrate})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Bootstrap(ctx); err != nil {
		return err
	}

	loc, _ := a.Settings.Location()
	scheduler := cron.NewScheduler()
	cron.NewDashboardJobs(a.Report, a.System, loc).RegisterJobs(scheduler, cron.Intervals{
		Archive: cfg.Jobs.ArchiveInterval,
		Probe:   cfg.Jobs.ProbeInterval,
	})
	if scheduler.Len() > 0 {
		slog.Info("background jobs scheduled", "jobs", scheduler.Len())
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	routerOpts := appHTTP.RouterOptions{
		AppName:        cfg.App.Name,
		Version:        cfg.App.Version,
		Env:            cfg.App.Env,
		LogLevel:       level,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}
	if cfg.Storage.Type == "local" && a.Storage != nil {
		routerOpts.ExportsDir = cfg.Storage.BasePath
		routerOpts.ExportsPath = cfg.Storage.BaseURL
	}

	router := appHTTP.NewRouter(routerOpts, a.JWT, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(a.Auth),
		Staff:      appHTTP.NewStaffHandler(a.Staff),
		Attendance: appHTTP.NewAttendanceHandler(a.Attendance, a.Events),
		Report:     appHTTP.NewReportHandler(a.Report),
		System:     appHTTP.NewSystemHandler(a.System),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "docstore", cfg.DocStore.Driver, "storage", cfg.Storage.Type)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
