package http

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	AppName        string
	Version        string
	Env            string
	LogLevel       slog.Level
	LogOutput      io.Writer // defaults to stdout
	AllowedOrigins []string

	// ExportsDir is served under ExportsPath to authenticated users when
	// archives are kept on local disk.
	ExportsDir  string
	ExportsPath string
}

type Handlers struct {
	Auth       AuthHandler
	Staff      StaffHandler
	Attendance AttendanceHandler
	Report     ReportHandler
	System     SystemHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	out := opts.LogOutput
	if out == nil {
		out = os.Stdout
	}
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:       opts.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", opts.AppName),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition", "X-Export-Rows"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Post("/auth/login", h.Auth.Login)

		r.Route("/attendance", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(JWTService))
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
			})

			// EventSource cannot set headers, so the token may come as ?jwt=
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, jwtauth.TokenFromQuery))
				r.Use(middleware.AuthRequired(JWTService))
				r.Get("/stream", h.Attendance.Stream)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Post("/auth/logout", h.Auth.Logout)
			r.Get("/auth/me", h.Auth.Me)

			// Admin only
			r.With(middleware.RequireAdmin).Post("/auth/register", h.Auth.Register)

			r.Route("/staff", func(r chi.Router) {
				r.Get("/", h.Staff.List)
				r.Get("/{name}", h.Staff.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", h.Staff.Create)
					r.Put("/{name}", h.Staff.Update)
					r.Delete("/{name}", h.Staff.Delete)
				})
			})

			r.Get("/dashboard", h.Report.Dashboard)

			r.Route("/reports/attendance", func(r chi.Router) {
				r.Get("/", h.Report.AttendanceReport)
				r.Get("/export", h.Report.Export)
				r.With(middleware.RequireAdmin).Post("/archive", h.Report.Archive)
			})

			r.Route("/system", func(r chi.Router) {
				r.Get("/settings", h.System.Settings)
				r.With(middleware.RequireAdmin).Post("/connection-test", h.System.TestConnection)
			})
		})
	})

	if opts.ExportsDir != "" && strings.HasPrefix(opts.ExportsPath, "/") {
		prefix := strings.TrimRight(opts.ExportsPath, "/")
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))
			r.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(opts.ExportsDir))))
		})
	}

	return r
}
