package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/velonis/field-reports/internal"
	"github.com/velonis/field-reports/internal/auth"
	"github.com/velonis/field-reports/internal/export"
	"github.com/velonis/field-reports/internal/report"
	"github.com/velonis/field-reports/internal/transport/middleware"
	"github.com/velonis/field-reports/internal/user"
)

// RouterConfig carries everything route registration needs.
type RouterConfig struct {
	DB             *sql.DB
	AllowedOrigins string
	UploadDir      string
	AuthHandler    *auth.Handler
	UserHandler    *user.Handler
	ReportHandler  *report.Handler
	ExportHandler  *export.Handler
	Logger         *slog.Logger
}

// RegisterRoutes wires the full HTTP surface. Paths match the SPA client
// verbatim; there is no API version prefix.
func RegisterRoutes(router *chi.Mux, cfg RouterConfig) {
	healthHandler := NewHealthHandler(cfg.DB)

	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging(cfg.Logger))
	router.Use(middleware.Recovery(cfg.Logger))

	router.Get("/health", healthHandler.Check)
	router.Post("/login", cfg.AuthHandler.Login)

	// Stored attachment serving. Unauthenticated, matching the deployed
	// behaviour; filenames are random UUIDs.
	router.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	router.Group(func(pr chi.Router) {
		pr.Use(cfg.AuthHandler.Middleware)

		pr.Group(func(er chi.Router) {
			er.Use(cfg.AuthHandler.RequireRole(internal.RoleEmployee))
			er.Post("/submit-report", cfg.ReportHandler.Submit)
		})

		pr.Group(func(ar chi.Router) {
			ar.Use(cfg.AuthHandler.RequireRole(internal.RoleAdmin))

			ar.Post("/admin/create-user", cfg.UserHandler.CreateUser)
			ar.Get("/admin/users", cfg.UserHandler.ListUsers)
			ar.Delete("/admin/delete-user/{id}", cfg.UserHandler.DeleteUser)

			ar.Get("/admin/reports", cfg.ReportHandler.List)
			ar.Delete("/admin/delete-report/{id}", cfg.ReportHandler.Delete)

			ar.Get("/admin/reports/export.xlsx", cfg.ExportHandler.XLSX)
			ar.Get("/admin/reports/export.pdf", cfg.ExportHandler.PDF)
		})
	})
}
