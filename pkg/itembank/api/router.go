package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/tendant/itembank/pkg/itembank"
	"github.com/tendant/itembank/pkg/itembank/admin"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	Logger *slog.Logger
	// CORSOrigins enables CORS when non-empty.
	CORSOrigins []string
	Timeout     time.Duration
}

// NewRouter mounts every handler under /api/v1 plus /health. adminService
// may be nil, in which case /admin is not mounted.
func NewRouter(service itembank.Service, adminService admin.AdminService, opts RouterOptions) http.Handler {
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(opts.Logger))
	r.Use(RecoveryMiddleware)
	r.Use(middleware.Timeout(opts.Timeout))
	if len(opts.CORSOrigins) > 0 {
		r.Use(CORSMiddleware(opts.CORSOrigins))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "healthy"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/items", NewItemHandler(service).Routes())
		r.Mount("/search", NewSearchHandler(service).Routes())
		if adminService != nil {
			r.Mount("/admin", NewAdminHandler(adminService).Routes())
		}
		r.Mount("/", NewCatalogHandler(service).Routes())
	})

	return r
}
