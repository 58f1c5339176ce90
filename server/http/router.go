package serverhttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"frelections/internal/config"
	"frelections/internal/middleware"
	recHnd "frelections/internal/reconcile/handler"
	"frelections/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	r.Get("/health", handlers.Health)
	r.Post("/reconcile", recHnd.Reconcile(cfg, logger))

	// scraped and exported artifacts
	if cfg.DataDir != "" {
		fs := http.StripPrefix("/data/", http.FileServer(http.Dir(cfg.DataDir)))
		r.Get("/data/*", fs.ServeHTTP)
	}

	return r
}
