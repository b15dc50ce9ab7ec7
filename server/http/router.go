package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/config"
	fatHnd "github.com/stefanprati-rgb/gerador-faturas-egs/internal/fatura/handler"
	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/middleware"
	"github.com/stefanprati-rgb/gerador-faturas-egs/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// ordem importa: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	// health-check e métricas
	r.Get("/health", handlers.Health)
	r.Handle("/metrics", promhttp.Handler())

	// endpoint principal
	r.Post("/processar", fatHnd.Processar(cfg, logger))

	return r
}
