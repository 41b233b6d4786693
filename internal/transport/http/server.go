package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewServer создает роутер API с middleware для CORS, идентификаторов запросов,
// логирования и восстановления после паники. Ограничение частоты запросов
// включается, если в лимитах обработчика задан RequestsPerSecond.
func NewServer(log *slog.Logger, h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(corsMiddleware)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(log))
	r.Use(middleware.Recoverer)
	if h.limits.RequestsPerSecond > 0 {
		r.Use(rateLimitMiddleware(log, h.limits.RequestsPerSecond, h.limits.Burst))
	}

	r.Get("/api/health", h.healthCheck)
	r.Route("/api/languages/{lang}", func(r chi.Router) {
		r.Get("/news", h.getNewsPage)
		r.Get("/news/themes/{theme}", h.getNewsByTheme)
		r.Get("/translations", h.getTranslations)
		r.Post("/translations/lookup", h.lookupTranslations)
		r.Get("/translations/{code}", h.getTranslation)
		r.Get("/translations/{code}/record", h.getTranslationRecord)
	})
	return r
}
