// Package httpapi serves the backend's plain HTTP surface: the health probe,
// the rendered architecture document and the email confirmation link.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes configures and returns the chi router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(h.requestID)
	r.Use(h.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Get("/healthz", h.handleHealth)
	r.Get("/docs", h.handleDocs)
	r.Get("/auth/confirm", h.handleConfirm)

	return r
}
