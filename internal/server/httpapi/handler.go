package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/veil/internal/common"
	"github.com/dmitrijs2005/veil/internal/docs"
	"github.com/dmitrijs2005/veil/internal/logging"
)

// Confirmer redeems email confirmation tokens.
type Confirmer interface {
	Confirm(ctx context.Context, token string) error
}

// Pinger reports database reachability. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	users  Confirmer
	db     Pinger
	logger logging.Logger
	// renderDocs is swapped in tests.
	renderDocs func() ([]byte, error)
}

func NewHandler(users Confirmer, db Pinger, l logging.Logger) *Handler {
	return &Handler{
		users:      users,
		db:         db,
		logger:     l.With("module", "http"),
		renderDocs: docs.HTML,
	}
}

func (h *Handler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}

func (h *Handler) respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			h.logger.Warn(r.Context(), "health check failed", "error", err)
			h.respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	h.respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleDocs(w http.ResponseWriter, r *http.Request) {
	page, err := h.renderDocs()
	if err != nil {
		h.logger.Error(r.Context(), "render docs", "error", err)
		h.respondWithError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		h.respondWithError(w, http.StatusBadRequest, "missing token")
		return
	}

	err := h.users.Confirm(r.Context(), token)
	switch {
	case err == nil:
		h.respondWithJSON(w, http.StatusOK, map[string]string{"status": "confirmed"})
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		h.respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		h.respondWithError(w, http.StatusNotFound, "user not found")
	default:
		h.logger.Error(r.Context(), "confirm email", "error", err)
		h.respondWithError(w, http.StatusInternalServerError, "internal error")
	}
}
