package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"buspredictor/internal/config"
	"buspredictor/internal/groups"
	"buspredictor/internal/gtfs"

	"github.com/go-playground/validator/v10"
)

// Handler holds shared dependencies for all HTTP handlers.
type Handler struct {
	store    *gtfs.Store
	groups   *groups.Client
	cfg      *config.Config
	logger   *slog.Logger
	validate *validator.Validate
	now      func() time.Time
}

// New creates a Handler.
func New(store *gtfs.Store, gc *groups.Client, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		store:    store,
		groups:   gc,
		cfg:      cfg,
		logger:   logger,
		validate: validator.New(),
		now:      func() time.Time { return time.Now().In(cfg.Location) },
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are gone at this point; nothing left to do for the client.
		h.logger.Error("encoding response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) writeMessage(w http.ResponseWriter, msg string) {
	h.writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

// writeGroupsError maps remote-configuration failures to HTTP statuses:
// lookup misses are 404, everything touching the network is 500.
func (h *Handler) writeGroupsError(w http.ResponseWriter, err error) {
	if errors.Is(err, groups.ErrUserNotFound) {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.logger.Error("remote configuration unavailable", "error", err)
	h.writeError(w, http.StatusInternalServerError, err.Error())
}
