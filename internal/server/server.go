package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"buspredictor/internal/config"
	"buspredictor/internal/handler"
)

// Server is the HTTP server for the bus predictor API.
type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a Server with all routes registered.
func New(cfg *config.Config, h *handler.Handler, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/config", h.Config)
	mux.HandleFunc("GET /api/nearest", h.Nearest)
	mux.HandleFunc("GET /api/bus/{group}", h.BusSchedules)

	return &Server{mux: mux, cfg: cfg, logger: logger}
}

// Handler returns the server's handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return withMiddleware(s.mux, s.logger)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.logger.Info("server starting", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}
