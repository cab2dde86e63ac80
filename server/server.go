package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yourusername/s3-file-exporter/logger"
)

// Server exposes the registry over HTTP
type Server struct {
	server *http.Server
	log    *logger.Logger
}

// New creates a server listening on addr that serves gatherer at path
func New(addr, path string, gatherer prometheus.Gatherer, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}

	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           Handler(path, gatherer),
			ReadHeaderTimeout: 30 * time.Second,
			ReadTimeout:       60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		log: log,
	}
}

// Handler returns the HTTP routes of the exporter.
// No write timeout is set on the server: a scrape blocks until the listing pass completes.
func Handler(path string, gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("/health", healthHandler)
	return mux
}

// ListenAndServe blocks until the server stops. A clean shutdown returns nil.
func (s *Server) ListenAndServe() error {
	s.log.Infof("Starting server on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy","service":"s3-file-exporter"}`))
}
