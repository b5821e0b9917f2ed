// Package server provides the HTTP API for the codebase question answering
// service.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/faiqfarooq/codebase-rag/internal/config"
	"github.com/faiqfarooq/codebase-rag/internal/index"
	"github.com/faiqfarooq/codebase-rag/internal/ingest"
	"github.com/faiqfarooq/codebase-rag/internal/retrieval"
	"github.com/faiqfarooq/codebase-rag/internal/watcher"
)

// Server is the HTTP server exposing ingestion and chat endpoints.
type Server struct {
	ingestor   *ingest.Ingestor
	engine     *retrieval.Engine
	collection *index.Collection
	watch      *watcher.Watcher
	config     *config.ServerConfig
	logger     *zap.Logger
	metrics    *Metrics
	registry   *prometheus.Registry
	server     *http.Server
}

// NewServer creates a server with the given dependencies. watch may be nil
// when watch mode is disabled.
func NewServer(
	ingestor *ingest.Ingestor,
	engine *retrieval.Engine,
	collection *index.Collection,
	watch *watcher.Watcher,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	registry := prometheus.NewRegistry()
	return &Server{
		ingestor:   ingestor,
		engine:     engine,
		collection: collection,
		watch:      watch,
		config:     cfg,
		logger:     logger,
		metrics:    NewMetrics(registry),
		registry:   registry,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Post("/ingest", s.handleIngest)
	r.Post("/ingest/upload", s.handleIngestUpload)
	r.Post("/ingest/repo", s.handleIngestRepo)
	r.Post("/chat", s.handleChat)
	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
