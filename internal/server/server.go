// ABOUTME: HTTP server exposing document upload and chat endpoints over chi
// ABOUTME: Wires injected pipeline dependencies into a versioned JSON API
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/harper/docchat/internal/config"
	"github.com/harper/docchat/internal/rag"
)

// Ingestor indexes a document so it becomes retrievable.
type Ingestor interface {
	Ingest(ctx context.Context, sourceID, text string) (*rag.IngestResult, error)
}

// Answerer answers a question against the indexed corpus.
type Answerer interface {
	Answer(ctx context.Context, question string) (*rag.AnswerResult, error)
}

// Server is the HTTP server for the document chat API.
type Server struct {
	ingestor Ingestor
	answerer Answerer
	config   *config.ServerConfig
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(ingestor Ingestor, answerer Answerer, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	return &Server{
		ingestor: ingestor,
		answerer: answerer,
		config:   cfg,
		logger:   logger,
	}
}

// Handler builds the chi router with all routes and middleware attached.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Post("/api/v1/documents", s.handleUploadDocument)
	r.Post("/api/v1/chat", s.handleChat)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
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
