// ABOUTME: Main entry point for the standalone docchat HTTP server
// ABOUTME: Wires config, LLM client, vector store, and the chi API server
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/harper/docchat/internal/config"
	"github.com/harper/docchat/internal/llm"
	"github.com/harper/docchat/internal/rag"
	"github.com/harper/docchat/internal/server"
	"github.com/harper/docchat/internal/vectorstore"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Println("Warning: OPENAI_API_KEY not set - ingestion and answering will not work")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	client, err := llm.NewClientWithConfig(
		llm.ConfigFromSettings(cfg.OpenAIKey, cfg.ChatModel, cfg.EmbeddingModel, cfg.Timeout))
	if err != nil {
		logger.Fatal("failed to create LLM client", zap.Error(err))
	}

	store, err := buildStore(cfg)
	if err != nil {
		logger.Fatal("failed to create vector store", zap.Error(err))
	}

	ingestor := rag.NewIngestor(client, store, cfg.MaxChunkLength, cfg.Concurrency)
	retriever := rag.NewRetriever(client, store, client, rag.RetrieverConfig{
		TopK:              cfg.TopK,
		ContextBudget:     cfg.ContextBudget,
		FallbackToContext: cfg.FallbackToContext,
	})

	srv := server.NewServer(ingestor, retriever, &cfg.Server, logger)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}
}

func buildStore(cfg *config.Config) (rag.VectorStore, error) {
	switch cfg.Store.Backend {
	case config.StoreMemory:
		return vectorstore.NewMemoryStore(), nil
	case config.StoreQdrant:
		return vectorstore.NewQdrantStore(vectorstore.QdrantConfig{
			URL:        cfg.Store.Qdrant.URL,
			APIKey:     cfg.QdrantAPIKey(),
			Collection: cfg.Store.Qdrant.Collection,
			Timeout:    time.Duration(cfg.Store.Qdrant.TimeoutSecs) * time.Second,
		}), nil
	case config.StoreCharmKV:
		return vectorstore.NewCharmStore(vectorstore.CharmConfig{
			Host:     cfg.Store.Charm.Host,
			DBName:   cfg.Store.Charm.DBName,
			AutoSync: cfg.Store.Charm.AutoSync,
		})
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}
