// ABOUTME: Pipeline wiring shared by the ingest, ask, serve, and mcp commands
// ABOUTME: Builds the LLM client and selected vector store backend from config
package commands

import (
	"fmt"
	"time"

	"github.com/harper/docchat/internal/config"
	"github.com/harper/docchat/internal/llm"
	"github.com/harper/docchat/internal/rag"
	"github.com/harper/docchat/internal/vectorstore"
)

// buildStore creates the vector store backend selected in the config.
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

// buildClient creates the OpenAI client from resolved config.
func buildClient(cfg *config.Config) (*llm.Client, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	return llm.NewClientWithConfig(
		llm.ConfigFromSettings(cfg.OpenAIKey, cfg.ChatModel, cfg.EmbeddingModel, cfg.Timeout))
}

// buildPipelines wires the full ingestion and retrieval pipelines.
func buildPipelines(cfg *config.Config) (*rag.Ingestor, *rag.Retriever, error) {
	client, err := buildClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := buildStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	ingestor := rag.NewIngestor(client, store, cfg.MaxChunkLength, cfg.Concurrency)
	retriever := rag.NewRetriever(client, store, client, rag.RetrieverConfig{
		TopK:              cfg.TopK,
		ContextBudget:     cfg.ContextBudget,
		FallbackToContext: cfg.FallbackToContext,
	})
	return ingestor, retriever, nil
}
