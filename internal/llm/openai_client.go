// ABOUTME: OpenAI client providing the Embedder and Generator capabilities
// ABOUTME: Uses text-embedding-3-small for embeddings, gpt-4o-mini for answers (configurable)
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/harper/docchat/internal/rag"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the default model for answer generation
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = openai.SmallEmbedding3
	// DefaultTimeout bounds each remote call
	DefaultTimeout = 30 * time.Second
)

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey         string
	BaseURL        string // optional, for OpenAI-compatible endpoints
	ChatModel      string
	EmbeddingModel openai.EmbeddingModel
	Timeout        time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	chatModel := os.Getenv("DOCCHAT_CHAT_MODEL")
	if chatModel == "" {
		chatModel = DefaultChatModel
	}
	embeddingModel := openai.EmbeddingModel(os.Getenv("DOCCHAT_EMBEDDING_MODEL"))
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}

	return &ClientConfig{
		APIKey:         apiKey,
		ChatModel:      chatModel,
		EmbeddingModel: embeddingModel,
		Timeout:        DefaultTimeout,
	}
}

// ConfigFromSettings merges explicit settings over the defaults. Empty
// or zero settings keep the default value.
func ConfigFromSettings(apiKey, chatModel, embeddingModel string, timeout time.Duration) *ClientConfig {
	cfg := DefaultConfig(apiKey)
	if chatModel != "" {
		cfg.ChatModel = chatModel
	}
	if embeddingModel != "" {
		cfg.EmbeddingModel = openai.EmbeddingModel(embeddingModel)
	}
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	return cfg
}

// Client wraps the OpenAI API for embeddings and answer generation. It
// performs no retries: the pipelines treat every call as a single
// attempt and retry policy belongs to the caller.
type Client struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	timeout        time.Duration
}

// NewClient creates a client with the default configuration
func NewClient(apiKey string) (*Client, error) {
	return NewClientWithConfig(DefaultConfig(apiKey))
}

// NewClientWithConfig creates a client with custom configuration
func NewClientWithConfig(config *ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	apiConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		apiConfig.BaseURL = config.BaseURL
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		client:         openai.NewClientWithConfig(apiConfig),
		chatModel:      config.ChatModel,
		embeddingModel: config.EmbeddingModel,
		timeout:        timeout,
	}, nil
}

// Embed converts text into an embedding vector. The vector dimension is
// fixed by the configured embedding model.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, rag.ErrEmptyInput
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: c.embeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", rag.ErrEmbeddingUnavailable, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: no embeddings returned", rag.ErrEmbeddingUnavailable)
	}

	// Convert []float32 to []float64
	embedding32 := resp.Data[0].Embedding
	embedding64 := make([]float64, len(embedding32))
	for i, v := range embedding32 {
		embedding64[i] = float64(v)
	}
	return embedding64, nil
}

// Generate asks the chat model for an answer grounded in contextText.
// The instruction constrains the model to the supplied context; grounding
// is not verified here, only that context was supplied.
func (c *Client) Generate(ctx context.Context, instruction, contextText, question string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	userPrompt := fmt.Sprintf("Context:\n%s\n\nQuestion:\n%s", contextText, question)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: instruction,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", rag.ErrGenerationUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no completion choices returned", rag.ErrGenerationUnavailable)
	}

	return resp.Choices[0].Message.Content, nil
}
