// ABOUTME: Centralized configuration for the docchat pipeline and its surfaces
// ABOUTME: Loads from environment variables with an optional yaml file overlay
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backend names accepted in StoreConfig.Backend.
const (
	StoreMemory  = "memory"
	StoreQdrant  = "qdrant"
	StoreCharmKV = "charmkv"
)

// Config holds all configuration for docchat
type Config struct {
	// OpenAI settings
	OpenAIKey      string        `yaml:"-"` // only ever read from the environment
	ChatModel      string        `yaml:"chat_model"`
	EmbeddingModel string        `yaml:"embedding_model"`
	Timeout        time.Duration `yaml:"timeout"`

	// Pipeline settings
	MaxChunkLength    int  `yaml:"max_chunk_length"`
	Concurrency       int  `yaml:"concurrency"`
	TopK              int  `yaml:"top_k"`
	ContextBudget     int  `yaml:"context_budget"`
	FallbackToContext bool `yaml:"fallback_to_context"`

	Store  StoreConfig  `yaml:"store"`
	Server ServerConfig `yaml:"server"`
}

// StoreConfig selects and configures the vector store backend.
type StoreConfig struct {
	Backend string       `yaml:"backend"`
	Qdrant  QdrantConfig `yaml:"qdrant"`
	Charm   CharmConfig  `yaml:"charm"`
}

// QdrantConfig holds Qdrant connection settings. The API key is looked
// up through APIKeyEnv so the yaml file never carries a secret.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// CharmConfig holds Charm KV settings.
type CharmConfig struct {
	Host     string `yaml:"host"`
	DBName   string `yaml:"db_name"`
	AutoSync bool   `yaml:"auto_sync"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	UploadDir string `yaml:"upload_dir"`
}

// Load reads configuration from environment variables, then overlays the
// yaml file named by DOCCHAT_CONFIG (or ./config.yaml when present).
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		ChatModel:         getEnv("DOCCHAT_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel:    getEnv("DOCCHAT_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:           getEnvDuration("DOCCHAT_TIMEOUT", 30*time.Second),
		MaxChunkLength:    getEnvInt("DOCCHAT_MAX_CHUNK", 500),
		Concurrency:       getEnvInt("DOCCHAT_CONCURRENCY", 4),
		TopK:              getEnvInt("DOCCHAT_TOP_K", 5),
		ContextBudget:     getEnvInt("DOCCHAT_CONTEXT_BUDGET", 2000),
		FallbackToContext: getEnvBool("DOCCHAT_FALLBACK_CONTEXT", false),
		Store: StoreConfig{
			Backend: getEnv("DOCCHAT_STORE", StoreMemory),
			Qdrant: QdrantConfig{
				URL:         getEnv("QDRANT_URL", "http://localhost:6333"),
				APIKeyEnv:   "QDRANT_API_KEY",
				Collection:  getEnv("QDRANT_COLLECTION", "docchat"),
				TimeoutSecs: 15,
			},
			Charm: CharmConfig{
				Host:     getEnv("CHARM_HOST", "cloud.charm.sh"),
				DBName:   getEnv("CHARM_DB", "docchat"),
				AutoSync: getEnvBool("CHARM_AUTO_SYNC", true),
			},
		},
		Server: ServerConfig{
			Host:      getEnv("DOCCHAT_HOST", "0.0.0.0"),
			Port:      getEnvInt("DOCCHAT_PORT", 8080),
			UploadDir: getEnv("DOCCHAT_UPLOAD_DIR", "uploads"),
		},
	}

	path := os.Getenv("DOCCHAT_CONFIG")
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	if path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	return cfg, cfg.Validate()
}

// overlayFile merges yaml settings over the current values.
func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s does not exist", path)
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// QdrantAPIKey resolves the Qdrant API key from the configured env var.
func (c *Config) QdrantAPIKey() string {
	if c.Store.Qdrant.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Store.Qdrant.APIKeyEnv)
}

func (c *Config) Validate() error {
	if c.MaxChunkLength <= 0 {
		return fmt.Errorf("DOCCHAT_MAX_CHUNK must be positive, got %d", c.MaxChunkLength)
	}
	if c.Concurrency < 1 || c.Concurrency > 64 {
		return fmt.Errorf("DOCCHAT_CONCURRENCY must be 1-64, got %d", c.Concurrency)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("DOCCHAT_TOP_K must be positive, got %d", c.TopK)
	}
	if c.ContextBudget <= 0 {
		return fmt.Errorf("DOCCHAT_CONTEXT_BUDGET must be positive, got %d", c.ContextBudget)
	}
	switch c.Store.Backend {
	case StoreMemory, StoreQdrant, StoreCharmKV:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("DOCCHAT_PORT must be 1-65535, got %d", c.Server.Port)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
