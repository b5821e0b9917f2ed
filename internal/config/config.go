// Package config provides configuration loading and structs for the codebase-rag server.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Index     IndexConfig     `yaml:"index"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Watch     WatchConfig     `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// IngestConfig holds file discovery and chunking settings.
type IngestConfig struct {
	Extensions    []string `yaml:"extensions"`
	ChunkSize     int      `yaml:"chunk_size"`
	ChunkOverlap  int      `yaml:"chunk_overlap"`
	PreviewLength int      `yaml:"preview_length"`
}

// IndexConfig holds vector collection settings.
type IndexConfig struct {
	// Backend is "memory" (embedding cosine) or "bleve" (keyword match).
	Backend    string `yaml:"backend"`
	Collection string `yaml:"collection"`
	TopK       int    `yaml:"top_k"`
}

// EmbeddingConfig holds embedder settings for the memory index backend.
type EmbeddingConfig struct {
	// Provider is "hash" (local, deterministic) or "openai" (HTTP).
	Provider       string `yaml:"provider"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"api_key"`
	Dimensions     int    `yaml:"dimensions"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ProfileConfig holds one LLM backend profile.
type ProfileConfig struct {
	BaseURL        string  `yaml:"base_url"`
	Model          string  `yaml:"model"`
	APIKey         string  `yaml:"api_key"`
	Temperature    float64 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// LLMConfig holds the two generation backend profiles.
type LLMConfig struct {
	Deepseek ProfileConfig `yaml:"deepseek"`
	OpenAI   ProfileConfig `yaml:"openai"`
}

// WatchConfig holds the optional re-ingest watcher settings.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMS int  `yaml:"debounce_ms"`
}

// Load reads and parses the config file at path and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a config with only defaults applied, for running without a file.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// ApplyEnv overlays environment variables onto cfg. A .env file in the working
// directory is loaded first when present (missing file is not an error).
// Recognized variables: DEEPSEEK_API_KEY, DEEPSEEK_API_BASE, OPENAI_API_KEY,
// BACKEND_PORT. Values already set in the config file win over the environment
// only for non-secret fields; API keys from the environment always fill empty
// config values.
func ApplyEnv(cfg *Config) {
	_ = godotenv.Load()

	if cfg.LLM.Deepseek.APIKey == "" {
		cfg.LLM.Deepseek.APIKey = os.Getenv("DEEPSEEK_API_KEY")
	}
	if v := os.Getenv("DEEPSEEK_API_BASE"); v != "" && cfg.LLM.Deepseek.BaseURL == defaultDeepseekBaseURL {
		cfg.LLM.Deepseek.BaseURL = v
	}
	if cfg.LLM.OpenAI.APIKey == "" {
		cfg.LLM.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if v := os.Getenv("BACKEND_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}
