package config

const (
	defaultDeepseekBaseURL = "https://api.deepseek.com/v1"
	defaultOpenAIBaseURL   = "https://api.openai.com/v1"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Ingest.Extensions == nil {
		cfg.Ingest.Extensions = []string{".js", ".ts", ".tsx", ".jsx", ".py"}
	}
	if cfg.Ingest.ChunkSize == 0 {
		cfg.Ingest.ChunkSize = 1000
	}
	if cfg.Ingest.ChunkOverlap == 0 {
		cfg.Ingest.ChunkOverlap = 200
	}
	if cfg.Ingest.PreviewLength == 0 {
		cfg.Ingest.PreviewLength = 200
	}
	if cfg.Index.Backend == "" {
		cfg.Index.Backend = "memory"
	}
	if cfg.Index.Collection == "" {
		cfg.Index.Collection = "codebase"
	}
	if cfg.Index.TopK == 0 {
		cfg.Index.TopK = 5
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "hash"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 256
	}
	if cfg.Embedding.TimeoutSeconds == 0 {
		cfg.Embedding.TimeoutSeconds = 30
	}
	if cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = defaultOpenAIBaseURL
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.LLM.Deepseek.BaseURL == "" {
		cfg.LLM.Deepseek.BaseURL = defaultDeepseekBaseURL
	}
	if cfg.LLM.Deepseek.Model == "" {
		cfg.LLM.Deepseek.Model = "deepseek-chat"
	}
	if cfg.LLM.Deepseek.Temperature == 0 {
		cfg.LLM.Deepseek.Temperature = 0.7
	}
	if cfg.LLM.Deepseek.TimeoutSeconds == 0 {
		cfg.LLM.Deepseek.TimeoutSeconds = 120
	}
	if cfg.LLM.OpenAI.BaseURL == "" {
		cfg.LLM.OpenAI.BaseURL = defaultOpenAIBaseURL
	}
	if cfg.LLM.OpenAI.Model == "" {
		cfg.LLM.OpenAI.Model = "gpt-4o-mini"
	}
	if cfg.LLM.OpenAI.Temperature == 0 {
		cfg.LLM.OpenAI.Temperature = 0.7
	}
	if cfg.LLM.OpenAI.TimeoutSeconds == 0 {
		cfg.LLM.OpenAI.TimeoutSeconds = 120
	}
	if cfg.Watch.DebounceMS == 0 {
		cfg.Watch.DebounceMS = 500
	}
}
