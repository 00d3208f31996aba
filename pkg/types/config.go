// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// GeneratorProvider identifies the text-generation backend.
type GeneratorProvider string

const (
	ProviderOpenAI    GeneratorProvider = "openai"
	ProviderDashScope GeneratorProvider = "dashscope"
)

// StoreConfig holds settings for the cache database.
type StoreConfig struct {
	// DBPath is the SQLite database file (default "faker-news.db").
	DBPath string `json:"db" yaml:"db"`
}

// GeneratorConfig holds settings for the generation backend.
type GeneratorConfig struct {
	// Provider selects the backend: openai or dashscope.
	Provider GeneratorProvider `json:"provider" yaml:"provider"`

	// Model is the chat model identifier. Empty selects the provider default
	// (gpt-4o-mini for openai, qwen-plus for dashscope).
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the provider API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the provider endpoint (e.g. a proxy, or the
	// DashScope OpenAI-compatible endpoint).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// PoolConfig holds the replenishment thresholds for the pool manager.
type PoolConfig struct {
	// MinHeadlines is the unused-headline floor below which a fetch triggers
	// a replenishment batch (default 5).
	MinHeadlines int `json:"min_headlines" yaml:"min_headlines"`

	// HeadlineBatch is how many headlines one replenishment requests (default 10).
	HeadlineBatch int `json:"headline_batch" yaml:"headline_batch"`

	// WordTarget is the default article length in words (default 500).
	WordTarget int `json:"word_target" yaml:"word_target"`
}

// Config groups all component configurations.
type Config struct {
	Store     StoreConfig     `json:"store" yaml:"store"`
	Generator GeneratorConfig `json:"generator" yaml:"generator"`
	Pool      PoolConfig      `json:"pool" yaml:"pool"`
}

// WithDefaults returns cfg with zero-valued fields replaced by defaults.
func (c PoolConfig) WithDefaults() PoolConfig {
	if c.MinHeadlines <= 0 {
		c.MinHeadlines = 5
	}
	if c.HeadlineBatch <= 0 {
		c.HeadlineBatch = 10
	}
	if c.WordTarget <= 0 {
		c.WordTarget = 500
	}
	return c
}
