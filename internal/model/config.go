package model

import "time"

// RosterURL is the reference page listing all MPs to process
const RosterURL = "https://en.wikipedia.org/wiki/List_of_MPs_elected_in_the_2024_United_Kingdom_general_election"

// Config holds the complete runtime configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" json:"http"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" json:"rate_limit"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Robots      RobotsConfig      `yaml:"robots" json:"robots"`
	LLM         LLMConfig         `yaml:"llm" json:"llm"`
	Checkpoint  CheckpointConfig  `yaml:"checkpoint" json:"checkpoint"`
	Output      OutputConfig      `yaml:"output" json:"output"`
}

// HTTPConfig controls the fetcher
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`               // Per-request timeout
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`         // User-Agent header
	MaxBodyBytes int64         `yaml:"max_body_bytes" json:"max_body_bytes"` // Response body read limit
	MaxRetries   int           `yaml:"max_retries" json:"max_retries"`       // Retries on transient fetch errors
}

// ConcurrencyConfig controls the worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" json:"workers"` // Concurrent extraction workers
}

// RateLimitConfig controls per-domain request pacing
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst"`
}

// CacheConfig controls the layered page cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	Dir       string        `yaml:"dir" json:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" json:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" json:"disk_ttl"`
}

// RobotsConfig controls robots.txt compliance checks
type RobotsConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// LLMConfig configures the relation-extraction provider
type LLMConfig struct {
	Provider  string `yaml:"provider" json:"provider"` // "openai"
	Model     string `yaml:"model" json:"model"`
	APIKey    string `yaml:"-" json:"-"` // Never persisted; comes from env
	BaseURL   string `yaml:"base_url" json:"base_url"`
	Timeout   int    `yaml:"timeout" json:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" json:"max_tokens"`
}

// CheckpointConfig names the on-disk resume files
type CheckpointConfig struct {
	Dir           string `yaml:"dir" json:"dir"`
	RosterFile    string `yaml:"roster_file" json:"roster_file"`
	RelationsFile string `yaml:"relations_file" json:"relations_file"`
}

// OutputConfig controls final outputs
type OutputConfig struct {
	CSVPath string `yaml:"csv_path" json:"csv_path"`
	Verbose bool   `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Lineage/0.1 (+https://github.com/ppiankov/lineage)",
			MaxBodyBytes: 4_000_000,
			MaxRetries:   2,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 12,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 4,
			Burst:             4,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".lineage-cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Robots: RobotsConfig{
			Enabled: true,
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o",
			Timeout:   60,
			MaxTokens: 1000,
		},
		Checkpoint: CheckpointConfig{
			Dir:           ".",
			RosterFile:    "legislators.json",
			RelationsFile: "legislator_relations.json",
		},
		Output: OutputConfig{
			CSVPath: "legislator_relations.csv",
		},
	}
}
