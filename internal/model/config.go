package model

import "time"

// Config is the complete runtime configuration.
// Values come from (highest to lowest priority): CLI flags, JDSORT_* env
// vars, the config file, and DefaultConfig.
type Config struct {
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Classifier   ClassifierConfig   `yaml:"classifier" mapstructure:"classifier"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Logging      LoggingConfig      `yaml:"logging" mapstructure:"logging"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// LLMConfig selects and configures the inference backend
type LLMConfig struct {
	Provider   string `yaml:"provider" mapstructure:"provider"` // ollama, openai, anthropic; empty defers to settings
	Model      string `yaml:"model" mapstructure:"model"`
	APIKey     string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL    string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout    int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens  int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// ClassifierConfig controls the backend lifecycle and classify deadlines
type ClassifierConfig struct {
	LaunchCommand   string        `yaml:"launch_command" mapstructure:"launch_command"`
	LaunchArgs      []string      `yaml:"launch_args" mapstructure:"launch_args"`
	GracePeriod     time.Duration `yaml:"grace_period" mapstructure:"grace_period"`
	ProbeTimeout    time.Duration `yaml:"probe_timeout" mapstructure:"probe_timeout"`
	ClassifyTimeout time.Duration `yaml:"classify_timeout" mapstructure:"classify_timeout"`
}

// CacheConfig configures the suggestion cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// StoreConfig locates the SQLite database
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ConcurrencyConfig bounds batch classification
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig throttles outbound inference requests per backend
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// LoggingConfig configures the zap logger
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // console, json
}

// OutputConfig controls CLI rendering
type OutputConfig struct {
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
	Format  string `yaml:"format" mapstructure:"format"` // table, json, yaml
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		// Provider and model left empty defer to the stored ai_provider and
		// ai_model settings, then to the provider's own defaults
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 500,
		},
		Classifier: ClassifierConfig{
			LaunchCommand:   "ollama",
			LaunchArgs:      []string{"serve"},
			GracePeriod:     3 * time.Second,
			ProbeTimeout:    5 * time.Second,
			ClassifyTimeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "~/.jdsort/cache",
			MemoryTTL: time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Store: StoreConfig{
			Path: "~/.jdsort/jdsort.db",
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Output: OutputConfig{
			Format: "table",
		},
	}
}
