package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	LLM         LLMConfig       `toml:"llm"`
	Claude      ClaudeConfig    `toml:"claude"`
	Gemini      GeminiConfig    `toml:"gemini"`
	Search      SearchConfig    `toml:"search"`
	Analysis    AnalysisConfig  `toml:"analysis"`
	Retention   RetentionConfig `toml:"retention"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gt=0,lte=65535"`
	Host string `toml:"host" validate:"required"`
}

type StorageConfig struct {
	Badger     BadgerConfig `toml:"badger"`
	DataDir    string       `toml:"data_dir" validate:"required"`    // Temp upload directory
	OutputsDir string       `toml:"outputs_dir" validate:"required"` // Persisted analysis JSON files
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// LLMConfig selects and bounds the LLM provider shared by all pipeline stages
type LLMConfig struct {
	Provider          string `toml:"provider" validate:"oneof=claude gemini"`
	RequestsPerMinute int    `toml:"requests_per_minute" validate:"gt=0"` // Rate limit across all agent calls
	Timeout           string `toml:"timeout"`                             // Per-request timeout, e.g. "120s"
	MaxTurns          int    `toml:"max_turns" validate:"gt=0"`           // Max agent turns per pipeline stage
	MaxToolCalls      int    `toml:"max_tool_calls" validate:"gt=0"`      // Max tool calls per pipeline stage
}

type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float32 `toml:"temperature"`
}

type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float32 `toml:"temperature"`
}

// SearchConfig configures the Tavily web search collaborator
type SearchConfig struct {
	APIKey     string `toml:"api_key"`
	MaxResults int    `toml:"max_results" validate:"gt=0,lte=20"`
	Timeout    string `toml:"timeout"`
}

// AnalysisConfig configures the analyze endpoint behavior
type AnalysisConfig struct {
	DefaultQuery  string `toml:"default_query" validate:"required"`
	MaxUploadSize int64  `toml:"max_upload_size" validate:"gt=0"` // Bytes
}

// RetentionConfig controls cleanup of persisted analysis results.
// Output files accumulate indefinitely without it.
type RetentionConfig struct {
	Enabled  bool   `toml:"enabled"`
	MaxAge   string `toml:"max_age"`  // e.g. "168h" for 7 days
	Schedule string `toml:"schedule"` // Cron schedule format
}

// NewDefaultConfig returns a config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8000,
			Host: "0.0.0.0",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path:           "./data/argentum.db",
				ResetOnStartup: false,
			},
			DataDir:    "./data",
			OutputsDir: "./outputs",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
		LLM: LLMConfig{
			Provider:          "claude",
			RequestsPerMinute: 15,
			Timeout:           "120s",
			MaxTurns:          5,
			MaxToolCalls:      8,
		},
		Claude: ClaudeConfig{
			Model:       "claude-sonnet-4-20250514",
			MaxTokens:   8192,
			Temperature: 0.7,
		},
		Gemini: GeminiConfig{
			Model:       "gemini-2.0-flash",
			MaxTokens:   8192,
			Temperature: 0.7,
		},
		Search: SearchConfig{
			MaxResults: 5,
			Timeout:    "30s",
		},
		Analysis: AnalysisConfig{
			DefaultQuery:  "Analyze this financial document for investment insights",
			MaxUploadSize: 25 * 1024 * 1024,
		},
		Retention: RetentionConfig{
			Enabled:  true,
			MaxAge:   "168h",
			Schedule: "0 * * * *",
		},
	}
}

// LoadFromFile loads configuration from a single TOML file over defaults
func LoadFromFile(path string) (*Config, error) {
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration in layers: defaults, then each TOML file in
// order (later files override earlier ones), then environment variables.
// Missing files are an error; an empty path list yields defaults plus env.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies ARGENTUM_* environment variables over file values.
// Provider API keys also fall back to their vendors' conventional variables.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("ARGENTUM_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("ARGENTUM_SERVER_HOST"); v != "" {
		config.Server.Host = v
	}
	if v := os.Getenv("ARGENTUM_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("ARGENTUM_LLM_PROVIDER"); v != "" {
		config.LLM.Provider = v
	}
	if v := os.Getenv("ARGENTUM_CLAUDE_API_KEY"); v != "" {
		config.Claude.APIKey = v
	} else if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && config.Claude.APIKey == "" {
		config.Claude.APIKey = v
	}
	if v := os.Getenv("ARGENTUM_GEMINI_API_KEY"); v != "" {
		config.Gemini.APIKey = v
	} else if v := os.Getenv("GEMINI_API_KEY"); v != "" && config.Gemini.APIKey == "" {
		config.Gemini.APIKey = v
	}
	if v := os.Getenv("ARGENTUM_SEARCH_API_KEY"); v != "" {
		config.Search.APIKey = v
	} else if v := os.Getenv("TAVILY_API_KEY"); v != "" && config.Search.APIKey == "" {
		config.Search.APIKey = v
	}
	if v := os.Getenv("ARGENTUM_DATA_DIR"); v != "" {
		config.Storage.DataDir = v
	}
	if v := os.Getenv("ARGENTUM_OUTPUTS_DIR"); v != "" {
		config.Storage.OutputsDir = v
	}
}

// ApplyFlagOverrides applies command-line flag values (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks the configuration for structural and operational problems.
// Credentials for the active LLM provider are required here so a missing key
// fails at startup rather than mid-request.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	switch c.LLM.Provider {
	case "claude":
		if strings.TrimSpace(c.Claude.APIKey) == "" {
			return fmt.Errorf("Anthropic API key is required when llm.provider is 'claude' (set claude.api_key or ANTHROPIC_API_KEY)")
		}
	case "gemini":
		if strings.TrimSpace(c.Gemini.APIKey) == "" {
			return fmt.Errorf("Google API key is required when llm.provider is 'gemini' (set gemini.api_key or GEMINI_API_KEY)")
		}
	}

	if _, err := time.ParseDuration(c.LLM.Timeout); err != nil {
		return fmt.Errorf("invalid llm.timeout duration '%s': %w", c.LLM.Timeout, err)
	}
	if _, err := time.ParseDuration(c.Search.Timeout); err != nil {
		return fmt.Errorf("invalid search.timeout duration '%s': %w", c.Search.Timeout, err)
	}

	if c.Retention.Enabled {
		if _, err := time.ParseDuration(c.Retention.MaxAge); err != nil {
			return fmt.Errorf("invalid retention.max_age duration '%s': %w", c.Retention.MaxAge, err)
		}
		if _, err := cron.ParseStandard(c.Retention.Schedule); err != nil {
			return fmt.Errorf("invalid retention.schedule '%s': %w", c.Retention.Schedule, err)
		}
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Environment) == "production"
}
