// Package config provides application configuration with multi-source
// priority.
//
// Sources (highest to lowest):
//  1. Environment variables (LEBO_* prefix, plus DATABASE_URL and
//     GEMINI_API_KEY for parity with the deployment environment)
//  2. Config file (~/.lebo/config.yaml or ./config.yaml)
//  3. Defaults
//
// Missing database or model credentials are not fatal: chat degrades to a
// "not configured" response instead of crashing. Sensitive fields are
// masked in MarshalJSON.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Transport modes. Selection is a pure function of configuration; see
// the transport package.
const (
	ModeMock     = "mock"
	ModeBackend  = "backend"
	ModeFunction = "function"
)

// Defaults.
const (
	DefaultAddr           = "127.0.0.1:3000"
	DefaultModelName      = "googleai/gemini-1.5-flash"
	DefaultEmbedderModel  = "text-embedding-004"
	DefaultMatchThreshold = 0.5
	DefaultMatchCount     = 3
)

// Sentinel errors, checked with errors.Is.
var (
	// ErrInvalidMode indicates an unknown transport mode.
	ErrInvalidMode = errors.New("invalid transport mode")

	// ErrMissingBackendURL indicates backend mode without a backend URL.
	ErrMissingBackendURL = errors.New("missing backend URL")

	// ErrMissingFunctionURL indicates function mode without a function URL.
	ErrMissingFunctionURL = errors.New("missing function URL")

	// ErrInvalidMatchThreshold indicates the similarity threshold is out of range.
	ErrInvalidMatchThreshold = errors.New("invalid match threshold")

	// ErrInvalidMatchCount indicates the result cap is out of range.
	ErrInvalidMatchCount = errors.New("invalid match count")

	// ErrMissingDatabaseURL indicates DATABASE_URL is not set.
	ErrMissingDatabaseURL = errors.New("missing database URL")

	// ErrMissingAPIKey indicates GEMINI_API_KEY is not set.
	ErrMissingAPIKey = errors.New("missing Gemini API key")
)

// Config stores application configuration.
// SECURITY: sensitive fields are masked in MarshalJSON; update it when
// adding new secrets.
type Config struct {
	// Transport selection
	Mode        string `mapstructure:"mode" json:"mode"`
	BackendURL  string `mapstructure:"backend_url" json:"backend_url"`
	FunctionURL string `mapstructure:"function_url" json:"function_url"`
	FunctionKey string `mapstructure:"function_key" json:"function_key"` // SENSITIVE

	// Server
	Addr      string `mapstructure:"addr" json:"addr"`
	RateBurst int    `mapstructure:"rate_burst" json:"rate_burst"`

	// Backing services
	DatabaseURL  string `mapstructure:"database_url" json:"database_url"` // SENSITIVE
	GeminiAPIKey string `mapstructure:"gemini_api_key" json:"gemini_api_key"` // SENSITIVE

	// Models
	ModelName     string `mapstructure:"model_name" json:"model_name"`
	EmbedderModel string `mapstructure:"embedder_model" json:"embedder_model"`

	// Retrieval
	MatchThreshold float64 `mapstructure:"match_threshold" json:"match_threshold"`
	MatchCount     int     `mapstructure:"match_count" json:"match_count"`

	// Local session state database
	StatePath string `mapstructure:"state_path" json:"state_path"`
}

// Load loads configuration with env > file > defaults priority.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".lebo"))
	}
	v.AddConfigPath(".")

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine: defaults plus env carry us.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", ModeMock)
	v.SetDefault("addr", DefaultAddr)
	v.SetDefault("model_name", DefaultModelName)
	v.SetDefault("embedder_model", DefaultEmbedderModel)
	v.SetDefault("match_threshold", DefaultMatchThreshold)
	v.SetDefault("match_count", DefaultMatchCount)
	v.SetDefault("state_path", defaultStatePath())
}

func bindEnvVariables(v *viper.Viper) {
	v.SetEnvPrefix("LEBO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Deployment-environment names used by the hosted backend.
	_ = v.BindEnv("database_url", "LEBO_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("gemini_api_key", "LEBO_GEMINI_API_KEY", "GEMINI_API_KEY")
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".lebo", "state.db")
	}
	return filepath.Join(home, ".lebo", "state.db")
}

// ChatConfigured reports whether the RAG pipeline has the credentials it
// needs. When false the chat endpoint answers 503 instead of failing.
func (c *Config) ChatConfigured() bool {
	return c.DatabaseURL != "" && c.GeminiAPIKey != ""
}

// MarshalJSON masks sensitive fields so configs can be logged safely.
func (c *Config) MarshalJSON() ([]byte, error) {
	type alias Config
	masked := alias(*c)
	if masked.DatabaseURL != "" {
		masked.DatabaseURL = "***"
	}
	if masked.GeminiAPIKey != "" {
		masked.GeminiAPIKey = "***"
	}
	if masked.FunctionKey != "" {
		masked.FunctionKey = "***"
	}
	return json.Marshal(masked)
}
