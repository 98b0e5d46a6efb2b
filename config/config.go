package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Scoring  ScoringConfig
	OpenAI   OpenAIConfig
	Gemini   GeminiConfig
	Remote   RemoteConfig
	Detector DetectorConfig
	Catalog  CatalogConfig
	Cache    CacheConfig
	Store    StoreConfig
	Archive  ArchiveConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ScoringConfig selects the freshness scorer and bounds its calls
type ScoringConfig struct {
	Provider           string        `mapstructure:"provider"` // "openai", "gemini", "remote" or "demo"
	Timeout            time.Duration `mapstructure:"timeout"`
	RateLimitPerMinute int           `mapstructure:"rate_limit_per_minute"`
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// RemoteConfig points at an external scoring backend speaking the /api/analyze contract
type RemoteConfig struct {
	URL string `mapstructure:"url"`
}

// DetectorConfig configures the simulated keyword detector
type DetectorConfig struct {
	Seed int64 `mapstructure:"seed"` // 0 seeds from the clock
}

// CatalogConfig points at an optional inventory file replacing the embedded sample
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// StoreConfig selects where confirmed ESL updates and pricing rules go
type StoreConfig struct {
	Type        string `mapstructure:"type"` // "memory" or "postgres"
	DatabaseURL string `mapstructure:"database_url"`
}

// ArchiveConfig holds S3-compatible image archive configuration
type ArchiveConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/smartsave/")

	// SMARTSAVE_SERVER_PORT -> server.port
	v.SetEnvPrefix("SMARTSAVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Provider keys also accept the provider's conventional variable names
	if err := v.BindEnv("openai.api_key", "SMARTSAVE_OPENAI_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("error binding openai.api_key: %w", err)
	}
	if err := v.BindEnv("gemini.api_key", "SMARTSAVE_GEMINI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("error binding gemini.api_key: %w", err)
	}

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the process environment. Variables that are
// already set win over the file.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values. Every key gets a default so
// AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("log.level", "info")

	v.SetDefault("scoring.provider", "openai")
	v.SetDefault("scoring.timeout", "60s")
	v.SetDefault("scoring.rate_limit_per_minute", 60)

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("openai.max_tokens", 500)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")

	v.SetDefault("remote.url", "http://localhost:3000/api/analyze")

	v.SetDefault("detector.seed", 0)

	v.SetDefault("catalog.path", "")

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "6h")

	v.SetDefault("store.type", "memory")
	v.SetDefault("store.database_url", "")

	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.endpoint", "")
	v.SetDefault("archive.access_key", "")
	v.SetDefault("archive.secret_key", "")
	v.SetDefault("archive.bucket", "freshness-images")
	v.SetDefault("archive.region", "us-east-1")
	v.SetDefault("archive.use_ssl", true)
}

// validate validates the configuration. Provider credentials are not checked
// here: a missing key fails the individual scoring request instead.
func validate(config *Config) error {
	switch config.Scoring.Provider {
	case "openai", "gemini", "demo":
	case "remote":
		if config.Remote.URL == "" {
			return fmt.Errorf("remote scoring URL is required when provider is 'remote' (set SMARTSAVE_REMOTE_URL)")
		}
	default:
		return fmt.Errorf("scoring provider must be 'openai', 'gemini', 'remote' or 'demo', got: %s", config.Scoring.Provider)
	}

	if config.Scoring.Timeout <= 0 {
		return fmt.Errorf("scoring timeout must be positive, got: %s", config.Scoring.Timeout)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Store.Type != "memory" && config.Store.Type != "postgres" {
		return fmt.Errorf("store type must be 'memory' or 'postgres', got: %s", config.Store.Type)
	}

	if config.Store.Type == "postgres" && config.Store.DatabaseURL == "" {
		return fmt.Errorf("database URL is required when store type is 'postgres'")
	}

	if config.Archive.Enabled && (config.Archive.Endpoint == "" || config.Archive.Bucket == "") {
		return fmt.Errorf("archive endpoint and bucket are required when the image archive is enabled")
	}

	return nil
}
