package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	API       APIConfig
	S3        S3Config
	Schema    SchemaConfig
	Extractor ExtractorConfig
	Queue     QueueConfig
	Pipeline  PipelineConfig
	CORS      CORSConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// APIConfig holds settings for the external persistence gateway.
type APIConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	Token       string `mapstructure:"token"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// S3Config holds AWS S3 settings for the document object store.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// SchemaConfig holds settings for the extraction-config source. If URL is
// set the remote provider is used, otherwise Path.
type SchemaConfig struct {
	Path        string `mapstructure:"path"`
	URL         string `mapstructure:"url"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// ChatProviderConfig holds settings for a single model provider.
type ChatProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ExtractorConfig holds field-extractor settings with an optional
// secondary model provider.
type ExtractorConfig struct {
	Primary   ChatProviderConfig `mapstructure:"primary"`
	Secondary ChatProviderConfig `mapstructure:"secondary"`
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (e *ExtractorConfig) SecondaryConfig() *ChatProviderConfig {
	if e.Secondary.Provider != "" {
		return &e.Secondary
	}
	return nil
}

// QueueConfig holds extraction queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	Concurrency      int `mapstructure:"concurrency"`
}

// PipelineConfig holds per-document pipeline settings.
type PipelineConfig struct {
	TimeoutMins   int `mapstructure:"timeout_mins"`
	FetchRetries  int `mapstructure:"fetch_retries"`
	MinTextLength int `mapstructure:"min_text_length"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the INTAKEDOCS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INTAKEDOCS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// Persistence gateway defaults
	v.SetDefault("api.base_url", "http://localhost:4000/api/v1")
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout_secs", 30)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "intakedocs-uploads")
	v.SetDefault("s3.endpoint", "")

	// Extraction schema defaults
	v.SetDefault("schema.path", "config/extraction-config.json")
	v.SetDefault("schema.url", "")
	v.SetDefault("schema.timeout_secs", 10)

	// Extractor defaults
	v.SetDefault("extractor.primary.provider", "openai")
	v.SetDefault("extractor.primary.api_key", "")
	v.SetDefault("extractor.primary.default_model", "gpt-4o")
	v.SetDefault("extractor.primary.timeout_secs", 120)
	v.SetDefault("extractor.secondary.provider", "")
	v.SetDefault("extractor.secondary.api_key", "")
	v.SetDefault("extractor.secondary.default_model", "")
	v.SetDefault("extractor.secondary.timeout_secs", 120)

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 10)
	v.SetDefault("queue.concurrency", 5)

	// Pipeline defaults
	v.SetDefault("pipeline.timeout_mins", 10)
	v.SetDefault("pipeline.fetch_retries", 3)
	v.SetDefault("pipeline.min_text_length", 10)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                       "INTAKEDOCS_SERVER_PORT",
		"server.read_timeout":               "INTAKEDOCS_SERVER_READ_TIMEOUT",
		"server.write_timeout":              "INTAKEDOCS_SERVER_WRITE_TIMEOUT",
		"server.environment":                "INTAKEDOCS_SERVER_ENVIRONMENT",
		"api.base_url":                      "INTAKEDOCS_API_BASE_URL",
		"api.token":                         "INTAKEDOCS_API_TOKEN",
		"api.timeout_secs":                  "INTAKEDOCS_API_TIMEOUT_SECS",
		"s3.region":                         "INTAKEDOCS_S3_REGION",
		"s3.bucket":                         "INTAKEDOCS_S3_BUCKET",
		"s3.endpoint":                       "INTAKEDOCS_S3_ENDPOINT",
		"s3.access_key":                     "INTAKEDOCS_S3_ACCESS_KEY",
		"s3.secret_key":                     "INTAKEDOCS_S3_SECRET_KEY",
		"schema.path":                       "INTAKEDOCS_SCHEMA_PATH",
		"schema.url":                        "INTAKEDOCS_SCHEMA_URL",
		"schema.timeout_secs":               "INTAKEDOCS_SCHEMA_TIMEOUT_SECS",
		"extractor.primary.provider":        "INTAKEDOCS_EXTRACTOR_PRIMARY_PROVIDER",
		"extractor.primary.api_key":         "INTAKEDOCS_EXTRACTOR_PRIMARY_API_KEY",
		"extractor.primary.default_model":   "INTAKEDOCS_EXTRACTOR_PRIMARY_DEFAULT_MODEL",
		"extractor.primary.timeout_secs":    "INTAKEDOCS_EXTRACTOR_PRIMARY_TIMEOUT_SECS",
		"extractor.secondary.provider":      "INTAKEDOCS_EXTRACTOR_SECONDARY_PROVIDER",
		"extractor.secondary.api_key":       "INTAKEDOCS_EXTRACTOR_SECONDARY_API_KEY",
		"extractor.secondary.default_model": "INTAKEDOCS_EXTRACTOR_SECONDARY_DEFAULT_MODEL",
		"extractor.secondary.timeout_secs":  "INTAKEDOCS_EXTRACTOR_SECONDARY_TIMEOUT_SECS",
		"queue.poll_interval_secs":          "INTAKEDOCS_QUEUE_POLL_INTERVAL_SECS",
		"queue.concurrency":                 "INTAKEDOCS_QUEUE_CONCURRENCY",
		"pipeline.timeout_mins":             "INTAKEDOCS_PIPELINE_TIMEOUT_MINS",
		"pipeline.fetch_retries":            "INTAKEDOCS_PIPELINE_FETCH_RETRIES",
		"pipeline.min_text_length":          "INTAKEDOCS_PIPELINE_MIN_TEXT_LENGTH",
		"log.level":                         "INTAKEDOCS_LOG_LEVEL",
		"log.format":                        "INTAKEDOCS_LOG_FORMAT",
		"cors.allowed_origins":              "INTAKEDOCS_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if INTAKEDOCS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INTAKEDOCS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.API = APIConfig{
		BaseURL:     strings.TrimRight(v.GetString("api.base_url"), "/"),
		Token:       v.GetString("api.token"),
		TimeoutSecs: v.GetInt("api.timeout_secs"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Schema = SchemaConfig{
		Path:        v.GetString("schema.path"),
		URL:         v.GetString("schema.url"),
		TimeoutSecs: v.GetInt("schema.timeout_secs"),
	}
	cfg.Extractor = ExtractorConfig{
		Primary: ChatProviderConfig{
			Provider:     v.GetString("extractor.primary.provider"),
			APIKey:       v.GetString("extractor.primary.api_key"),
			DefaultModel: v.GetString("extractor.primary.default_model"),
			TimeoutSecs:  v.GetInt("extractor.primary.timeout_secs"),
		},
		Secondary: ChatProviderConfig{
			Provider:     v.GetString("extractor.secondary.provider"),
			APIKey:       v.GetString("extractor.secondary.api_key"),
			DefaultModel: v.GetString("extractor.secondary.default_model"),
			TimeoutSecs:  v.GetInt("extractor.secondary.timeout_secs"),
		},
	}
	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}
	cfg.Pipeline = PipelineConfig{
		TimeoutMins:   v.GetInt("pipeline.timeout_mins"),
		FetchRetries:  v.GetInt("pipeline.fetch_retries"),
		MinTextLength: v.GetInt("pipeline.min_text_length"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("api.base_url must be set")
	}

	return cfg, nil
}
