// Package config loads eventscout configuration from the environment,
// optionally overridden by a YAML config file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported LLM / embedding providers.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderBedrock   = "bedrock"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection
	SurrealDBURL       string `yaml:"surrealdb_url"`
	SurrealDBNamespace string `yaml:"surrealdb_namespace"`
	SurrealDBDatabase  string `yaml:"surrealdb_database"`
	SurrealDBUser      string `yaml:"surrealdb_user"`
	SurrealDBPass      string `yaml:"surrealdb_pass"`
	SurrealDBAuthLevel string `yaml:"surrealdb_auth_level"`

	// Chat generation
	ChatProvider string  `yaml:"chat_provider"`
	ChatModel    string  `yaml:"chat_model"`
	Temperature  float64 `yaml:"temperature"`
	MaxTokens    int     `yaml:"max_tokens"`

	// Embeddings
	EmbedProvider  string `yaml:"embed_provider"`
	EmbedModel     string `yaml:"embed_model"`
	EmbedDimension int    `yaml:"embed_dimension"`

	// Provider endpoints / credentials
	OllamaHost      string `yaml:"ollama_host"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`

	// Retrieval
	ResultLimit int `yaml:"result_limit"`

	// Server
	ServerPort string `yaml:"server_port"`

	// Logging
	LogFile  string     `yaml:"log_file"`
	LogLevel slog.Level `yaml:"-"`
}

// Load reads configuration from environment variables. If EVENTSCOUT_CONFIG
// points at a YAML file, its values override the environment.
func Load() (Config, error) {
	cfg := Config{
		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "eventscout"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "events"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		ChatProvider: getEnv("EVENTSCOUT_CHAT_PROVIDER", ProviderOllama),
		ChatModel:    getEnv("EVENTSCOUT_CHAT_MODEL", "llama3.2"),
		Temperature:  getEnvFloat("EVENTSCOUT_TEMPERATURE", 0.3),
		MaxTokens:    getEnvInt("EVENTSCOUT_MAX_TOKENS", 1024),

		EmbedProvider:  getEnv("EVENTSCOUT_EMBED_PROVIDER", ProviderOllama),
		EmbedModel:     getEnv("EVENTSCOUT_EMBED_MODEL", "all-minilm:l6-v2"),
		EmbedDimension: getEnvInt("EVENTSCOUT_EMBED_DIMENSION", 384),

		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),

		ResultLimit: getEnvInt("EVENTSCOUT_RESULT_LIMIT", 5),

		ServerPort: getEnv("EVENTSCOUT_SERVER_PORT", "8585"),

		LogFile:  getEnv("EVENTSCOUT_LOG_FILE", "/tmp/eventscout.log"),
		LogLevel: parseLogLevel(getEnv("EVENTSCOUT_LOG_LEVEL", "INFO")),
	}

	if path := os.Getenv("EVENTSCOUT_CONFIG"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return cfg, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	return cfg, nil
}

// applyFile overlays values from a YAML file onto cfg. Only keys present in
// the file are touched.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Decode into a copy of the current config so unset keys keep their
	// environment-derived values.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	var raw struct {
		LogLevel string `yaml:"log_level"`
	}
	if err := yaml.Unmarshal(data, &raw); err == nil && raw.LogLevel != "" {
		cfg.LogLevel = parseLogLevel(raw.LogLevel)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
