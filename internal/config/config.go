// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider identifiers for the completion backend.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config holds all application configuration.
type Config struct {
	Port string

	Provider       string // "openai" or "ollama"
	OpenAIAPIKey   string
	OpenAIModel    string
	OpenAITimeout  time.Duration
	OllamaURL      string
	OllamaModel    string
	OllamaTimeout  time.Duration
	TelegramToken  string
	WhatsApp       WhatsAppConfig
	PersonaFacts   string // optional YAML file overriding the built-in fact table
	InteractionLog InteractionLogConfig
}

// WhatsAppConfig holds WhatsApp Cloud API settings.
type WhatsAppConfig struct {
	VerifyToken   string
	AccessToken   string
	PhoneNumberID string
	SendTimeout   time.Duration
}

// InteractionLogConfig controls the durable interaction log.
type InteractionLogConfig struct {
	Enabled   bool
	DBPath    string
	QueueSize int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	queueSize := getEnvInt("INTERACTION_LOG_QUEUE_SIZE", 256)
	if queueSize <= 0 {
		queueSize = 256
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Provider:      getEnv("LLM_PROVIDER", ProviderOpenAI),
		OpenAIAPIKey:  strings.TrimSpace(getEnv("OPENAI_API_KEY", "")),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAITimeout: getEnvDuration("OPENAI_TIMEOUT", 60*time.Second),
		OllamaURL:     getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "phi3"),
		OllamaTimeout: getEnvDuration("OLLAMA_TIMEOUT", 90*time.Second),
		TelegramToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		WhatsApp: WhatsAppConfig{
			VerifyToken:   getEnv("WHATSAPP_VERIFY_TOKEN", "verify-me"),
			AccessToken:   getEnv("WHATSAPP_ACCESS_TOKEN", ""),
			PhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
			SendTimeout:   getEnvDuration("WHATSAPP_SEND_TIMEOUT", 30*time.Second),
		},
		PersonaFacts: getEnv("PERSONA_FACTS_PATH", ""),
		InteractionLog: InteractionLogConfig{
			Enabled:   getEnvBool("INTERACTION_LOG_ENABLED", true),
			DBPath:    getEnv("INTERACTION_LOG_DB_PATH", "./data/interactions.db"),
			QueueSize: queueSize,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
	case ProviderOllama:
		if c.OllamaURL == "" {
			return fmt.Errorf("OLLAMA_URL cannot be empty when LLM_PROVIDER=ollama")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q (want %q or %q)", c.Provider, ProviderOpenAI, ProviderOllama)
	}
	if c.InteractionLog.Enabled && c.InteractionLog.DBPath == "" {
		return fmt.Errorf("INTERACTION_LOG_DB_PATH cannot be empty")
	}
	if c.InteractionLog.QueueSize <= 0 {
		return fmt.Errorf("INTERACTION_LOG_QUEUE_SIZE must be > 0")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
