package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port  string
	DBUrl string
	// Anthropic API configuration
	AnthropicAPIKey  string
	AnthropicBaseURL string
	AnthropicModel   string
	// SMTP Configuration (LAN relay or external provider)
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string
	SenderName    string
	// Owner profile summary interpolated into outreach / cover letter prompts
	OwnerBackground string
	// Path to the cached plain-text resume used for fit scoring
	ResumeCachePath string
	// Days without an update before an open opportunity counts as stale
	StaleDays int
}

func LoadConfig() (*Config, error) {
	// Load .env file (effective locally, ignored in production when absent)
	_ = godotenv.Load()

	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		DBUrl: getEnv("DATABASE_URL", ""),
		// Anthropic configuration
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicBaseURL: strings.TrimRight(getEnv("ANTHROPIC_BASE_URL", "https://api.anthropic.com/v1"), "/"),
		AnthropicModel:   getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		// SMTP configuration
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "25"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", ""),
		SenderName:    getEnv("SENDER_NAME", ""),
		// Prompt context
		OwnerBackground: getEnv("OWNER_BACKGROUND", ""),
		ResumeCachePath: getEnv("RESUME_CACHE_PATH", "resume_cache.txt"),
		// Scheduler defaults
		StaleDays: getEnvInt("STALE_DAYS", 7),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.AnthropicAPIKey == "" {
		log.Println("WARNING: ANTHROPIC_API_KEY not configured. AI endpoints will be unavailable.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
