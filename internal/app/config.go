package app

import (
	"strings"
	"time"

	"github.com/kidomigon/roomcompanion-backend/internal/inference"
	"github.com/kidomigon/roomcompanion-backend/internal/logger"
	"github.com/kidomigon/roomcompanion-backend/internal/utils"
)

type Config struct {
	Addr           string
	AllowedOrigins []string
	SecureCookie   bool
	SessionTTL     time.Duration
	RedisAddr      string
	Environment    string
	Version        string
	Providers      []inference.ProviderConfig
}

func LoadConfig(log *logger.Logger) Config {
	sessionTTLSeconds := utils.GetEnvAsInt("SESSION_TTL", 28800, log)

	originsRaw := utils.GetEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173", log)
	var origins []string
	for _, origin := range strings.Split(originsRaw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}

	return Config{
		Addr:           utils.GetEnv("SERVER_ADDR", ":8000", log),
		AllowedOrigins: origins,
		SecureCookie:   strings.EqualFold(utils.GetEnv("SECURE_COOKIES", "false", log), "true"),
		SessionTTL:     time.Duration(sessionTTLSeconds) * time.Second,
		RedisAddr:      utils.GetEnv("REDIS_ADDR", "", log),
		Environment:    utils.GetEnv("APP_ENV", "development", log),
		Version:        utils.GetEnv("APP_VERSION", "dev", log),
		Providers:      loadProviderConfigs(log),
	}
}

// loadProviderConfigs builds the failover chain in priority order. Both
// providers are always present; a missing key demotes the provider to a
// recorded skip rather than removing it from the chain.
func loadProviderConfigs(log *logger.Logger) []inference.ProviderConfig {
	groq := inference.ProviderConfig{
		Name:    "groq",
		BaseURL: utils.GetEnv("GROQ_BASE_URL", "https://api.groq.com/openai", log),
		APIKey:  utils.GetEnv("GROQ_API_KEY", "", log),
		Model:   utils.GetEnv("GROQ_MODEL", "llama-3.3-70b-versatile", log),
	}
	openrouter := inference.ProviderConfig{
		Name:    "openrouter",
		BaseURL: utils.GetEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api", log),
		APIKey:  utils.GetEnv("OPENROUTER_API_KEY", "", log),
		Model:   utils.GetEnv("OPENROUTER_MODEL", "meta-llama/llama-3.3-70b-instruct:free", log),
		ExtraHeaders: map[string]string{
			"HTTP-Referer": utils.GetEnv("OPENROUTER_REFERER", "http://localhost:8000", log),
			"X-Title":      "Room Companion",
		},
	}
	return []inference.ProviderConfig{groq, openrouter}
}
