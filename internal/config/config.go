package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	HTTPAddr    string   `toml:"http_addr"`
	GinMode     string   `toml:"gin_mode"`
	LogLevel    string   `toml:"log_level"`
	CORSOrigins []string `toml:"cors_origins"`

	// storage
	DBDriver string `toml:"db_driver"`
	DBDSN    string `toml:"db_dsn"`

	// AI provider
	AIProvider           string `toml:"ai_provider"`
	OllamaBaseURL        string `toml:"ollama_base_url"`
	OllamaTimeoutSeconds int    `toml:"ollama_timeout_seconds"`
	OpenRouterBaseURL    string `toml:"openrouter_base_url"`
	OpenRouterAPIKey     string `toml:"openrouter_api_key"`
	OpenRouterSiteURL    string `toml:"openrouter_site_url"`
	OpenRouterAppName    string `toml:"openrouter_app_name"`

	// redis history cache, disabled when RedisAddr is empty
	RedisAddr              string `toml:"redis_addr"`
	RedisPassword          string `toml:"redis_password"`
	RedisDB                int    `toml:"redis_db"`
	HistoryCacheTTLSeconds int    `toml:"history_cache_ttl_seconds"`

	// rabbitMQ message events, disabled when RabbitURL is empty
	RabbitURL   string `toml:"rabbit_url"`
	RabbitQueue string `toml:"rabbit_queue"`
}

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Load builds the config from defaults, an optional TOML file (CONFIG_FILE)
// and finally environment variables.
func Load() (Config, error) {
	cfg := defaults()

	path := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config file %s: %w", path, err)
		}
	}

	overrideByEnv(&cfg)

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	switch cfg.DBDriver {
	case DriverSQLite, DriverMySQL:
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER=%q", cfg.DBDriver)
	}
	if cfg.DBDSN == "" {
		if cfg.DBDriver == DriverMySQL {
			// DSN demo：
			// app:apppass@tcp(127.0.0.1:3306)/ai_assistant?charset=utf8mb4&parseTime=true&loc=Local
			cfg.DBDSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
				"app", "apppass", "127.0.0.1", "3306", "ai_assistant",
			)
		} else {
			cfg.DBDSN = "data/assistant.db"
		}
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		HTTPAddr:    "0.0.0.0:8000",
		GinMode:     "release",
		LogLevel:    "info",
		CORSOrigins: []string{"*"},

		DBDriver: DriverSQLite,

		AIProvider:        "ollama",
		OllamaBaseURL:     "http://localhost:11434",
		OpenRouterBaseURL: "https://openrouter.ai/api/v1",

		HistoryCacheTTLSeconds: 60,

		RabbitQueue: "chat_message_events",
	}
}

func overrideByEnv(cfg *Config) {
	cfg.HTTPAddr = getEnv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.GinMode = getEnv("GIN_MODE", cfg.GinMode)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DBDSN = getEnv("DB_DSN", cfg.DBDSN)
	// DB_PATH is kept for sqlite deployments configured the old way
	if v := os.Getenv("DB_PATH"); v != "" && os.Getenv("DB_DSN") == "" {
		cfg.DBDSN = v
	}

	cfg.AIProvider = getEnv("AI_PROVIDER", cfg.AIProvider)
	cfg.OllamaBaseURL = getEnv("OLLAMA_BASE_URL", cfg.OllamaBaseURL)
	cfg.OllamaTimeoutSeconds = getEnvAsInt("OLLAMA_TIMEOUT_SECONDS", cfg.OllamaTimeoutSeconds)
	cfg.OpenRouterBaseURL = getEnv("OPENROUTER_BASE_URL", cfg.OpenRouterBaseURL)
	cfg.OpenRouterAPIKey = getEnv("OPENROUTER_API_KEY", cfg.OpenRouterAPIKey)
	cfg.OpenRouterSiteURL = getEnv("OPENROUTER_SITE_URL", cfg.OpenRouterSiteURL)
	cfg.OpenRouterAppName = getEnv("OPENROUTER_APP_NAME", cfg.OpenRouterAppName)

	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getEnvAsInt("REDIS_DB", cfg.RedisDB)
	cfg.HistoryCacheTTLSeconds = getEnvAsInt("HISTORY_CACHE_TTL_SECONDS", cfg.HistoryCacheTTLSeconds)

	cfg.RabbitURL = getEnv("RABBIT_URL", cfg.RabbitURL)
	cfg.RabbitQueue = getEnv("RABBIT_QUEUE", cfg.RabbitQueue)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
