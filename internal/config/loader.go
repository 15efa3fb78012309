package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envBindings maps config keys to the environment variable names the
// deployment already uses.
var envBindings = map[string]string{
	"server.port":              "PORT",
	"server.base_url":          "BASE_URL",
	"server.secure_cookies":    "SECURE_COOKIES",
	"server.allowed_origins":   "ALLOWED_ORIGINS",
	"server.shutdown_grace":    "SHUTDOWN_GRACE",
	"database.url":             "DB_URL",
	"database.max_connections": "DB_MAX_CONNECTIONS",
	"database.max_idle":        "DB_MAX_IDLE",
	"redis.address":            "REDIS_ADDR",
	"redis.password":           "REDIS_PASSWORD",
	"redis.db":                 "REDIS_DB",
	"redis.session_ttl":        "SESSION_TTL",
	"gemini.provider":          "AI_PROVIDER",
	"gemini.api_key":           "GOOGLE_API_KEY",
	"gemini.analysis_model":    "ANALYSIS_MODEL",
	"gemini.chat_model":        "CHAT_MODEL",
	"gemini.pipeline_mode":     "PIPELINE_MODE",
	"gemini.request_timeout":   "AI_REQUEST_TIMEOUT",
	"r2.account_id":            "R2_ACCCOUNT_ID",
	"r2.bucket":                "R2_BUCKET",
	"r2.access_key":            "R2_ACCESS_KEY",
	"r2.secret_key":            "R2_SECRET_KEY",
	"rabbitmq.url":             "RABBITMQ_URL",
	"rabbitmq.exchange":        "RABBITMQ_EXCHANGE",
	"google.client_id":         "GOOGLE_CLIENT_ID",
	"google.client_secret":     "GOOGLE_CLIENT_SECRET",
	"google.redirect_url":      "GOOGLE_REDIRECT_URI",
	"log.level":                "LOG_LEVEL",
	"log.format":               "LOG_FORMAT",
}

// Load reads .env, an optional config.yaml and the environment, in that
// order of increasing precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	normalize(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.secure_cookies", false)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.shutdown_grace", 10*time.Second)
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.max_idle", 5)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.session_ttl", 7*24*time.Hour)
	v.SetDefault("gemini.provider", "gemini")
	v.SetDefault("gemini.analysis_model", "gemini-2.5-flash")
	v.SetDefault("gemini.chat_model", "gemini-2.5-flash")
	v.SetDefault("gemini.pipeline_mode", "single")
	v.SetDefault("gemini.request_timeout", 60*time.Second)
	v.SetDefault("rabbitmq.exchange", "score_updates")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

func normalize(cfg *Config) {
	cfg.Gemini.Provider = strings.ToLower(strings.TrimSpace(cfg.Gemini.Provider))
	cfg.Gemini.PipelineMode = strings.ToLower(strings.TrimSpace(cfg.Gemini.PipelineMode))
	if cfg.Google.RedirectURL == "" && cfg.Server.BaseURL != "" {
		cfg.Google.RedirectURL = strings.TrimSuffix(cfg.Server.BaseURL, "/") + "/auth/google/callback"
	}
}

// Validate reports every missing or malformed required setting at once.
func (c *Config) Validate() error {
	var problems []string
	if c.Database.URL == "" {
		problems = append(problems, "empty DB_URL")
	}
	if c.Redis.Address == "" {
		problems = append(problems, "empty REDIS_ADDR")
	}
	switch c.Gemini.Provider {
	case "gemini":
		if c.Gemini.APIKey == "" {
			problems = append(problems, "empty GOOGLE_API_KEY")
		}
	case "mock":
	default:
		problems = append(problems, fmt.Sprintf("unknown AI_PROVIDER %q", c.Gemini.Provider))
	}
	switch c.Gemini.PipelineMode {
	case "single", "staged":
	default:
		problems = append(problems, fmt.Sprintf("unknown PIPELINE_MODE %q", c.Gemini.PipelineMode))
	}
	if c.Redis.SessionTTL <= 0 {
		problems = append(problems, "SESSION_TTL must be positive")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
