// Package config загружает конфигурацию BFF из окружения.
// Поддерживается .env файл для локальной разработки.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
	RateLimit       int
	RateWindow      time.Duration
}

// GatewayConfig настройки исходящих вызовов к downstream сервисам
type GatewayConfig struct {
	TaskURL      string
	ProjectURL   string
	CalendarURL  string
	KnowledgeURL string
	NotifyURL    string
	Timeout      time.Duration
	MaxRetries   int
	TokenSecret  string
	TokenTTL     time.Duration
}

// StatusConfig настройки хранилища checkpoint'ов
type StatusConfig struct {
	Path string
	TTL  time.Duration
}

// AuditConfig настройки журнала синхронизаций
type AuditConfig struct {
	Path string
}

// LoggingConfig настройки логирования
type LoggingConfig struct {
	Level  string
	Format string
}

// Config корневая конфигурация сервиса
type Config struct {
	Server  ServerConfig
	Gateway GatewayConfig
	Status  StatusConfig
	Audit   AuditConfig
	Logging LoggingConfig
}

// Load читает конфигурацию из окружения. envFile, если указан,
// загружается первым; отсутствие файла по умолчанию не ошибка.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load() // .env в текущей директории опционален
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnvString("MOTA_SYNC_ADDR", ":8080"),
			ShutdownTimeout: getEnvDuration("MOTA_SYNC_SHUTDOWN_TIMEOUT", 10*time.Second),
			RateLimit:       getEnvInt("MOTA_SYNC_RATE_LIMIT", 120),
			RateWindow:      getEnvDuration("MOTA_SYNC_RATE_WINDOW", time.Minute),
		},
		Gateway: GatewayConfig{
			TaskURL:      getEnvString("MOTA_SYNC_TASK_SERVICE_URL", "http://task-service:8080"),
			ProjectURL:   getEnvString("MOTA_SYNC_PROJECT_SERVICE_URL", "http://project-service:8080"),
			CalendarURL:  getEnvString("MOTA_SYNC_CALENDAR_SERVICE_URL", "http://calendar-service:8080"),
			KnowledgeURL: getEnvString("MOTA_SYNC_KNOWLEDGE_SERVICE_URL", "http://knowledge-service:8080"),
			NotifyURL:    getEnvString("MOTA_SYNC_NOTIFY_SERVICE_URL", "http://notify-service:8080"),
			Timeout:      getEnvDuration("MOTA_SYNC_GATEWAY_TIMEOUT", 5*time.Second),
			MaxRetries:   getEnvInt("MOTA_SYNC_GATEWAY_MAX_RETRIES", 2),
			TokenSecret:  getEnvString("MOTA_SYNC_TOKEN_SECRET", ""),
			TokenTTL:     getEnvDuration("MOTA_SYNC_TOKEN_TTL", 5*time.Minute),
		},
		Status: StatusConfig{
			Path: getEnvString("MOTA_SYNC_STATUS_DB_PATH", "sync-status.db"),
			TTL:  getEnvDuration("MOTA_SYNC_STATUS_TTL", 24*time.Hour),
		},
		Audit: AuditConfig{
			Path: getEnvString("MOTA_SYNC_AUDIT_DB_PATH", "sync-audit.db"),
		},
		Logging: LoggingConfig{
			Level:  getEnvString("MOTA_SYNC_LOG_LEVEL", "info"),
			Format: getEnvString("MOTA_SYNC_LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Gateway.TokenSecret == "" {
		return fmt.Errorf("MOTA_SYNC_TOKEN_SECRET is required")
	}
	if c.Gateway.Timeout <= 0 {
		return fmt.Errorf("gateway timeout must be positive")
	}
	if c.Status.TTL <= 0 {
		return fmt.Errorf("status TTL must be positive")
	}

	format := strings.ToLower(c.Logging.Format)
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}

// ServiceURLs собирает карту base URL для gateway
func (c *Config) ServiceURLs() map[string]string {
	return map[string]string{
		"task":      c.Gateway.TaskURL,
		"project":   c.Gateway.ProjectURL,
		"calendar":  c.Gateway.CalendarURL,
		"knowledge": c.Gateway.KnowledgeURL,
		"notify":    c.Gateway.NotifyURL,
	}
}

// SlogLevel переводит строковый уровень в slog.Level
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// getEnvString returns a string from the environment variable
func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an int from the environment variable
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration returns a time.Duration from the environment variable
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
