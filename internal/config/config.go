package config

import (
	"os"
	"strings"
	"time"

	"book-reader/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	GatewayPort       string
	ServiceBaseURL    string
	StatePath         string
	LogLevel          string
	RequestTimeout    time.Duration
	UnrestrictedRoles []string
	AllowedOrigins    []string
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		GatewayPort:    getEnvOrDefault("PORT", getEnvOrDefault("GATEWAY_PORT", "8080")),
		ServiceBaseURL: getEnvOrDefault("LIBRARY_BASE_URL", "http://localhost:3000/api/v1"),
		StatePath:      getEnvOrDefault("READER_STATE_PATH", defaultStatePath()),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		RequestTimeout: getEnvDurationOrDefault("REQUEST_TIMEOUT", 15*time.Second),
		// Role names are service configuration, not structure; these match
		// the library's role table.
		UnrestrictedRoles: getEnvListOrDefault("READER_UNRESTRICTED_ROLES", []string{"admin", "super"}),
		AllowedOrigins: getEnvListOrDefault("ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}),
	}
}

// GetGatewayPort returns the local gateway listen port
func (c *AppConfig) GetGatewayPort() string {
	return c.GatewayPort
}

// GetServiceBaseURL returns the remote library service base URL
func (c *AppConfig) GetServiceBaseURL() string {
	return c.ServiceBaseURL
}

// GetStatePath returns the path of the local key-value state file
func (c *AppConfig) GetStatePath() string {
	return c.StatePath
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetRequestTimeout returns the per-request timeout for remote calls
func (c *AppConfig) GetRequestTimeout() time.Duration {
	return c.RequestTimeout
}

// GetUnrestrictedRoles returns the role names exempt from the preview cap
func (c *AppConfig) GetUnrestrictedRoles() []string {
	return c.UnrestrictedRoles
}

// GetAllowedOrigins returns the CORS origins allowed to use the gateway
func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".book-reader.json"
	}
	return home + string(os.PathSeparator) + ".book-reader.json"
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
