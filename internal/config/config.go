package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultMaxUploadSize is the largest image accepted for analysis (10 MiB)
const DefaultMaxUploadSize = 10 * 1024 * 1024

type Config struct {
	Host           string
	Port           string
	BackendURL     string
	RequestTimeout time.Duration
	MaxUploadSize  int64
	AlertDuration  time.Duration
	ResizeDebounce time.Duration
	ViewportWidth  int

	AzureAccountName string
	AzureAccountKey  string
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// AnalysisTimeout bounds one analysis: the upload and the history reload
// that follows it each get RequestTimeout.
func (c *Config) AnalysisTimeout() time.Duration {
	return 2 * c.RequestTimeout
}

// HasAzureCredentials reports whether blob references can be resolved
func (c *Config) HasAzureCredentials() bool {
	return c.AzureAccountName != "" && c.AzureAccountKey != ""
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:             getEnvOrDefault("HOST", "127.0.0.1"),
		Port:             getEnvOrDefault("PORT", "8080"),
		BackendURL:       getEnvOrDefault("BACKEND_URL", "http://localhost:5000"),
		RequestTimeout:   parseDurationOrDefault("REQUEST_TIMEOUT", 60*time.Second),
		MaxUploadSize:    parseIntOrDefault("MAX_UPLOAD_SIZE", DefaultMaxUploadSize),
		AlertDuration:    parseDurationOrDefault("ALERT_DURATION", 5*time.Second),
		ResizeDebounce:   parseDurationOrDefault("RESIZE_DEBOUNCE", 250*time.Millisecond),
		ViewportWidth:    int(parseIntOrDefault("VIEWPORT_WIDTH", 1200)),
		AzureAccountName: os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureAccountKey:  os.Getenv("AZURE_STORAGE_KEY"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants the rest of the program relies on
func (c *Config) Validate() error {
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	u, err := url.Parse(strings.TrimSpace(c.BackendURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid BACKEND_URL: %q", c.BackendURL)
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be > 0 (got %d)", c.MaxUploadSize)
	}
	if c.RequestTimeout <= 0 || c.AlertDuration <= 0 || c.ResizeDebounce <= 0 {
		return fmt.Errorf("durations must be > 0 (got request=%s, alert=%s, debounce=%s)",
			c.RequestTimeout, c.AlertDuration, c.ResizeDebounce)
	}
	if c.ViewportWidth <= 0 {
		return fmt.Errorf("VIEWPORT_WIDTH must be > 0 (got %d)", c.ViewportWidth)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
