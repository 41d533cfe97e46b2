// Package config handles application configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Upstream catalog API
	APIBaseURL     string
	PageSize       int
	RequestTimeout time.Duration
	UserAgent      string

	// Pacing between upstream requests. Tunable but never zeroed out in
	// production: the upstream throttles aggressive crawlers.
	DetailDelay time.Duration
	PageDelay   time.Duration

	// MaxPages caps how many listing pages a single run may walk.
	// 0 means no cap beyond the upstream's own totalPages.
	MaxPages int

	// Store settings
	RedisURL     string
	CachePreload bool

	// Transport settings
	Proxy     string
	UTLSHosts []string

	// Logging
	LogLevel string
	LogJSON  bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		APIBaseURL:     getEnvString("API_BASE_URL", "https://phimapi.com"),
		PageSize:       getEnvInt("PAGE_SIZE", 3),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		UserAgent:      getEnvString("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/114.0.0.0 Safari/537.36"),
		DetailDelay:    getEnvDuration("DETAIL_DELAY", 2*time.Second),
		PageDelay:      getEnvDuration("PAGE_DELAY", 1*time.Second),
		MaxPages:       getEnvInt("MAX_PAGES", 0),
		RedisURL:       getEnvString("REDIS_URL", "redis://localhost:6379/0"),
		CachePreload:   getEnvBool("CACHE_PRELOAD", true),
		Proxy:          os.Getenv("PROXY"),
		UTLSHosts:      getEnvStringSlice("UTLS_HOSTS", nil),
		LogLevel:       getEnvString("LOG_LEVEL", "info"),
		LogJSON:        getEnvBool("LOG_JSON", false),
	}
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return strings.ToLower(val) == "true" || val == "1"
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		// Try parsing as seconds first
		if secs, err := strconv.Atoi(val); err == nil {
			return time.Duration(secs) * time.Second
		}
		// Try parsing as duration string
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvStringSlice(key string, defaultVal []string) []string {
	if val := os.Getenv(key); val != "" {
		parts := strings.Split(val, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return defaultVal
}
