package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	// HTTP server
	ListenAddr string

	// Target site
	TargetBaseURL string

	// Browser session
	Headless     bool
	UserAgent    string
	ProxyServers []string

	// Scrape engine
	MaxCardsPerScenario int
	BaseTimeOffset      time.Duration
	NavigationTimeout   time.Duration
	SelectorTimeout     time.Duration
	ClickTimeout        time.Duration
	DetailWaitTimeout   time.Duration
	DetailSettleWait    time.Duration
	ExtractRetryBackoff time.Duration
	ExtractMaxAttempts  int

	// Redis publisher (disabled when RedisAddr is empty)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache throttle cache (disabled when MemcacheAddr is empty)
	MemcacheAddr string
	BlockTime    time.Duration

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	maxCards, _ := strconv.Atoi(getEnv("MAX_CARDS_PER_SCENARIO", "5"))
	offsetHours, _ := strconv.Atoi(getEnv("BASE_TIME_OFFSET_HOURS", "2"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	blockSeconds, _ := strconv.Atoi(getEnv("BLOCK_SECONDS", "300"))
	retryAttempts, _ := strconv.Atoi(getEnv("EXTRACT_MAX_ATTEMPTS", "2"))

	var proxies []string
	if raw := getEnv("PROXY_SERVERS", ""); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				proxies = append(proxies, p)
			}
		}
	}

	return Config{
		ListenAddr:    getEnv("LISTEN_ADDR", ":3000"),
		TargetBaseURL: getEnv("TARGET_BASE_URL", "https://drive.yango.com"),

		Headless:     getEnv("HEADLESS", "true") != "false",
		UserAgent:    getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"),
		ProxyServers: proxies,

		MaxCardsPerScenario: maxCards,
		BaseTimeOffset:      time.Duration(offsetHours) * time.Hour,
		NavigationTimeout:   durationEnv("NAVIGATION_TIMEOUT_MS", 5000),
		SelectorTimeout:     durationEnv("SELECTOR_TIMEOUT_MS", 5000),
		ClickTimeout:        durationEnv("CLICK_TIMEOUT_MS", 3000),
		DetailWaitTimeout:   durationEnv("DETAIL_WAIT_TIMEOUT_MS", 3000),
		DetailSettleWait:    durationEnv("DETAIL_SETTLE_WAIT_MS", 2000),
		ExtractRetryBackoff: durationEnv("EXTRACT_RETRY_BACKOFF_MS", 2000),
		ExtractMaxAttempts:  retryAttempts,

		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "listings"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLen,

		MemcacheAddr: getEnv("MEMCACHE_ADDR", ""),
		BlockTime:    time.Duration(blockSeconds) * time.Second,

		Environment: getEnv("RENTAL_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the engine cannot run with
func (c *Config) Validate() error {
	if c.TargetBaseURL == "" {
		return fmt.Errorf("TARGET_BASE_URL must not be empty")
	}
	if c.MaxCardsPerScenario <= 0 {
		return fmt.Errorf("MAX_CARDS_PER_SCENARIO must be positive, got %d", c.MaxCardsPerScenario)
	}
	if c.ExtractMaxAttempts <= 0 {
		return fmt.Errorf("EXTRACT_MAX_ATTEMPTS must be positive, got %d", c.ExtractMaxAttempts)
	}
	if c.NavigationTimeout <= 0 || c.SelectorTimeout <= 0 {
		return fmt.Errorf("navigation and selector timeouts must be positive")
	}
	if c.BaseTimeOffset < 0 {
		return fmt.Errorf("BASE_TIME_OFFSET_HOURS must not be negative")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// durationEnv reads a millisecond env value with a default
func durationEnv(key string, defaultMs int) time.Duration {
	ms, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultMs)))
	if err != nil || ms <= 0 {
		ms = defaultMs
	}
	return time.Duration(ms) * time.Millisecond
}
