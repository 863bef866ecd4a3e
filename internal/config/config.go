package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	PlatformFile   string        // path to platforms.yaml (optional, empty = builtins only)
	FallbackURL    string        // last-resort URL when a plan has no usable web destination
	ReloadInterval time.Duration // interval to reload platforms.yaml (default: 24h)
	GCInterval     time.Duration // interval to sweep finished sessions (default: 1m)
	AllowedDomains []string      // allowed domain suffixes for /go redirects (derived from AllowedHosts)

	// Engine timings
	MobileWindow  time.Duration // detection window on mobile (default: 1s)
	DesktopWindow time.Duration // detection window on desktop (default: 500ms)
	BlurGrace     time.Duration // blur debounce before re-checking visibility (default: 200ms)
	SafetyMargin  time.Duration // safety timer slack past the window (default: 300ms)
	SessionTTL    time.Duration // how long finished sessions stay queryable (default: 5m)
	PresentChoice bool          // true => chooser on exhaustion, false => direct web navigation
	PlanCacheTTL  time.Duration // TTL for cached candidate plans in Redis (default: 1h)

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 5.6.7.8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("APPLINK_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("APPLINK_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("APPLINK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("APPLINK_PRETTY_LOG", true),

		// Platform registry
		PlatformFile:   getenv("APPLINK_PLATFORM_FILE", ""), // Optional, empty = builtins only
		FallbackURL:    requireEnv("APPLINK_FALLBACK_URL"),
		ReloadInterval: mustDuration("APPLINK_RELOAD_SOURCE_INTERVAL", 24*time.Hour),
		GCInterval:     mustDuration("APPLINK_GC_INTERVAL", time.Minute),
		AllowedDomains: extractDomains(requireEnvSlice("APPLINK_ALLOWED_HOSTS")),

		// Engine timings
		MobileWindow:  mustDuration("APPLINK_MOBILE_WINDOW", time.Second),
		DesktopWindow: mustDuration("APPLINK_DESKTOP_WINDOW", 500*time.Millisecond),
		BlurGrace:     mustDuration("APPLINK_BLUR_GRACE", 200*time.Millisecond),
		SafetyMargin:  mustDuration("APPLINK_SAFETY_MARGIN", 300*time.Millisecond),
		SessionTTL:    mustDuration("APPLINK_SESSION_TTL", 5*time.Minute),
		PresentChoice: mustBool("APPLINK_PRESENT_CHOICE", false),
		PlanCacheTTL:  mustDuration("APPLINK_PLAN_CACHE_TTL", time.Hour),

		// Redis settings
		RedisAddr:             requireEnv("APPLINK_REDIS_ADDR"),
		RedisUser:             getenv("APPLINK_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("APPLINK_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("APPLINK_REDIS_PASSWORD", ""),
		RedisDB:               requireEnvInt("APPLINK_REDIS_DB"),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: requireEnvSlice("APPLINK_ALLOWED_HOSTS"),
		AllowedCIDRS: parseAllowedIPs(getenv("APPLINK_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("APPLINK_TRUST_PROXY", true),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: APPLINK_REDIS_PASSWORD is required when APPLINK_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func requireEnvSlice(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return splitAndTrim(v)
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

// extractDomains extracts domain suffixes from allowed hosts for redirect validation.
// Examples: "links.domain.ext" -> ["domain.ext", "links.domain.ext"]
//
//	"10.70.80.2:8080" -> ["10.70.80.2:8080"] (IP addresses kept as-is)
func extractDomains(hosts []string) []string {
	if len(hosts) == 0 {
		return nil
	}

	domains := make([]string, 0, len(hosts)*2)
	seen := make(map[string]bool)

	for _, host := range hosts {
		// Remove port if present
		hostWithoutPort := host
		if idx := strings.LastIndex(host, ":"); idx != -1 {
			// Check if it's actually a port (not IPv6)
			if !strings.Contains(host[:idx], "]:") {
				hostWithoutPort = host[:idx]
			}
		}

		// Add the full host
		if !seen[hostWithoutPort] {
			domains = append(domains, hostWithoutPort)
			seen[hostWithoutPort] = true
		}

		// Extract domain suffix (everything after first dot)
		parts := strings.Split(hostWithoutPort, ".")
		if len(parts) >= 2 {
			// Add domain suffix (e.g., "domain.ext")
			domainSuffix := strings.Join(parts[1:], ".")
			if !seen[domainSuffix] {
				domains = append(domains, domainSuffix)
				seen[domainSuffix] = true
			}
		}
	}

	return domains
}
