package config

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Locale binds a locale name to its navigation locale file.
type Locale struct {
	Name string // ex: "root", "en"
	File string // ex: "docs/.vitepress/pages/nav.json"
}

// SocialLink is an icon link shown in the site header.
type SocialLink struct {
	Icon string
	Link string
}

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Site
	Locales         []Locale      // locale files, sorted by name
	SiteTitle       string        // site title
	SiteDescription string        // site description
	SrcDir          string        // content directory relative to the site root
	SocialLinks     []SocialLink  // header icon links
	PrefixLinks     bool          // rewrite sidebar links as key + subDir + link (default: false)
	ReloadInterval  time.Duration // interval to reload locale files (default: 1h)
	Watch           bool          // reload on locale file change
	WatchDebounce   time.Duration // quiet period before a watched change triggers a reload
	GCInterval      time.Duration // interval to collect disabled snapshots (default: 24h)
	GCThreshold     time.Duration // how long a disabled snapshot is kept (default: 7d)

	// Redis (optional, empty address disables persistence)
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts
	RedisSnapshotTTL    time.Duration // TTL of stored snapshots

	// Access restrictions
	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict /reload, /infra and /metrics to specific IPs
	TrustProxy   bool     // true => trust X-Forwarded-For headers
	RateBurst    int      // per-IP burst on /api
	RatePerMin   int      // per-IP refill per minute on /api
}

// Load reads the configuration from the environment. Variables already set
// in the environment win over the ones found in the .env file.
func Load() *Config {
	envFile := getenv("SIDEBAR_ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		panic(fmt.Sprintf("❌ FATAL: failed to read env file %s: %v", envFile, err))
	}

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("SIDEBAR_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("SIDEBAR_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("SIDEBAR_LOG_LEVEL", "info"),
		PrettyLog: mustBool("SIDEBAR_PRETTY_LOG", true),

		// Site
		Locales:         mustLocales(requireEnv("SIDEBAR_LOCALES")),
		SiteTitle:       getenv("SIDEBAR_SITE_TITLE", "Fangbw"),
		SiteDescription: getenv("SIDEBAR_SITE_DESCRIPTION", "Fangbw"),
		SrcDir:          getenv("SIDEBAR_SRC_DIR", "./src"),
		SocialLinks:     parseSocialLinks(getenv("SIDEBAR_SOCIAL_LINKS", "")),
		PrefixLinks:     mustBool("SIDEBAR_PREFIX_LINKS", false),
		ReloadInterval:  mustPositiveDuration("SIDEBAR_RELOAD_INTERVAL", time.Hour),
		Watch:           mustBool("SIDEBAR_WATCH", false),
		WatchDebounce:   mustDuration("SIDEBAR_WATCH_DEBOUNCE", 500*time.Millisecond),
		GCInterval:      mustPositiveDuration("SIDEBAR_GC_INTERVAL", 24*time.Hour),
		GCThreshold:     mustDuration("SIDEBAR_GC_THRESHOLD", 7*24*time.Hour),

		// Redis settings
		RedisAddr:           getenv("SIDEBAR_REDIS_ADDR", ""),
		RedisUser:           getenv("SIDEBAR_REDIS_USERNAME", ""),
		RedisPassword:       getenv("SIDEBAR_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("SIDEBAR_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),
		RedisSnapshotTTL:    mustDuration("REDIS_SNAPSHOT_TTL", 7*24*time.Hour),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("SIDEBAR_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("SIDEBAR_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("SIDEBAR_TRUST_PROXY", false),
		RateBurst:    getenvInt("SIDEBAR_RATE_BURST", 60),
		RatePerMin:   getenvInt("SIDEBAR_RATE_PER_MIN", 120),
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// LocaleNames returns the configured locale names.
func (c *Config) LocaleNames() []string {
	names := make([]string, 0, len(c.Locales))
	for _, l := range c.Locales {
		names = append(names, l.Name)
	}
	return names
}

// RedisEnabled reports whether snapshots are persisted.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
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

// mustPositiveDuration is mustDuration for ticker intervals: zero or
// negative values fall back to def.
func mustPositiveDuration(key string, def time.Duration) time.Duration {
	if d := mustDuration(key, def); d > 0 {
		return d
	}
	return def
}

func mustLocales(raw string) []Locale {
	locales, err := ParseLocales(raw)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid SIDEBAR_LOCALES: %v", err))
	}
	return locales
}

// ParseLocales parses "name=file" pairs separated by commas.
// A bare file name is bound to the "root" locale.
// Example: "root=docs/nav.json, en=docs/en/nav.yaml"
func ParseLocales(raw string) ([]Locale, error) {
	seen := make(map[string]bool)
	var locales []Locale

	for _, part := range splitAndTrim(raw) {
		name, file, ok := strings.Cut(part, "=")
		if !ok {
			name, file = "root", part
		}
		name, file = strings.TrimSpace(name), strings.TrimSpace(file)
		if name == "" || file == "" {
			return nil, fmt.Errorf("malformed locale entry %q", part)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate locale %q", name)
		}
		seen[name] = true
		locales = append(locales, Locale{Name: name, File: file})
	}

	if len(locales) == 0 {
		return nil, fmt.Errorf("no locale configured")
	}

	sort.Slice(locales, func(i, j int) bool { return locales[i].Name < locales[j].Name })
	return locales, nil
}

// parseSocialLinks parses "icon=url" pairs separated by commas.
// Malformed entries are skipped.
func parseSocialLinks(raw string) []SocialLink {
	var links []SocialLink
	for _, part := range splitAndTrim(raw) {
		icon, link, ok := strings.Cut(part, "=")
		if !ok || icon == "" || link == "" {
			continue
		}
		links = append(links, SocialLink{Icon: strings.TrimSpace(icon), Link: strings.TrimSpace(link)})
	}
	return links
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
