// Package config loads the gateway's immutable configuration: service
// addresses, TTLs, CORS origins, and the lexicons/weights/thresholds that
// drive the NLP, behavior, and scoring engines.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the full, immutable application configuration. It is built once
// at startup and passed by reference to every component; nothing mutates it
// afterward.
type Config struct {
	Port      int    `mapstructure:"port"`
	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`

	ScrapeURL      string `mapstructure:"scrape-url"`
	MaxReviews     int    `mapstructure:"max-reviews"`
	RequestTimeout time.Duration

	CacheBackend    string `mapstructure:"cache-backend"`
	RedisAddr       string `mapstructure:"redis-addr"`
	DefaultTTLDays  int    `mapstructure:"default-ttl-days"`
	CORSOrigins     []string
	CORSOriginsCSV  string `mapstructure:"cors-origins"`
	RateLimitWindow time.Duration
	RateLimitRPM    int `mapstructure:"rate-limit-rpm"`

	Weights    Weights
	Thresholds Thresholds
	Lexicons   Lexicons
}

// New builds a Config from defaults, an optional config file, and
// environment variables prefixed REVIEWTRUST_, in that order of precedence
// (env overrides file overrides default).
func New() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", 8080)
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "console")
	v.SetDefault("scrape-url", "")
	v.SetDefault("max-reviews", 2000)
	v.SetDefault("cache-backend", "memory")
	v.SetDefault("redis-addr", "localhost:6379")
	v.SetDefault("default-ttl-days", 7)
	v.SetDefault("cors-origins", "*")
	v.SetDefault("rate-limit-rpm", 10)

	pflag.Int("port", 8080, "HTTP listen port")
	pflag.String("log-level", "info", "Logging level (debug, info, warn, error)")
	pflag.String("log-format", "console", "Log format (console, json)")
	pflag.String("scrape-url", "", "Upstream ReviewSource endpoint; empty uses the mock source")
	pflag.Int("max-reviews", 2000, "Maximum reviews accepted per analyze request")
	pflag.String("cache-backend", "memory", "ReportStore backend (memory, redis)")
	pflag.String("redis-addr", "localhost:6379", "Redis address when cache-backend=redis")
	pflag.Int("default-ttl-days", 7, "Default report cache TTL in days")
	pflag.String("cors-origins", "*", "Comma-separated allowed CORS origins")
	pflag.Int("rate-limit-rpm", 10, "Requests per 60s window per client identity")
	pflag.String("config-file", "", "Path to a JSON/YAML config file. Can also be set with REVIEWTRUST_CONFIG_FILE.")
	pflag.Parse()
	if err := v.BindPFlags(pflag.CommandLine); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	v.SetEnvPrefix("REVIEWTRUST")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile := v.GetString("config-file"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.CORSOrigins = splitCSV(v.GetString("cors-origins"))
	cfg.RateLimitWindow = 60 * time.Second
	if cfg.ScrapeURL != "" {
		cfg.RequestTimeout = 120 * time.Second
	} else {
		cfg.RequestTimeout = 30 * time.Second
	}

	cfg.Weights = defaultWeights()
	cfg.Thresholds = defaultThresholds()
	cfg.Lexicons = defaultLexicons()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks invariants that must hold before the gateway starts.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d, must be between 1 and 65535", c.Port)
	}
	validLevels := []string{"debug", "info", "warn", "error"}
	ok := false
	for _, l := range validLevels {
		if c.LogLevel == l {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("invalid log-level: %s, must be one of %v", c.LogLevel, validLevels)
	}
	if c.CacheBackend != "memory" && c.CacheBackend != "redis" {
		return fmt.Errorf("invalid cache-backend: %s, must be memory or redis", c.CacheBackend)
	}
	if c.MaxReviews <= 0 {
		return fmt.Errorf("invalid max-reviews: %d, must be positive", c.MaxReviews)
	}
	if c.DefaultTTLDays <= 0 {
		return fmt.Errorf("invalid default-ttl-days: %d, must be positive", c.DefaultTTLDays)
	}
	return nil
}
