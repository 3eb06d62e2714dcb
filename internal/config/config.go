// Package config loads the stock cache server configuration.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the stock cache server.
type Config struct {
	// HTTP surface
	Port      int    `mapstructure:"port"`
	APIPrefix string `mapstructure:"api_prefix"`

	// Redis backs both the response cache and the request throttle
	RedisHost     string `mapstructure:"redis_host"`
	RedisPort     int    `mapstructure:"redis_port"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	LogLevel  string `mapstructure:"log_level"`
	LogPretty bool   `mapstructure:"log_pretty"`

	// Upstream endpoints (configurable for testing)
	VCIBaseURL        string        `mapstructure:"vci_base_url"`
	VCIGraphQLURL     string        `mapstructure:"vci_graphql_url"`
	TCBSBaseURL       string        `mapstructure:"tcbs_base_url"`
	UpstreamTimeout   time.Duration `mapstructure:"upstream_timeout"`
	UpstreamRateLimit float64       `mapstructure:"upstream_rate_limit"`

	ThrottleLimit  int           `mapstructure:"throttle_limit"`
	ThrottleWindow time.Duration `mapstructure:"throttle_window"`

	// IndustrySource is "vci" or "tcbs"
	IndustrySource string `mapstructure:"industry_source"`
}

var defaults = map[string]any{
	"port":                3001,
	"api_prefix":          "api",
	"redis_host":          "localhost",
	"redis_port":          6379,
	"redis_password":      "",
	"redis_db":            0,
	"log_level":           "info",
	"log_pretty":          false,
	"vci_base_url":        "https://trading.vietcap.com.vn/api",
	"vci_graphql_url":     "https://trading.vietcap.com.vn/data-mt/graphql",
	"tcbs_base_url":       "https://apipubaws.tcbs.com.vn/tcanalysis/v1",
	"upstream_timeout":    30 * time.Second,
	"upstream_rate_limit": 5.0,
	"throttle_limit":      20,
	"throttle_window":     time.Minute,
	"industry_source":     "vci",
}

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory or $HOME/.vnstock-cache.
// Environment variables take precedence over config file values.
//
// Recognised environment variables:
//   - PORT, API_PREFIX
//   - REDIS_HOST, REDIS_PORT, REDIS_PASSWORD, REDIS_DB
//   - LOG_LEVEL, LOG_PRETTY
//   - VCI_BASE_URL, VCI_GRAPHQL_URL, TCBS_BASE_URL
//   - UPSTREAM_TIMEOUT, UPSTREAM_RATE_LIMIT
//   - THROTTLE_LIMIT, THROTTLE_WINDOW
//   - INDUSTRY_SOURCE
func Load() (*Config, error) {
	v := viper.New()

	// Every key has a default so AutomaticEnv is visible to Unmarshal
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.vnstock-cache")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.APIPrefix = strings.Trim(cfg.APIPrefix, "/")
	cfg.IndustrySource = strings.ToLower(strings.TrimSpace(cfg.IndustrySource))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Port < 1 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT %d out of range", c.Port))
	}
	if c.RedisPort < 1 || c.RedisPort > 65535 {
		problems = append(problems, fmt.Sprintf("REDIS_PORT %d out of range", c.RedisPort))
	}
	if c.RedisHost == "" {
		problems = append(problems, "REDIS_HOST is empty")
	}
	if c.RedisDB < 0 {
		problems = append(problems, fmt.Sprintf("REDIS_DB %d is negative", c.RedisDB))
	}
	switch c.IndustrySource {
	case "vci", "tcbs":
	default:
		problems = append(problems, fmt.Sprintf("INDUSTRY_SOURCE %q (use: vci, tcbs)", c.IndustrySource))
	}
	if c.UpstreamTimeout <= 0 {
		problems = append(problems, "UPSTREAM_TIMEOUT must be positive")
	}
	if c.UpstreamRateLimit < 0 {
		problems = append(problems, "UPSTREAM_RATE_LIMIT is negative")
	}
	if c.ThrottleLimit <= 0 {
		problems = append(problems, "THROTTLE_LIMIT must be positive")
	}
	if c.ThrottleWindow <= 0 {
		problems = append(problems, "THROTTLE_WINDOW must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// RedisAddr returns the host:port of the Redis server.
func (c *Config) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, strconv.Itoa(c.RedisPort))
}

// ListenAddr returns the address the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return ":" + strconv.Itoa(c.Port)
}
