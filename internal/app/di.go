// Package app declares the object graph of the stock cache server.
// The Provide* functions are the providers cmd/stock-api hands to Wire.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/vnstock-cache/internal/api"
	"github.com/Sternrassler/vnstock-cache/internal/config"
	"github.com/Sternrassler/vnstock-cache/pkg/cache"
	"github.com/Sternrassler/vnstock-cache/pkg/logging"
	"github.com/Sternrassler/vnstock-cache/pkg/provider"
	"github.com/Sternrassler/vnstock-cache/pkg/ratelimit"
	"github.com/Sternrassler/vnstock-cache/pkg/stock"
)

// UserAgent is sent to every upstream.
const UserAgent = "vnstock-cache/1.0"

const redisPingTimeout = 5 * time.Second

// ProviderSet is the full provider graph for Wire.
var ProviderSet = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	ProvideRedis,
	ProvideStore,
	ProvideVCIClient,
	ProvideDirectoryClient,
	ProvideTCBSClient,
	ProvideService,
	ProvideThrottle,
	ProvideAPIServer,
	ProvideHTTPServer,
	wire.Bind(new(cache.Store), new(*cache.Manager)),
	wire.Bind(new(stock.QuoteProvider), new(*provider.VCIClient)),
	wire.Bind(new(stock.DirectoryProvider), new(*provider.DirectoryClient)),
	wire.Bind(new(stock.ClassificationProvider), new(*provider.TCBSClient)),
	wire.Struct(new(App), "Config", "Logger", "HTTP"),
)

// ProvideConfig loads config from environment and config file (for Wire).
func ProvideConfig() (*config.Config, error) {
	return config.Load()
}

// ProvideLogger configures the global logger from config (for Wire).
func ProvideLogger(cfg *config.Config) zerolog.Logger {
	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(cfg.LogLevel)
	lc.Pretty = cfg.LogPretty
	return logging.Setup(lc)
}

// ProvideRedis connects to Redis and fails if it does not answer a ping.
// The cleanup closes the client.
func ProvideRedis(cfg *config.Config, logger zerolog.Logger) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr(), err)
	}
	logger.Info().Str("addr", cfg.RedisAddr()).Int("db", cfg.RedisDB).Msg("Connected to Redis")

	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}
	return client, cleanup, nil
}

// ProvideStore creates the Redis-backed cache store (for Wire).
func ProvideStore(client *redis.Client) *cache.Manager {
	return cache.NewManager(client)
}

func providerConfig(cfg *config.Config, baseURL string) provider.Config {
	return provider.Config{
		BaseURL:   baseURL,
		Timeout:   cfg.UpstreamTimeout,
		RateLimit: cfg.UpstreamRateLimit,
		UserAgent: UserAgent,
	}
}

func closer(logger zerolog.Logger, name string, close func() error) func() {
	return func() {
		if err := close(); err != nil {
			logger.Warn().Err(err).Str("provider", name).Msg("Failed to close provider client")
		}
	}
}

// ProvideVCIClient creates the quote provider (for Wire).
func ProvideVCIClient(cfg *config.Config, logger zerolog.Logger) (*provider.VCIClient, func()) {
	c := provider.NewVCIClient(providerConfig(cfg, cfg.VCIBaseURL))
	logger.Debug().Str("provider", "vci").Str("base_url", cfg.VCIBaseURL).Msg("Provider configured")
	return c, closer(logger, "vci", c.Close)
}

// ProvideDirectoryClient creates the company directory provider (for Wire).
func ProvideDirectoryClient(cfg *config.Config, logger zerolog.Logger) (*provider.DirectoryClient, func()) {
	c := provider.NewDirectoryClient(
		providerConfig(cfg, cfg.VCIGraphQLURL),
		providerConfig(cfg, cfg.VCIBaseURL),
	)
	logger.Debug().Str("provider", "vci_graphql").Str("base_url", cfg.VCIGraphQLURL).Msg("Provider configured")
	return c, closer(logger, "vci_graphql", c.Close)
}

// ProvideTCBSClient creates the classification provider (for Wire).
func ProvideTCBSClient(cfg *config.Config, logger zerolog.Logger) (*provider.TCBSClient, func()) {
	c := provider.NewTCBSClient(providerConfig(cfg, cfg.TCBSBaseURL))
	logger.Debug().Str("provider", "tcbs").Str("base_url", cfg.TCBSBaseURL).Msg("Provider configured")
	return c, closer(logger, "tcbs", c.Close)
}

// ProvideService wires the read-through service (for Wire).
func ProvideService(
	cfg *config.Config,
	store cache.Store,
	quotes stock.QuoteProvider,
	directory stock.DirectoryProvider,
	classification stock.ClassificationProvider,
	logger zerolog.Logger,
) (*stock.Service, error) {
	return stock.NewService(store, quotes, directory, classification,
		stock.WithIndustrySource(stock.IndustrySource(cfg.IndustrySource)),
		stock.WithLogger(logger.With().Str("component", "stock-service").Logger()),
	)
}

// ProvideThrottle creates the per-client request throttle (for Wire).
func ProvideThrottle(cfg *config.Config, client *redis.Client, logger zerolog.Logger) *ratelimit.Throttle {
	return ratelimit.NewThrottle(client, cfg.ThrottleLimit, cfg.ThrottleWindow,
		logger.With().Str("component", "throttle").Logger())
}

// ProvideAPIServer creates the HTTP handlers (for Wire).
func ProvideAPIServer(cfg *config.Config, svc *stock.Service, throttle *ratelimit.Throttle, store *cache.Manager, logger zerolog.Logger) *api.Server {
	return api.NewServer(svc, throttle, store, cfg.APIPrefix,
		logger.With().Str("component", "api").Logger())
}

// ProvideHTTPServer creates the listening server (for Wire).
func ProvideHTTPServer(cfg *config.Config, server *api.Server) *http.Server {
	return &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Upstream calls may take the full upstream timeout.
		WriteTimeout: cfg.UpstreamTimeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}
}
