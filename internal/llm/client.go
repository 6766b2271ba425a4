// Package llm assembles the provider client: a transport pipeline of
// middleware around the core HTTP handler, plus a deterministic stub
// provider for offline and test use.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/ahrav/contract-iq/internal/llm/cache"
	"github.com/ahrav/contract-iq/internal/llm/circuitbreaker"
	"github.com/ahrav/contract-iq/internal/llm/configuration"
	"github.com/ahrav/contract-iq/internal/llm/pricing"
	"github.com/ahrav/contract-iq/internal/llm/providers"
	"github.com/ahrav/contract-iq/internal/llm/ratelimit"
	"github.com/ahrav/contract-iq/internal/llm/retry"
	"github.com/ahrav/contract-iq/internal/llm/transport"
)

// Client is the single entry point for LLM completions. All resilience
// and cost concerns are applied inside; callers see one call.
type Client interface {
	// Complete executes a completion request through the full pipeline.
	Complete(ctx context.Context, req *transport.Request) (*transport.Response, error)

	// ProviderHealth returns circuit breaker state per provider.
	ProviderHealth() map[string]circuitbreaker.Health
}

type client struct {
	handler  transport.Handler
	breakers *circuitbreaker.Registry
	pricing  *pricing.Registry
	logger   *slog.Logger
}

// NewClient builds the client from configuration. The middleware chain is
// layered so that retries re-enter rate limiting and pricing on every
// attempt, while the cache and circuit breaker sit outside retry and see
// each logical call exactly once:
//
//	attempt = ratelimit → pricing → HTTP
//	call    = cache → circuitbreaker → retry(attempt)
func NewClient(cfg *configuration.Config) (Client, error) {
	if cfg == nil {
		cfg = configuration.DefaultConfig()
	}

	router, err := providers.NewRouter(cfg.Providers)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider router: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	core := transport.NewHTTPHandler(httpClient, router)

	var attemptMiddleware []transport.Middleware
	if cfg.RateLimit.Enabled {
		attemptMiddleware = append(attemptMiddleware, ratelimit.NewMiddleware(cfg.RateLimit))
	}
	var pricingRegistry *pricing.Registry
	if cfg.Pricing.Enabled {
		pricingRegistry = pricing.NewRegistry(cfg.Pricing.FailClosed)
		attemptMiddleware = append(attemptMiddleware, pricing.NewMiddleware(pricingRegistry))
	}
	attemptHandler := transport.Chain(core, attemptMiddleware...)

	retryMiddleware, err := retry.NewMiddleware(cfg.Retry)
	if err != nil {
		return nil, fmt.Errorf("failed to create retry middleware: %w", err)
	}
	retryHandler := retryMiddleware(attemptHandler)

	breakers := circuitbreaker.NewRegistry(cfg.CircuitBreaker)
	callMiddleware := []transport.Middleware{}
	if cfg.Cache.Enabled {
		callMiddleware = append(callMiddleware, cache.NewMiddleware(cache.Config{
			TTL:   cfg.Cache.TTL,
			Store: newCacheStore(cfg.Cache),
		}))
	}
	callMiddleware = append(callMiddleware, circuitbreaker.NewMiddleware(breakers))
	handler := transport.Chain(retryHandler, callMiddleware...)

	return &client{
		handler:  handler,
		breakers: breakers,
		pricing:  pricingRegistry,
		logger:   slog.Default().With("component", "llm.client"),
	}, nil
}

func newCacheStore(cfg configuration.CacheConfig) cache.Store {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryStore()
	}
	return cache.NewRedisStore(redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}))
}

// Complete implements Client. Requests addressed to the stub provider are
// answered deterministically without touching the pipeline, so tests and
// keyless environments never incur network calls or provider spend.
func (c *client) Complete(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	if req.Provider == configuration.ProviderStub {
		return stubComplete(req)
	}

	resp, err := c.handler.Handle(ctx, req)
	if err != nil {
		c.logger.Warn("completion failed",
			"provider", req.Provider,
			"model", req.Model,
			"agent_type", req.AgentType,
			"error", err)
		return nil, err
	}

	c.logger.Debug("completion succeeded",
		"provider", resp.Provider,
		"model", resp.Model,
		"agent_type", req.AgentType,
		"cached", resp.Cached,
		"latency_ms", resp.Usage.LatencyMs,
		"cost_milli_cents", resp.EstimatedCostMilliCents)
	return resp, nil
}

// ProviderHealth implements Client.
func (c *client) ProviderHealth() map[string]circuitbreaker.Health {
	return c.breakers.HealthSnapshot()
}
