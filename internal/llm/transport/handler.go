// Package transport provides the normalized request/response types and the
// composable handler pipeline used for all LLM provider calls. Cross-cutting
// concerns (rate limiting, pricing, retry, caching, circuit breaking) are
// middleware wrapping a core HTTP handler.
package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Router selects the appropriate provider adapter for request routing.
// Implemented by the providers package.
type Router interface {
	Pick(provider, model string) (ProviderAdapter, error)
}

// ProviderAdapter abstracts provider-specific HTTP communication patterns.
// Each provider implements this to handle its API format, authentication
// scheme, and response structure.
type ProviderAdapter interface {
	// Build constructs a provider-specific HTTP request from the
	// normalized request, including authentication and endpoints.
	Build(ctx context.Context, req *Request) (*http.Request, error)

	// Parse extracts normalized content, usage metrics, and error
	// conditions from the provider's HTTP response.
	Parse(httpResp *http.Response) (*Response, error)

	// Name returns the canonical provider identifier.
	Name() string
}

// Handler processes LLM requests through the composable middleware pipeline.
type Handler interface {
	Handle(ctx context.Context, req *Request) (*Response, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(context.Context, *Request) (*Response, error)

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Middleware transforms a Handler into an enhanced Handler.
type Middleware func(Handler) Handler

// Chain builds a middleware pipeline around a core handler. Middleware
// executes in the order provided, first middleware outermost.
func Chain(h Handler, middlewares ...Middleware) Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// NewHTTPHandler creates the core handler that performs the actual HTTP
// round trip against the provider selected by the router.
func NewHTTPHandler(client *http.Client, router Router) Handler {
	return &httpHandler{client: client, router: router}
}

type httpHandler struct {
	client *http.Client
	router Router
}

// Handle implements Handler by building, sending, and parsing one provider
// HTTP request. A per-request timeout bounds the round trip so a hung
// provider cannot stall a job indefinitely.
func (h *httpHandler) Handle(ctx context.Context, req *Request) (*Response, error) {
	adapter, err := h.router.Pick(req.Provider, req.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to select provider: %w", err)
	}

	reqCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := adapter.Build(reqCtx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	start := time.Now()
	httpResp, err := h.client.Do(httpReq)
	latency := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	resp, err := adapter.Parse(httpResp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	resp.Usage.LatencyMs = latency.Milliseconds()
	resp.Provider = adapter.Name()
	resp.Model = req.Model
	return resp, nil
}
