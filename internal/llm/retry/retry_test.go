package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/contract-iq/internal/llm/configuration"
	llmerrors "github.com/ahrav/contract-iq/internal/llm/errors"
	"github.com/ahrav/contract-iq/internal/llm/transport"
)

func TestBackoff(t *testing.T) {
	initial := 100 * time.Millisecond
	maxInterval := time.Second

	t.Run("exponential growth without jitter", func(t *testing.T) {
		assert.Equal(t, 100*time.Millisecond, backoff(1, initial, maxInterval, 2.0, false))
		assert.Equal(t, 200*time.Millisecond, backoff(2, initial, maxInterval, 2.0, false))
		assert.Equal(t, 400*time.Millisecond, backoff(3, initial, maxInterval, 2.0, false))
	})

	t.Run("capped at max interval", func(t *testing.T) {
		assert.Equal(t, maxInterval, backoff(10, initial, maxInterval, 2.0, false))
	})

	t.Run("jitter stays within the computed interval", func(t *testing.T) {
		for range 100 {
			wait := backoff(3, initial, maxInterval, 2.0, true)
			assert.Greater(t, wait, time.Duration(0))
			assert.LessOrEqual(t, wait, 400*time.Millisecond)
		}
	})
}

func testRetryConfig(attempts int) configuration.RetryConfig {
	return configuration.RetryConfig{
		MaxAttempts:     attempts,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2.0,
	}
}

func TestNewMiddlewareValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  configuration.RetryConfig
	}{
		{"zero attempts", configuration.RetryConfig{InitialInterval: time.Second, MaxInterval: time.Second, Multiplier: 2}},
		{"zero initial interval", configuration.RetryConfig{MaxAttempts: 3, MaxInterval: time.Second, Multiplier: 2}},
		{"max below initial", configuration.RetryConfig{MaxAttempts: 3, InitialInterval: time.Second, MaxInterval: time.Millisecond, Multiplier: 2}},
		{"multiplier below one", configuration.RetryConfig{MaxAttempts: 3, InitialInterval: time.Second, MaxInterval: time.Second, Multiplier: 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMiddleware(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestRetryMiddleware(t *testing.T) {
	req := &transport.Request{Provider: "openai", Model: "gpt-4o"}
	transientErr := &llmerrors.ProviderError{Provider: "openai", Type: llmerrors.ErrorTypeProvider}

	t.Run("recovers from transient failures", func(t *testing.T) {
		mw, err := NewMiddleware(testRetryConfig(3))
		require.NoError(t, err)

		calls := 0
		handler := mw(transport.HandlerFunc(func(context.Context, *transport.Request) (*transport.Response, error) {
			calls++
			if calls < 3 {
				return nil, transientErr
			}
			return &transport.Response{Content: "ok"}, nil
		}))

		resp, err := handler.Handle(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Content)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausts attempts and reports the last error", func(t *testing.T) {
		mw, err := NewMiddleware(testRetryConfig(3))
		require.NoError(t, err)

		calls := 0
		handler := mw(transport.HandlerFunc(func(context.Context, *transport.Request) (*transport.Response, error) {
			calls++
			return nil, transientErr
		}))

		_, err = handler.Handle(context.Background(), req)
		require.Error(t, err)
		assert.ErrorIs(t, err, transientErr)
		assert.Contains(t, err.Error(), "all retries exhausted")
		assert.Equal(t, 3, calls)
	})

	t.Run("terminal errors are not retried", func(t *testing.T) {
		mw, err := NewMiddleware(testRetryConfig(5))
		require.NoError(t, err)

		authErr := &llmerrors.ProviderError{Provider: "openai", Type: llmerrors.ErrorTypeAuth}
		calls := 0
		handler := mw(transport.HandlerFunc(func(context.Context, *transport.Request) (*transport.Response, error) {
			calls++
			return nil, authErr
		}))

		_, err = handler.Handle(context.Background(), req)
		assert.ErrorIs(t, err, authErr)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		cfg := testRetryConfig(5)
		cfg.InitialInterval = 50 * time.Millisecond
		cfg.MaxInterval = 100 * time.Millisecond
		mw, err := NewMiddleware(cfg)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		handler := mw(transport.HandlerFunc(func(context.Context, *transport.Request) (*transport.Response, error) {
			calls++
			cancel()
			return nil, transientErr
		}))

		_, err = handler.Handle(ctx, req)
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("server retry after overrides computed backoff", func(t *testing.T) {
		mw, err := NewMiddleware(testRetryConfig(2))
		require.NoError(t, err)

		rateErr := &llmerrors.ProviderError{
			Provider:   "openai",
			Type:       llmerrors.ErrorTypeRateLimit,
			RetryAfter: 30 * time.Millisecond,
		}
		calls := 0
		handler := mw(transport.HandlerFunc(func(context.Context, *transport.Request) (*transport.Response, error) {
			calls++
			if calls == 1 {
				return nil, rateErr
			}
			return &transport.Response{Content: "ok"}, nil
		}))

		start := time.Now()
		_, err = handler.Handle(context.Background(), req)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	})

	t.Run("unclassified errors retry", func(t *testing.T) {
		mw, err := NewMiddleware(testRetryConfig(2))
		require.NoError(t, err)

		calls := 0
		handler := mw(transport.HandlerFunc(func(context.Context, *transport.Request) (*transport.Response, error) {
			calls++
			return nil, errors.New("connection reset")
		}))

		_, err = handler.Handle(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, 2, calls)
	})
}
