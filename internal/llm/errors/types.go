// Package errors defines the error taxonomy for LLM provider operations.
// Error types drive retry classification: transient failures (timeouts,
// rate limits, provider outages) are retryable, while authentication and
// quota failures surface immediately.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType categorizes LLM operation failures for retry classification.
type ErrorType string

const (
	// ErrorTypeTimeout indicates request timeout or deadline exceeded (retryable).
	ErrorTypeTimeout ErrorType = "timeout"

	// ErrorTypeRateLimit indicates rate limit exceeded, retry with backoff (retryable).
	ErrorTypeRateLimit ErrorType = "rate_limit"

	// ErrorTypeNetwork indicates network connectivity issues (retryable).
	ErrorTypeNetwork ErrorType = "network"

	// ErrorTypeProvider indicates provider service unavailable (retryable).
	ErrorTypeProvider ErrorType = "provider_unavailable"

	// ErrorTypeCircuitBreaker indicates circuit breaker protection activated.
	ErrorTypeCircuitBreaker ErrorType = "circuit_breaker"

	// ErrorTypeValidation indicates input validation failed (non-retryable).
	ErrorTypeValidation ErrorType = "validation_failed"

	// ErrorTypeContent indicates content blocked by safety filters (non-retryable).
	ErrorTypeContent ErrorType = "content_filtered"

	// ErrorTypeAuth indicates authentication failed (non-retryable).
	ErrorTypeAuth ErrorType = "authentication"

	// ErrorTypePermission indicates insufficient permissions (non-retryable).
	ErrorTypePermission ErrorType = "permission_denied"

	// ErrorTypeQuota indicates account quota exceeded (non-retryable).
	ErrorTypeQuota ErrorType = "quota_exceeded"

	// ErrorTypeUnknown indicates an unclassified error.
	ErrorTypeUnknown ErrorType = "unknown"
)

// Retryable reports whether operations failing with this type should be
// retried against the same provider.
func (t ErrorType) Retryable() bool {
	switch t {
	case ErrorTypeTimeout, ErrorTypeRateLimit, ErrorTypeNetwork, ErrorTypeProvider:
		return true
	default:
		return false
	}
}

// Common LLM operation errors for consistent error handling.
var (
	// ErrProviderUnavailable indicates the provider service is down or unreachable.
	ErrProviderUnavailable = errors.New("provider service unavailable")

	// ErrRateLimitExceeded indicates the local rate limit has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrCircuitBreakerOpen indicates the circuit breaker is open.
	ErrCircuitBreakerOpen = errors.New("circuit breaker open")

	// ErrUnknownProvider indicates an unknown or unsupported provider.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrUnknownModel indicates pricing or routing data is missing for a model.
	ErrUnknownModel = errors.New("unknown model")

	// ErrInvalidResponse indicates the provider returned an invalid response.
	ErrInvalidResponse = errors.New("invalid provider response")

	// ErrEmptyCompletion indicates the provider returned no usable content.
	ErrEmptyCompletion = errors.New("empty completion")
)

// ProviderError carries provider-specific failure details with retry
// classification and optional server-requested backoff.
type ProviderError struct {
	Provider   string        `json:"provider"`
	StatusCode int           `json:"status_code"`
	Code       string        `json:"code,omitempty"`
	Message    string        `json:"message"`
	Type       ErrorType     `json:"type"`
	RetryAfter time.Duration `json:"retry_after,omitempty"`
}

// Error formats the provider error for logs and wrapping.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider error (%d/%s): %s", e.Provider, e.StatusCode, e.Type, e.Message)
}

// GetRetryAfter returns the server-requested backoff, zero if none.
func (e *ProviderError) GetRetryAfter() time.Duration { return e.RetryAfter }

// IsRetryable reports whether the error warrants a retry attempt against
// the same provider. Unwraps to find ProviderError classification;
// unclassified errors are treated as retryable network-level failures.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Type.Retryable()
	}
	if errors.Is(err, ErrCircuitBreakerOpen) || errors.Is(err, ErrUnknownProvider) ||
		errors.Is(err, ErrUnknownModel) || errors.Is(err, ErrRateLimitExceeded) {
		return false
	}
	return true
}
