package providers

import (
	"net/http"
	"strings"

	llmerrors "github.com/ahrav/contract-iq/internal/llm/errors"
)

// serverErrorStatusThreshold is the HTTP status floor for server errors.
const serverErrorStatusThreshold = 500

// classifyErrorType determines ErrorType from HTTP status and provider
// error codes. Provider-specific codes take precedence over status codes
// because some providers return 200-family statuses with error payloads.
func classifyErrorType(statusCode int, errorCode string) llmerrors.ErrorType {
	lowerCode := strings.ToLower(errorCode)
	switch {
	case strings.Contains(lowerCode, "rate") || strings.Contains(lowerCode, "limit"):
		return llmerrors.ErrorTypeRateLimit
	case strings.Contains(lowerCode, "timeout") || strings.Contains(lowerCode, "deadline"):
		return llmerrors.ErrorTypeTimeout
	case strings.Contains(lowerCode, "auth") || strings.Contains(lowerCode, "unauthenticated"):
		return llmerrors.ErrorTypeAuth
	case strings.Contains(lowerCode, "permission") || strings.Contains(lowerCode, "forbidden"):
		return llmerrors.ErrorTypePermission
	case strings.Contains(lowerCode, "quota") || strings.Contains(lowerCode, "exhausted"):
		return llmerrors.ErrorTypeQuota
	case strings.Contains(lowerCode, "safety") || strings.Contains(lowerCode, "content"):
		return llmerrors.ErrorTypeContent
	}

	switch statusCode {
	case http.StatusTooManyRequests:
		return llmerrors.ErrorTypeRateLimit
	case http.StatusUnauthorized:
		return llmerrors.ErrorTypeAuth
	case http.StatusForbidden:
		return llmerrors.ErrorTypePermission
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return llmerrors.ErrorTypeTimeout
	case http.StatusBadRequest:
		return llmerrors.ErrorTypeValidation
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return llmerrors.ErrorTypeProvider
	default:
		if statusCode >= serverErrorStatusThreshold {
			return llmerrors.ErrorTypeProvider
		}
		return llmerrors.ErrorTypeUnknown
	}
}
