package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError represents an error that occurred while communicating with
// an external API service, with information to help users recover.
type APIError struct {
	Service     string // The API service name (e.g., "transit", "weather")
	StatusCode  int    // HTTP status code
	Message     string // Error message
	Recoverable bool   // Whether the error can be recovered from
	Guidance    string // Guidance for users on how to recover
}

// Error implements the error interface and provides a formatted error message.
func (e *APIError) Error() string {
	if e.Guidance != "" {
		return fmt.Sprintf("%s API error (%d): %s. %s", e.Service, e.StatusCode, e.Message, e.Guidance)
	}
	return fmt.Sprintf("%s API error (%d): %s", e.Service, e.StatusCode, e.Message)
}

// Common error guidance messages
const (
	GuidanceRateLimit   = "Rate limit exceeded. Please try again in a few moments."
	GuidanceTimeout     = "The request timed out. Please try again."
	GuidanceBadRequest  = "The request was invalid. Check your parameters and try again."
	GuidanceAuth        = "The API key was rejected. Check the configured credentials."
	GuidanceServerError = "The server encountered an error. This is likely temporary, please try again later."
	GuidanceUnavailable = "The service is temporarily unavailable. Please try again later."
	GuidanceGeneral     = "Please try again later or modify your request parameters."
)

// NewAPIError creates a new APIError with guidance inferred from the status code.
func NewAPIError(service string, statusCode int, message string) *APIError {
	var guidance string
	switch statusCode {
	case http.StatusTooManyRequests:
		guidance = GuidanceRateLimit
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		guidance = GuidanceTimeout
	case http.StatusBadRequest:
		guidance = GuidanceBadRequest
	case http.StatusUnauthorized, http.StatusForbidden:
		guidance = GuidanceAuth
	case http.StatusInternalServerError:
		guidance = GuidanceServerError
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		guidance = GuidanceUnavailable
	default:
		guidance = GuidanceGeneral
	}

	return &APIError{
		Service:     service,
		StatusCode:  statusCode,
		Message:     message,
		Recoverable: retryable(statusCode),
		Guidance:    guidance,
	}
}

// retryable reports whether a status is worth another attempt.
func retryable(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// errorMessage pulls a human-readable message out of an error body. Providers
// disagree on the shape, so the common ones are tried in turn.
func errorMessage(statusCode int, body []byte) string {
	var payload struct {
		Message   string `json:"message"`
		Reason    string `json:"reason"`
		ErrorType string `json:"error-type"`
		Error     any    `json:"error"`
		Result    any    `json:"result"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if e, ok := payload.Error.(map[string]any); ok {
			if msg, ok := e["message"].(string); ok && msg != "" {
				return msg
			}
		}
		if e, ok := payload.Error.(string); ok && e != "" {
			return e
		}
		if r, ok := payload.Result.(map[string]any); ok {
			if msg, ok := r["message"].(string); ok && msg != "" {
				return msg
			}
		}
		for _, msg := range []string{payload.Message, payload.Reason, payload.ErrorType} {
			if msg != "" {
				return msg
			}
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 && !strings.ContainsAny(text, "<\n") {
		return text
	}
	return http.StatusText(statusCode)
}
