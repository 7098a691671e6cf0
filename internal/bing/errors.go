package bing

import (
	"fmt"
	"net/http"
)

// unknownErrorMessage is the fallback when the response body carries no
// API-supplied error message.
const unknownErrorMessage = "Unknown API error"

// APIError is the base for classified API failures. It records the
// human-readable message, the originating status code, and the raw decoded
// response body for diagnostics.
type APIError struct {
	StatusCode int
	Message    string
	Response   map[string]any
}

func (e *APIError) Error() string { return e.Message }

// AuthenticationError indicates the API rejected the credentials (HTTP 401).
type AuthenticationError struct{ APIError }

// RateLimitError indicates the API rate limit was exceeded (HTTP 429).
type RateLimitError struct{ APIError }

// SearchError covers every other non-2xx API failure.
type SearchError struct{ APIError }

// Classify maps an HTTP status code and optional decoded error body into a
// typed API error. The message comes from the response's error.message field
// when present, otherwise a generic fallback.
//
// Classification is a caller-invoked tool: Search and SearchAll surface raw
// transport errors and never classify on their own.
func Classify(statusCode int, response map[string]any) error {
	message := unknownErrorMessage
	if payload, ok := response["error"].(map[string]any); ok {
		if text, ok := payload["message"].(string); ok {
			message = text
		}
	}

	switch statusCode {
	case http.StatusUnauthorized:
		return &AuthenticationError{APIError{
			StatusCode: statusCode,
			Message:    "Authentication failed: " + message,
			Response:   response,
		}}
	case http.StatusTooManyRequests:
		return &RateLimitError{APIError{
			StatusCode: statusCode,
			Message:    "Rate limit exceeded: " + message,
			Response:   response,
		}}
	default:
		return &SearchError{APIError{
			StatusCode: statusCode,
			Message:    fmt.Sprintf("Search error (%d): %s", statusCode, message),
			Response:   response,
		}}
	}
}
