package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// messagePaths are tried in order to find a human-readable message in an
// error body.
var messagePaths = []string{"error", "message", "Message", "title", "detail"}

func newAPIError(method, path string, status int, body []byte) *APIError {
	return &APIError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Message:    errorMessage(status, body),
		Body:       body,
	}
}

func errorMessage(status int, body []byte) string {
	if gjson.ValidBytes(body) {
		parsed := gjson.ParseBytes(body)
		if parsed.Type == gjson.String && parsed.String() != "" {
			return parsed.String()
		}
		for _, p := range messagePaths {
			if v := parsed.Get(p); v.Exists() && v.Type == gjson.String && v.String() != "" {
				return v.String()
			}
		}
		// Validation problem details: {"errors": {"Field": ["msg"]}}
		var first string
		parsed.Get("errors").ForEach(func(_, value gjson.Result) bool {
			if value.IsArray() {
				first = value.Get("0").String()
			} else {
				first = value.String()
			}
			return first == ""
		})
		if first != "" {
			return first
		}
	}

	text := strings.TrimSpace(string(body))
	if text != "" && !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "<") {
		if len(text) > 200 {
			text = text[:200]
		}
		return text
	}
	return http.StatusText(status)
}

// StatusCode returns the upstream status of err, or 0 for transport failures.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// Message returns the user-facing message carried by err.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "Could not reach the server. Please try again."
}
