package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrNetwork is the single failure class of the client. Transport errors,
// non-success statuses and undecodable bodies all satisfy errors.Is(err, ErrNetwork).
var ErrNetwork = errors.New("github: network failure")

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode       int
	Message          string
	DocumentationURL string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: request failed with status %d: %s", e.StatusCode, e.Message)
}

// Is reports APIError as a network failure.
func (e *APIError) Is(target error) bool {
	return target == ErrNetwork
}

// networkError wraps transport and decode failures keeping the cause's message.
type networkError struct {
	op  string
	err error
}

func (e *networkError) Error() string {
	return fmt.Sprintf("github: %s: %v", e.op, e.err)
}

func (e *networkError) Unwrap() []error {
	return []error{ErrNetwork, e.err}
}

// newAPIError builds an APIError from a response status and raw body.
// The message comes from the JSON "message" field, falling back to the status text.
func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if gjson.ValidBytes(body) {
		parsed := gjson.ParseBytes(body)
		apiErr.Message = strings.TrimSpace(parsed.Get("message").String())
		apiErr.DocumentationURL = parsed.Get("documentation_url").String()
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(statusCode)
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("HTTP %d", statusCode)
	}
	return apiErr
}

// ErrorMessage returns the human-readable text shown to the user for err.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var netErr *networkError
	if errors.As(err, &netErr) {
		if errors.Is(netErr.err, context.DeadlineExceeded) {
			return "request timed out"
		}
		return netErr.err.Error()
	}
	return err.Error()
}
