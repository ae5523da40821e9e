package docllm

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
// These can be checked with errors.Is().
var (
	// ErrInvalidAPIKey indicates credentials are missing, malformed, or unauthorized.
	ErrInvalidAPIKey = errors.New("docllm: invalid API key")

	// ErrInvalidModel indicates the requested model is not supported by the provider.
	ErrInvalidModel = errors.New("docllm: invalid or unsupported model")

	// ErrInvalidRequest indicates the request or builder input is invalid.
	ErrInvalidRequest = errors.New("docllm: invalid request")

	// ErrThrottled indicates the provider's rate limit has been exceeded.
	ErrThrottled = errors.New("docllm: request throttled")

	// ErrProviderUnavailable indicates the provider service is down or unreachable.
	ErrProviderUnavailable = errors.New("docllm: provider unavailable")

	// ErrStreamTruncated indicates the transport closed before a message-stop event.
	ErrStreamTruncated = errors.New("docllm: stream ended without message stop")
)

// ValidationError represents bad input to the builder or request:
// unsupported document formats, empty attachment bytes, out-of-range
// inference parameters.
type ValidationError struct {
	Field  string // The field that failed validation
	Value  any    // The invalid value
	Reason string // Human-readable explanation
	Err    error  // Wrapped error (usually ErrInvalidRequest or ErrInvalidModel)
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation failed for '%s' (value: %v): %s (%v)", e.Field, e.Value, e.Reason, e.Err)
	}
	return fmt.Sprintf("validation failed for '%s' (value: %v): %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// TransportError represents a network-level failure: DNS, TLS, connect or
// read timeouts, and streams that terminate before completion. Distinct from
// ProviderError, which means the endpoint received the request and rejected it.
type TransportError struct {
	Op     string // The operation that failed ("converse", "converse_stream", "fetch")
	Reason string // Human-readable explanation
	Err    error  // Wrapped underlying error
}

func (e *TransportError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("transport error during %s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProviderError represents a rejection from the remote endpoint: throttling,
// content-policy refusals, auth failures, server errors. Code preserves the
// provider's own error code so callers can distinguish rejection classes.
type ProviderError struct {
	Provider   string // The provider name
	StatusCode int    // HTTP status code (if applicable)
	Code       string // Provider error code (e.g., "ThrottlingException")
	Message    string // Error message from provider
	Err        error  // Wrapped sentinel error (ErrThrottled, ErrProviderUnavailable, etc.)
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider '%s' error (status %d, code %s): %s", e.Provider, e.StatusCode, e.Code, e.Message)
	}
	if e.Code != "" {
		return fmt.Sprintf("provider '%s' error (code %s): %s", e.Provider, e.Code, e.Message)
	}
	return fmt.Sprintf("provider '%s' error: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// MalformedResponseError represents a response whose shape violates the
// expected contract, e.g. a result with no content blocks where exactly one
// leading text block is required.
type MalformedResponseError struct {
	Provider string // The provider name
	Reason   string // What was wrong with the shape
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from '%s': %s", e.Provider, e.Reason)
}

// IsThrottled checks if an error is a rate-limit rejection.
func IsThrottled(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrThrottled) {
		return true
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.StatusCode == 429
	}

	return false
}

// IsAuthError checks if an error is related to authentication.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrInvalidAPIKey) {
		return true
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		// HTTP 401/403 indicate auth issues
		return providerErr.StatusCode == 401 || providerErr.StatusCode == 403
	}

	return false
}

// IsTransport checks if an error originated below the provider: network,
// timeout, or premature stream termination.
func IsTransport(err error) bool {
	if err == nil {
		return false
	}

	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// IsInvalidRequest checks if an error indicates invalid input.
// These errors require request changes, not resubmission.
func IsInvalidRequest(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrInvalidRequest) || errors.Is(err, ErrInvalidModel) {
		return true
	}

	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
