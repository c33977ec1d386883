package ai

import "errors"

// Failure kinds a remote classifier may return. Callers match them with errors.Is.
var (
	// ErrConfiguration indicates no usable credential is configured.
	ErrConfiguration = errors.New("ai classifier not configured")
	// ErrTransport covers connection failures, timeouts and non-success HTTP statuses.
	ErrTransport = errors.New("ai transport failure")
	// ErrResponseFormat indicates a reply that is not JSON or violates the result schema.
	ErrResponseFormat = errors.New("ai response format invalid")
	// ErrContentBlocked indicates the provider's safety filter rejected the content.
	ErrContentBlocked = errors.New("ai content blocked by safety filter")
)

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
// It is always reported together with ErrTransport.
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// Kind names the failure kind of err for logs and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrQuotaExceeded):
		return "quota"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrResponseFormat):
		return "response_format"
	case errors.Is(err, ErrContentBlocked):
		return "content_blocked"
	default:
		return "unknown"
	}
}
