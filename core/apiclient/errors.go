package apiclient

import "fmt"

// Error carries the outcome of a failed request: a human-readable message,
// the HTTP status code and the decoded response body when one was present.
// Status 0 means the request never produced a response (network failure);
// status 408 covers both server 408s and client-side timeouts.
type Error struct {
	Message string
	Status  int
	Data    any
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api: %s (network error)", e.Message)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// IsNetworkError reports whether the request failed before any response
// arrived.
func (e *Error) IsNetworkError() bool { return e.Status == 0 }

// IsTimeout reports whether the request timed out, either client-side or
// with a server 408.
func (e *Error) IsTimeout() bool { return e.Status == 408 }

// IsClientError reports whether the server rejected the request (4xx).
func (e *Error) IsClientError() bool { return e.Status >= 400 && e.Status < 500 }

// IsServerError reports whether the server failed to handle the request (5xx).
func (e *Error) IsServerError() bool { return e.Status >= 500 }

// retryable reports whether another attempt might succeed. Client errors are
// final, except timeouts and rate limiting.
func (e *Error) retryable() bool {
	if e.Status == 0 || e.Status >= 500 {
		return true
	}
	return e.Status == 408 || e.Status == 429
}
