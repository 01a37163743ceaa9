package wildapricot

import "fmt"

// TokenError indicates the auth endpoint was unreachable or rejected the
// credentials. Fatal for a whole sync run.
type TokenError struct {
	Status int
	Body   string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("token acquisition failed: status %d: %s", e.Status, e.Body)
}

// APIError is a non-retryable API rejection (4xx other than 401/429).
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api request rejected: status %d: %s", e.Status, e.Body)
}

// RateLimitError indicates 429 responses persisted past the retry budget.
type RateLimitError struct {
	Attempts int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded after %d attempts", e.Attempts)
}

// RequestError indicates a request kept failing with 5xx or transport errors
// until the retry budget ran out. Status is the last HTTP status observed,
// zero when the failure never reached the server.
type RequestError struct {
	Status   int
	Attempts int
	Err      error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request failed after %d attempts: %v", e.Attempts, e.Err)
	}
	return fmt.Sprintf("request failed after %d attempts: last status %d", e.Attempts, e.Status)
}

func (e *RequestError) Unwrap() error { return e.Err }

// AsyncQueryError indicates the platform reported an asynchronous query as
// Failed, as opposed to never finishing it.
type AsyncQueryError struct {
	Details string
}

func (e *AsyncQueryError) Error() string {
	return fmt.Sprintf("async query failed: %s", e.Details)
}

// AsyncTimeoutError indicates an asynchronous query did not reach a terminal
// state within the poll attempt budget.
type AsyncTimeoutError struct {
	Attempts int
}

func (e *AsyncTimeoutError) Error() string {
	return fmt.Sprintf("async query timed out after %d polls", e.Attempts)
}
