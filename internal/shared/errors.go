package shared

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Upstream errors
	ErrUpstreamAuth = fmt.Errorf("upstream authentication failed")
	ErrAPIRequest   = fmt.Errorf("API request failed")
	ErrEnrichment   = fmt.Errorf("track enrichment failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// UpstreamAuthError reports a token endpoint that could not be reached or
// rejected the request. StatusCode is zero when no response was received.
type UpstreamAuthError struct {
	Endpoint   string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamAuthError) Error() string {
	return upstreamMessage(ErrUpstreamAuth, e.Endpoint, e.StatusCode, e.Body, e.Err)
}

func (e *UpstreamAuthError) Unwrap() error { return e.Err }

func (e *UpstreamAuthError) Is(target error) bool { return target == ErrUpstreamAuth }

// UpstreamAPIError reports a failed call to the internal graph API or the
// public REST API.
type UpstreamAPIError struct {
	Endpoint   string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamAPIError) Error() string {
	return upstreamMessage(ErrAPIRequest, e.Endpoint, e.StatusCode, e.Body, e.Err)
}

func (e *UpstreamAPIError) Unwrap() error { return e.Err }

func (e *UpstreamAPIError) Is(target error) bool { return target == ErrAPIRequest }

// EnrichmentError reports the first failed enrichment batch. Batch is zero-based.
type EnrichmentError struct {
	Batch      int
	Batches    int
	StatusCode int
	Body       string
	Err        error
}

func (e *EnrichmentError) Error() string {
	msg := fmt.Sprintf("%v: batch %d/%d", ErrEnrichment, e.Batch+1, e.Batches)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Body != "" {
		msg += ", body: " + e.Body
	}
	if e.StatusCode == 0 && e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *EnrichmentError) Unwrap() error { return e.Err }

func (e *EnrichmentError) Is(target error) bool { return target == ErrEnrichment }

// UpstreamStatus extracts the HTTP status and body carried by an upstream
// error chain. ok is false when err carries no upstream response.
func UpstreamStatus(err error) (status int, body string, ok bool) {
	var apiErr *UpstreamAPIError
	if errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
		return apiErr.StatusCode, apiErr.Body, true
	}
	var authErr *UpstreamAuthError
	if errors.As(err, &authErr) && authErr.StatusCode != 0 {
		return authErr.StatusCode, authErr.Body, true
	}
	return 0, "", false
}

func upstreamMessage(kind error, endpoint string, status int, body string, err error) string {
	msg := kind.Error()
	if endpoint != "" {
		msg += " (" + endpoint + ")"
	}
	if status != 0 {
		msg += fmt.Sprintf(": status %d", status)
		if body != "" {
			msg += ", body: " + body
		}
		return msg
	}
	if err != nil {
		msg += ": " + err.Error()
	}
	return msg
}
