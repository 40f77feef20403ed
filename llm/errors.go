package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Service error taxonomy. Stages decide retry behavior from these:
// model-not-found and per-attempt timeouts are retryable with the next
// candidate model; auth and quota failures are immediately fatal.
var (
	ErrModelNotFound = errors.New("model not found or unsupported")
	ErrUnauthorized  = errors.New("authentication failed")
	ErrQuotaExceeded = errors.New("quota or rate limit exceeded")
)

// ServiceError preserves the raw provider response for the operator.
type ServiceError struct {
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// classifyStatus maps a provider HTTP response onto the taxonomy.
func classifyStatus(statusCode int, body string) error {
	svcErr := &ServiceError{StatusCode: statusCode, Body: body}

	switch statusCode {
	case 401, 403:
		return fmt.Errorf("%w: %s", ErrUnauthorized, svcErr.Error())
	case 429:
		return fmt.Errorf("%w: %s", ErrQuotaExceeded, svcErr.Error())
	case 404:
		return fmt.Errorf("%w: %s", ErrModelNotFound, svcErr.Error())
	}

	// Providers also report unknown models as 400s with a not_found body.
	lower := strings.ToLower(body)
	if statusCode == 400 && (strings.Contains(lower, "not_found") || strings.Contains(lower, "invalid model")) {
		return fmt.Errorf("%w: %s", ErrModelNotFound, svcErr.Error())
	}

	return svcErr
}

// IsRetryableWithNextModel reports whether err should trigger the next
// candidate in an ordered model-fallback list.
func IsRetryableWithNextModel(err error) bool {
	return errors.Is(err, ErrModelNotFound) || errors.Is(err, context.DeadlineExceeded)
}
