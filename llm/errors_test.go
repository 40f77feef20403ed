package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatusAuth(t *testing.T) {
	assert.ErrorIs(t, classifyStatus(401, "unauthorized"), ErrUnauthorized)
	assert.ErrorIs(t, classifyStatus(403, "forbidden"), ErrUnauthorized)
}

func TestClassifyStatusQuota(t *testing.T) {
	assert.ErrorIs(t, classifyStatus(429, "rate limited"), ErrQuotaExceeded)
}

func TestClassifyStatusNotFound(t *testing.T) {
	assert.ErrorIs(t, classifyStatus(404, "no such model"), ErrModelNotFound)
}

func TestClassifyStatusBadRequestWithNotFoundBody(t *testing.T) {
	body := `{"type":"error","error":{"type":"not_found_error","message":"model: nope"}}`

	assert.ErrorIs(t, classifyStatus(400, body), ErrModelNotFound)
}

func TestClassifyStatusBadRequestInvalidModel(t *testing.T) {
	assert.ErrorIs(t, classifyStatus(400, "Invalid model identifier"), ErrModelNotFound)
}

func TestClassifyStatusPlainBadRequest(t *testing.T) {
	err := classifyStatus(400, "missing field: messages")

	assert.NotErrorIs(t, err, ErrModelNotFound)

	var svcErr *ServiceError
	assert.True(t, errors.As(err, &svcErr))
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestClassifyStatusServerError(t *testing.T) {
	err := classifyStatus(500, "internal")

	var svcErr *ServiceError
	assert.True(t, errors.As(err, &svcErr))
	assert.Contains(t, err.Error(), "500")
}

func TestIsRetryableWithNextModel(t *testing.T) {
	assert.True(t, IsRetryableWithNextModel(ErrModelNotFound))
	assert.True(t, IsRetryableWithNextModel(fmt.Errorf("wrapped: %w", ErrModelNotFound)))
	assert.True(t, IsRetryableWithNextModel(context.DeadlineExceeded))

	assert.False(t, IsRetryableWithNextModel(ErrUnauthorized))
	assert.False(t, IsRetryableWithNextModel(ErrQuotaExceeded))
	assert.False(t, IsRetryableWithNextModel(errors.New("boom")))
}
