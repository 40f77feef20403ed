package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"go.uber.org/zap"
)

// AttemptFunc performs one service call against the given model.
type AttemptFunc func(ctx context.Context, model string) error

// TryCandidates runs fn against an ordered list of model identifiers,
// bounding each attempt with attemptTimeout. A not-found/unsupported model
// or an attempt timeout moves on to the next candidate; any other failure
// (auth, quota, service) aborts immediately. Returns the model that
// succeeded.
func TryCandidates(ctx context.Context, models []string, attemptTimeout time.Duration, fn AttemptFunc) (string, error) {
	if len(models) == 0 {
		return "", fmt.Errorf("no candidate models configured")
	}

	var lastErr error
	for _, model := range models {
		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		err := fn(attemptCtx, model)
		cancel()

		if err == nil {
			logger.Info("model candidate succeeded", zap.String("model", model))
			return model, nil
		}

		if !IsRetryableWithNextModel(err) {
			return "", err
		}

		logger.Info("model candidate unavailable, trying next",
			zap.String("model", model), zap.Error(err))
		lastErr = err
	}

	return "", fmt.Errorf("all candidate models exhausted (%d tried): %w", len(models), lastErr)
}
