package prompts

import (
	"context"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"go.uber.org/zap"

	"github.com/sentinel-health/sentinel-core/llm"
	"github.com/sentinel-health/sentinel-core/llmjson"
)

// TalkingPoints generates the bounded peer-to-peer call script. The model
// is asked for exactly 3 points as a JSON array; a malformed response
// degrades to a single-element list wrapping the raw text.
func TalkingPoints(ctx context.Context, client llm.CompletionClient, model, denialReason, policyContext string) <-chan async.Result[[]string] {
	return async.Go(func() ([]string, error) {
		userPrompt, err := loadPrompt("templates/talking_points_user.md", map[string]string{
			"DENIAL_REASON":  denialReason,
			"POLICY_CONTEXT": policyContext,
		})
		if err != nil {
			return nil, err
		}

		var response strings.Builder
		err = client.GenerateInference(ctx,
			[]llm.Message{{Role: "user", Content: userPrompt}},
			func(chunk string) error {
				response.WriteString(chunk)
				return nil
			},
			llm.WithModel(model),
			llm.WithMaxTokens(500),
			llm.WithTemperature(0.3),
		)
		if err != nil {
			logger.Error("talking points inference failed", zap.Error(err))
			return nil, err
		}

		return llmjson.DecodeStringList(response.String()), nil
	})
}
