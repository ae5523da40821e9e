package anthropic

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/finsight/docllm-go"
)

// buildMessageParams constructs Anthropic API parameters from a request.
// Shared between Converse and ConverseStream to avoid duplication.
func buildMessageParams(req *docllm.ConverseRequest) (anthropic.MessageNewParams, error) {
	messages, err := convertMessages(req.Messages)
	if err != nil {
		return anthropic.MessageNewParams{}, fmt.Errorf("failed to convert messages: %w", err)
	}

	// MaxTokens is mandatory on the Messages API; default matches the
	// other providers' fallback.
	maxTokens := int64(req.Config.GetMaxTokens(4096))

	apiParams := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		Messages:  messages,
		MaxTokens: maxTokens,
	}

	if cfg := req.Config; cfg != nil {
		if cfg.Temperature != nil {
			apiParams.Temperature = anthropic.Float(*cfg.Temperature)
		}
		if cfg.TopP != nil {
			apiParams.TopP = anthropic.Float(*cfg.TopP)
		}
	}

	// System prompt: ordered text blocks
	if len(req.System) > 0 {
		system := make([]anthropic.TextBlockParam, 0, len(req.System))
		for _, text := range req.System {
			system = append(system, anthropic.TextBlockParam{
				Type: "text",
				Text: text,
			})
		}
		apiParams.System = system
	}

	return apiParams, nil
}
