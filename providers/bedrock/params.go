package bedrock

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/finsight/docllm-go"
)

// buildConverseInput constructs Converse API parameters from a request.
// Shared between Converse and ConverseStream; the two operations take
// structurally identical input.
func buildConverseInput(req *docllm.ConverseRequest) (*bedrockruntime.ConverseInput, error) {
	messages, err := convertMessages(req.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages: %w", err)
	}

	input := &bedrockruntime.ConverseInput{
		ModelId:  aws.String(req.Model),
		Messages: messages,
		System:   convertSystem(req.System),
	}

	if cfg := req.Config; cfg != nil {
		inference := &types.InferenceConfiguration{}
		if cfg.MaxTokens != nil {
			inference.MaxTokens = aws.Int32(int32(*cfg.MaxTokens))
		}
		if cfg.Temperature != nil {
			inference.Temperature = aws.Float32(float32(*cfg.Temperature))
		}
		if cfg.TopP != nil {
			inference.TopP = aws.Float32(float32(*cfg.TopP))
		}
		input.InferenceConfig = inference
	}

	return input, nil
}

// buildConverseStreamInput mirrors buildConverseInput for the streaming call.
func buildConverseStreamInput(req *docllm.ConverseRequest) (*bedrockruntime.ConverseStreamInput, error) {
	input, err := buildConverseInput(req)
	if err != nil {
		return nil, err
	}
	return &bedrockruntime.ConverseStreamInput{
		ModelId:         input.ModelId,
		Messages:        input.Messages,
		System:          input.System,
		InferenceConfig: input.InferenceConfig,
	}, nil
}
