package bedrock

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go"

	"github.com/finsight/docllm-go"
)

// convertMessages converts library turns to Bedrock Message values,
// preserving block order exactly.
func convertMessages(turns []*docllm.Turn) ([]types.Message, error) {
	result := make([]types.Message, 0, len(turns))

	for i, turn := range turns {
		role, err := convertRole(turn.Role)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}

		content := make([]types.ContentBlock, 0, len(turn.Blocks))
		for j, block := range turn.Blocks {
			switch block.BlockType {
			case docllm.BlockTypeText:
				if block.TextContent == nil {
					return nil, fmt.Errorf("message %d, block %d: text block missing text_content", i, j)
				}
				content = append(content, &types.ContentBlockMemberText{
					Value: *block.TextContent,
				})

			case docllm.BlockTypeDocument:
				if block.Document == nil {
					return nil, fmt.Errorf("message %d, block %d: document block missing document", i, j)
				}
				format, err := convertDocumentFormat(block.Document.Format)
				if err != nil {
					return nil, fmt.Errorf("message %d, block %d: %w", i, j, err)
				}
				content = append(content, &types.ContentBlockMemberDocument{
					Value: types.DocumentBlock{
						Name:   aws.String(block.Document.Name),
						Format: format,
						Source: &types.DocumentSourceMemberBytes{
							Value: block.Document.Data,
						},
					},
				})

			default:
				return nil, fmt.Errorf("message %d, block %d: unknown block type '%s'", i, j, block.BlockType)
			}
		}

		result = append(result, types.Message{
			Role:    role,
			Content: content,
		})
	}

	return result, nil
}

func convertRole(role string) (types.ConversationRole, error) {
	switch role {
	case docllm.RoleUser:
		return types.ConversationRoleUser, nil
	case docllm.RoleAssistant:
		return types.ConversationRoleAssistant, nil
	default:
		return "", fmt.Errorf("unknown role '%s'", role)
	}
}

func convertDocumentFormat(format docllm.DocumentFormat) (types.DocumentFormat, error) {
	switch format {
	case docllm.FormatPDF:
		return types.DocumentFormatPdf, nil
	case docllm.FormatCSV:
		return types.DocumentFormatCsv, nil
	case docllm.FormatDOC:
		return types.DocumentFormatDoc, nil
	case docllm.FormatDOCX:
		return types.DocumentFormatDocx, nil
	case docllm.FormatXLS:
		return types.DocumentFormatXls, nil
	case docllm.FormatXLSX:
		return types.DocumentFormatXlsx, nil
	case docllm.FormatHTML:
		return types.DocumentFormatHtml, nil
	case docllm.FormatTXT:
		return types.DocumentFormatTxt, nil
	case docllm.FormatMD:
		return types.DocumentFormatMd, nil
	default:
		return "", fmt.Errorf("unsupported document format '%s'", format)
	}
}

// convertSystem converts ordered system prompt text blocks.
func convertSystem(system []string) []types.SystemContentBlock {
	if len(system) == 0 {
		return nil
	}
	result := make([]types.SystemContentBlock, 0, len(system))
	for _, text := range system {
		result = append(result, &types.SystemContentBlockMemberText{Value: text})
	}
	return result
}

// convertConverseOutput converts a blocking Converse response to the
// library format, including usage and latency.
func convertConverseOutput(model string, out *bedrockruntime.ConverseOutput) (*docllm.ConverseResponse, error) {
	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return nil, &docllm.MalformedResponseError{
			Provider: docllm.ProviderBedrock.String(),
			Reason:   "converse output does not contain a message",
		}
	}

	blocks := make([]*docllm.Block, 0, len(msg.Value.Content))
	for i, content := range msg.Value.Content {
		switch c := content.(type) {
		case *types.ContentBlockMemberText:
			text := c.Value
			blocks = append(blocks, &docllm.Block{
				BlockType:   docllm.BlockTypeText,
				Sequence:    i,
				TextContent: &text,
			})
		default:
			// Non-text output blocks are not part of this library's
			// contract; keep position with an empty typed block so the
			// first-block extraction stays honest.
			blocks = append(blocks, &docllm.Block{
				BlockType: fmt.Sprintf("%T", content),
				Sequence:  i,
			})
		}
	}

	resp := &docllm.ConverseResponse{
		Blocks:     blocks,
		Model:      model,
		StopReason: string(out.StopReason),
	}

	if out.Usage != nil {
		resp.Usage = &docllm.TokenUsage{
			InputTokens:  int(aws.ToInt32(out.Usage.InputTokens)),
			OutputTokens: int(aws.ToInt32(out.Usage.OutputTokens)),
			TotalTokens:  int(aws.ToInt32(out.Usage.TotalTokens)),
		}
	}
	if out.Metrics != nil && out.Metrics.LatencyMs != nil {
		latency := *out.Metrics.LatencyMs
		resp.LatencyMs = &latency
	}

	return resp, nil
}

// wrapError maps SDK failures into the library taxonomy. API-level
// rejections (the endpoint received and refused the request) become
// *ProviderError with the Bedrock error code preserved; everything below
// that (DNS, TLS, timeouts, cancelled contexts, truncated streams) is a
// *TransportError.
func wrapError(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		perr := &docllm.ProviderError{
			Provider: docllm.ProviderBedrock.String(),
			Code:     apiErr.ErrorCode(),
			Message:  apiErr.ErrorMessage(),
		}

		var respErr *awshttp.ResponseError
		if errors.As(err, &respErr) {
			perr.StatusCode = respErr.HTTPStatusCode()
		}

		switch apiErr.ErrorCode() {
		case "ThrottlingException":
			perr.Err = docllm.ErrThrottled
		case "AccessDeniedException", "UnrecognizedClientException", "ExpiredTokenException":
			perr.Err = docllm.ErrInvalidAPIKey
		case "ValidationException":
			perr.Err = docllm.ErrInvalidRequest
		case "ResourceNotFoundException":
			perr.Err = docllm.ErrInvalidModel
		case "ServiceUnavailableException", "ModelNotReadyException", "InternalServerException":
			perr.Err = docllm.ErrProviderUnavailable
		}

		return perr
	}

	return &docllm.TransportError{Op: op, Err: err}
}
