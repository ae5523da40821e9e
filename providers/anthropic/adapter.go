package anthropic

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/finsight/docllm-go"
)

// convertMessages converts library turns to Anthropic SDK format,
// preserving block order exactly.
func convertMessages(turns []*docllm.Turn) ([]anthropic.MessageParam, error) {
	result := make([]anthropic.MessageParam, 0, len(turns))

	for i, turn := range turns {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(turn.Blocks))

		for j, block := range turn.Blocks {
			switch block.BlockType {
			case docllm.BlockTypeText:
				if block.TextContent == nil {
					return nil, fmt.Errorf("message %d, block %d: text block missing text_content", i, j)
				}
				blocks = append(blocks, anthropic.NewTextBlock(*block.TextContent))

			case docllm.BlockTypeDocument:
				if block.Document == nil {
					return nil, fmt.Errorf("message %d, block %d: document block missing document", i, j)
				}
				docBlock, err := convertDocument(block.Document)
				if err != nil {
					return nil, fmt.Errorf("message %d, block %d: %w", i, j, err)
				}
				blocks = append(blocks, docBlock)

			default:
				return nil, fmt.Errorf("message %d, block %d: unknown block type '%s'", i, j, block.BlockType)
			}
		}

		var msg anthropic.MessageParam
		switch turn.Role {
		case docllm.RoleUser:
			msg = anthropic.NewUserMessage(blocks...)
		case docllm.RoleAssistant:
			msg = anthropic.NewAssistantMessage(blocks...)
		default:
			return nil, fmt.Errorf("message %d: unknown role '%s'", i, turn.Role)
		}

		result = append(result, msg)
	}

	return result, nil
}

// convertDocument maps a document attachment onto an Anthropic document
// block. PDFs go as base64 sources; text-like formats as plain-text
// sources. Binary office formats are not accepted by the Messages API.
func convertDocument(doc *docllm.Document) (anthropic.ContentBlockParamUnion, error) {
	docParam := &anthropic.DocumentBlockParam{
		Title: anthropic.String(doc.Name),
	}

	switch doc.Format {
	case docllm.FormatPDF:
		docParam.Source = anthropic.DocumentBlockParamSourceUnion{
			OfBase64: &anthropic.Base64PDFSourceParam{
				Data: base64.StdEncoding.EncodeToString(doc.Data),
			},
		}

	case docllm.FormatTXT, docllm.FormatMD, docllm.FormatHTML, docllm.FormatCSV:
		docParam.Source = anthropic.DocumentBlockParamSourceUnion{
			OfText: &anthropic.PlainTextSourceParam{
				Data: string(doc.Data),
			},
		}

	default:
		return anthropic.ContentBlockParamUnion{}, fmt.Errorf(
			"document format '%s' not supported by the Anthropic Messages API", doc.Format)
	}

	return anthropic.ContentBlockParamUnion{OfDocument: docParam}, nil
}

// convertMessage converts an Anthropic response message to the library
// format with usage metadata.
func convertMessage(message *anthropic.Message) (*docllm.ConverseResponse, error) {
	blocks := make([]*docllm.Block, 0, len(message.Content))

	for i, content := range message.Content {
		switch c := content.AsAny().(type) {
		case anthropic.TextBlock:
			text := c.Text
			blocks = append(blocks, &docllm.Block{
				BlockType:   docllm.BlockTypeText,
				Sequence:    i,
				TextContent: &text,
			})
		default:
			blocks = append(blocks, &docllm.Block{
				BlockType: string(content.Type),
				Sequence:  i,
			})
		}
	}

	resp := &docllm.ConverseResponse{
		Blocks:     blocks,
		Model:      string(message.Model),
		StopReason: string(message.StopReason),
		Usage: &docllm.TokenUsage{
			InputTokens:  int(message.Usage.InputTokens),
			OutputTokens: int(message.Usage.OutputTokens),
			TotalTokens:  int(message.Usage.InputTokens + message.Usage.OutputTokens),
		},
	}

	metadata := make(map[string]interface{})
	if message.StopSequence != "" {
		metadata["stop_sequence"] = message.StopSequence
	}
	if message.Usage.CacheCreationInputTokens > 0 {
		metadata["cache_creation_input_tokens"] = int(message.Usage.CacheCreationInputTokens)
	}
	if message.Usage.CacheReadInputTokens > 0 {
		metadata["cache_read_input_tokens"] = int(message.Usage.CacheReadInputTokens)
	}
	if len(metadata) > 0 {
		resp.Metadata = metadata
	}

	return resp, nil
}

// wrapError maps SDK failures into the library taxonomy: API rejections
// become *ProviderError with the HTTP status preserved, everything else
// (network, TLS, timeouts) is a *TransportError.
func wrapError(op string, err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		perr := &docllm.ProviderError{
			Provider:   docllm.ProviderAnthropic.String(),
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Error(),
		}

		switch {
		case apiErr.StatusCode == 429:
			perr.Err = docllm.ErrThrottled
		case apiErr.StatusCode == 401 || apiErr.StatusCode == 403:
			perr.Err = docllm.ErrInvalidAPIKey
		case apiErr.StatusCode == 404:
			perr.Err = docllm.ErrInvalidModel
		case apiErr.StatusCode == 400:
			perr.Err = docllm.ErrInvalidRequest
		case apiErr.StatusCode >= 500:
			perr.Err = docllm.ErrProviderUnavailable
		}

		return perr
	}

	return &docllm.TransportError{Op: op, Err: err}
}
