package docllm

// TokenUsage reports token counts for a completed request.
type TokenUsage struct {
	// InputTokens is the number of tokens in the input
	InputTokens int `json:"input_tokens"`

	// OutputTokens is the number of tokens in the output
	OutputTokens int `json:"output_tokens"`

	// TotalTokens is input + output
	TotalTokens int `json:"total_tokens"`
}

// ConverseResponse contains the provider's complete response.
type ConverseResponse struct {
	// Blocks is the list of content blocks returned by the provider
	Blocks []*Block

	// Model is the model that was used (may differ from request if aliased)
	Model string

	// StopReason indicates why generation stopped
	// (e.g., "end_turn", "max_tokens", "content_filtered")
	StopReason string

	// Usage contains token counts, when the provider reported them
	Usage *TokenUsage

	// LatencyMs is the provider-reported request latency in milliseconds,
	// when available
	LatencyMs *int64

	// Metadata contains provider-specific response data
	Metadata map[string]interface{}
}

// FirstText returns the text of the response's first content block.
//
// This is a deliberately strict contract: the expected shape is a single
// leading text block. A response with zero blocks, or with a non-text block
// at index 0, fails with *MalformedResponseError rather than degrading to
// an empty string.
func (r *ConverseResponse) FirstText() (string, error) {
	if len(r.Blocks) == 0 {
		return "", &MalformedResponseError{
			Provider: r.Model,
			Reason:   "response contains no content blocks",
		}
	}
	first := r.Blocks[0]
	if !first.IsText() || first.TextContent == nil {
		return "", &MalformedResponseError{
			Provider: r.Model,
			Reason:   "first content block is not text (got " + first.BlockType + ")",
		}
	}
	return *first.TextContent, nil
}
