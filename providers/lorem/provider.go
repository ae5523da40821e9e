// Package lorem is a mock provider that generates lorem ipsum text.
// Used for testing and development without requiring credentials.
//
// Behavior is selected by model name:
//   - "lorem-fast" / "lorem-slow": streaming pace
//   - "lorem-cutoff": stops with reason "max_tokens"
//   - "lorem-truncate": closes the stream without a message-stop event
//     (exercises premature-transport-close handling)
//   - "lorem-fail": fails mid-stream after two deltas
//     (exercises partial-output retention)
package lorem

import (
	"context"
	"errors"
	"strings"
	"time"

	loremgen "github.com/bozaro/golorem"

	"github.com/finsight/docllm-go"
)

// Provider is a mock inference provider that generates lorem ipsum text.
type Provider struct {
	generator *loremgen.Lorem
}

// NewProvider creates a new lorem ipsum provider.
func NewProvider() *Provider {
	return &Provider{
		generator: loremgen.New(),
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() docllm.ProviderID {
	return docllm.ProviderLorem
}

// SupportsModel returns true if the model name starts with "lorem-".
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "lorem-")
}

// getStreamDelay returns the delay between words based on the model name.
func getStreamDelay(model string) time.Duration {
	if strings.Contains(model, "slow") {
		return 200 * time.Millisecond
	}
	if strings.Contains(model, "fast") {
		return 2 * time.Millisecond
	}
	return 20 * time.Millisecond
}

// Converse generates a complete lorem ipsum response after a short
// simulated processing delay.
func (p *Provider) Converse(ctx context.Context, req *docllm.ConverseRequest) (*docllm.ConverseResponse, error) {
	if err := p.validate(req); err != nil {
		return nil, err
	}

	// Simulate provider latency
	start := time.Now()
	select {
	case <-time.After(50 * time.Millisecond):
	case <-ctx.Done():
		return nil, &docllm.TransportError{Op: "converse", Err: ctx.Err()}
	}

	maxTokens := req.Config.GetMaxTokens(100)
	text, outputTokens, stopReason := p.generate(req.Model, maxTokens)
	latency := time.Since(start).Milliseconds()

	return &docllm.ConverseResponse{
		Blocks: []*docllm.Block{
			{
				BlockType:   docllm.BlockTypeText,
				Sequence:    0,
				TextContent: &text,
			},
		},
		Model:      req.Model,
		StopReason: stopReason,
		Usage: &docllm.TokenUsage{
			InputTokens:  p.estimateInputTokens(req),
			OutputTokens: outputTokens,
			TotalTokens:  p.estimateInputTokens(req) + outputTokens,
		},
		LatencyMs: &latency,
		Metadata: map[string]interface{}{
			"mock": true,
		},
	}, nil
}

// ConverseStream streams lorem ipsum word by word with model-selected pacing.
func (p *Provider) ConverseStream(ctx context.Context, req *docllm.ConverseRequest) (<-chan docllm.StreamEvent, error) {
	if err := p.validate(req); err != nil {
		return nil, err
	}

	maxTokens := req.Config.GetMaxTokens(100)
	delay := getStreamDelay(req.Model)
	truncate := strings.Contains(req.Model, "truncate")
	failMidStream := strings.Contains(req.Model, "fail")

	eventChan := make(chan docllm.StreamEvent, 10)

	go func() {
		defer close(eventChan)

		start := time.Now()
		text, outputTokens, stopReason := p.generate(req.Model, maxTokens)
		words := strings.Fields(text)

		eventChan <- docllm.StreamEvent{
			Start: &docllm.MessageStart{Role: docllm.RoleAssistant},
		}

		for i, word := range words {
			if failMidStream && i == 2 {
				eventChan <- docllm.StreamEvent{
					Error: &docllm.TransportError{
						Op:     "converse_stream",
						Reason: "simulated mid-stream failure",
						Err:    errors.New("lorem: connection reset"),
					},
				}
				return
			}

			delta := word
			if i < len(words)-1 {
				delta += " "
			}

			select {
			case <-ctx.Done():
				// Caller cancelled; release by closing the channel with
				// no further deltas. Cancellation is not an error here.
				return
			case eventChan <- docllm.StreamEvent{Delta: &docllm.ContentDelta{Text: delta}}:
			}

			if delay > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(delay):
				}
			}
		}

		if truncate {
			// Simulate the transport dropping before message stop
			return
		}

		eventChan <- docllm.StreamEvent{
			Stop: &docllm.MessageStop{StopReason: stopReason},
		}

		latency := time.Since(start).Milliseconds()
		eventChan <- docllm.StreamEvent{
			Metadata: &docllm.StreamMetadata{
				Usage: &docllm.TokenUsage{
					InputTokens:  p.estimateInputTokens(req),
					OutputTokens: outputTokens,
					TotalTokens:  p.estimateInputTokens(req) + outputTokens,
				},
				LatencyMs: &latency,
			},
		}
	}()

	return eventChan, nil
}

func (p *Provider) validate(req *docllm.ConverseRequest) error {
	if !p.SupportsModel(req.Model) {
		return &docllm.ValidationError{
			Field:  "model",
			Value:  req.Model,
			Reason: "model not supported by Lorem provider (must start with 'lorem-')",
			Err:    docllm.ErrInvalidModel,
		}
	}
	return req.Config.Validate()
}

// generate produces lorem text sized to the token budget.
// Estimate: 1 token per word.
func (p *Provider) generate(model string, maxTokens int) (text string, outputTokens int, stopReason string) {
	words := maxTokens
	stopReason = "end_turn"

	if strings.Contains(model, "cutoff") {
		stopReason = "max_tokens"
	} else if words > 25 {
		// Stop "naturally" below the cap unless simulating cutoff
		words = 25
	}

	var b strings.Builder
	for b.Len() == 0 || len(strings.Fields(b.String())) < words {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(p.generator.Sentence(5, 10))
	}

	fields := strings.Fields(b.String())
	if len(fields) > words {
		fields = fields[:words]
	}
	return strings.Join(fields, " "), len(fields), stopReason
}

// estimateInputTokens approximates input size: one token per word of text,
// plus a flat charge per document attachment.
func (p *Provider) estimateInputTokens(req *docllm.ConverseRequest) int {
	total := 0
	for _, s := range req.System {
		total += len(strings.Fields(s))
	}
	for _, turn := range req.Messages {
		for _, block := range turn.Blocks {
			if block.IsText() {
				total += len(strings.Fields(block.Text()))
			} else if block.IsDocument() {
				total += 100
			}
		}
	}
	return total
}
