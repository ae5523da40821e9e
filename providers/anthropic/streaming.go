package anthropic

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/finsight/docllm-go"
)

// ConverseStream submits the conversation and returns a channel of events
// delivered in generation order.
//
// Anthropic carries the stop reason in a message_delta event rather than
// message_stop, so the stop event emitted here reads it from the
// accumulated message. Usage is emitted as trailing metadata after the SDK
// stream drains, with client-measured latency.
func (p *Provider) ConverseStream(ctx context.Context, req *docllm.ConverseRequest) (<-chan docllm.StreamEvent, error) {
	if !p.SupportsModel(req.Model) {
		return nil, &docllm.ValidationError{
			Field:  "model",
			Value:  req.Model,
			Reason: "model not supported by Anthropic (must start with 'claude-')",
			Err:    docllm.ErrInvalidModel,
		}
	}
	if err := req.Config.Validate(); err != nil {
		return nil, err
	}

	apiParams, err := buildMessageParams(req)
	if err != nil {
		return nil, err
	}

	eventChan := make(chan docllm.StreamEvent, 10) // Buffered to prevent blocking

	go func() {
		defer close(eventChan)

		start := time.Now()
		stream := p.client.Messages.NewStreaming(ctx, apiParams)

		// Accumulator for stop reason and final usage
		message := anthropic.Message{}

		send := func(event docllm.StreamEvent) bool {
			select {
			case <-ctx.Done():
				eventChan <- docllm.StreamEvent{
					Error: &docllm.TransportError{Op: "converse_stream", Err: ctx.Err()},
				}
				return false
			case eventChan <- event:
				return true
			}
		}

		for stream.Next() {
			raw := stream.Current()

			if err := message.Accumulate(raw); err != nil {
				eventChan <- docllm.StreamEvent{
					Error: &docllm.MalformedResponseError{
						Provider: docllm.ProviderAnthropic.String(),
						Reason:   fmt.Sprintf("failed to accumulate message: %v", err),
					},
				}
				return
			}

			switch e := raw.AsAny().(type) {
			case anthropic.MessageStartEvent:
				if !send(docllm.StreamEvent{
					Start: &docllm.MessageStart{Role: string(e.Message.Role)},
				}) {
					return
				}

			case anthropic.ContentBlockDeltaEvent:
				if e.Delta.Type == "text_delta" {
					if !send(docllm.StreamEvent{
						Delta: &docllm.ContentDelta{Text: e.Delta.Text},
					}) {
						return
					}
				}

			case anthropic.MessageStopEvent:
				// Stop reason arrived earlier in message_delta; the
				// accumulator has it by now.
				if !send(docllm.StreamEvent{
					Stop: &docllm.MessageStop{StopReason: string(message.StopReason)},
				}) {
					return
				}
			}
		}

		if err := stream.Err(); err != nil {
			eventChan <- docllm.StreamEvent{Error: wrapError("converse_stream", err)}
			return
		}

		latency := time.Since(start).Milliseconds()
		eventChan <- docllm.StreamEvent{
			Metadata: &docllm.StreamMetadata{
				Usage: &docllm.TokenUsage{
					InputTokens:  int(message.Usage.InputTokens),
					OutputTokens: int(message.Usage.OutputTokens),
					TotalTokens:  int(message.Usage.InputTokens + message.Usage.OutputTokens),
				},
				LatencyMs: &latency,
			},
		}
	}()

	return eventChan, nil
}
