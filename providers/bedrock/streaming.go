package bedrock

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/finsight/docllm-go"
)

// ConverseStream submits the conversation and returns a channel of events
// delivered in generation order.
//
// The event stream is acquired when this call returns and released on every
// exit path: normal completion, mid-stream error, and context cancellation
// all reach the deferred Close on the underlying transport. Cancelling the
// consumer's context stops delivery without discarding deltas already sent.
func (p *Provider) ConverseStream(ctx context.Context, req *docllm.ConverseRequest) (<-chan docllm.StreamEvent, error) {
	if !p.SupportsModel(req.Model) {
		return nil, &docllm.ValidationError{
			Field:  "model",
			Value:  req.Model,
			Reason: "not a Bedrock model ID",
			Err:    docllm.ErrInvalidModel,
		}
	}
	if err := req.Config.Validate(); err != nil {
		return nil, err
	}

	input, err := buildConverseStreamInput(req)
	if err != nil {
		return nil, err
	}

	out, err := p.client.ConverseStream(ctx, input)
	if err != nil {
		return nil, wrapError("converse_stream", err)
	}

	eventChan := make(chan docllm.StreamEvent, 10) // Buffered to prevent blocking

	go func() {
		defer close(eventChan)

		stream := out.GetStream()
		defer stream.Close()

		for raw := range stream.Events() {
			event, ok := transformStreamEvent(raw)
			if !ok {
				continue // block boundaries and other non-content events
			}

			select {
			case <-ctx.Done():
				eventChan <- docllm.StreamEvent{
					Error: &docllm.TransportError{Op: "converse_stream", Err: ctx.Err()},
				}
				return
			case eventChan <- event:
			}
		}

		if err := stream.Err(); err != nil {
			eventChan <- docllm.StreamEvent{Error: wrapError("converse_stream", err)}
		}
	}()

	return eventChan, nil
}

// transformStreamEvent converts one Bedrock stream event to a library
// StreamEvent. The second return value is false for events with no
// consumer-visible content (content block boundaries).
//
// Bedrock delivers, in order: messageStart, contentBlockStart?,
// contentBlockDelta..., contentBlockStop, messageStop, metadata.
// Metadata position relative to messageStop is not guaranteed by this
// library's contract; the consumer tolerates either order.
func transformStreamEvent(raw types.ConverseStreamOutput) (docllm.StreamEvent, bool) {
	switch e := raw.(type) {
	case *types.ConverseStreamOutputMemberMessageStart:
		return docllm.StreamEvent{
			Start: &docllm.MessageStart{Role: string(e.Value.Role)},
		}, true

	case *types.ConverseStreamOutputMemberContentBlockDelta:
		if delta, ok := e.Value.Delta.(*types.ContentBlockDeltaMemberText); ok {
			return docllm.StreamEvent{
				Delta: &docllm.ContentDelta{Text: delta.Value},
			}, true
		}
		return docllm.StreamEvent{}, false

	case *types.ConverseStreamOutputMemberMessageStop:
		return docllm.StreamEvent{
			Stop: &docllm.MessageStop{StopReason: string(e.Value.StopReason)},
		}, true

	case *types.ConverseStreamOutputMemberMetadata:
		metadata := &docllm.StreamMetadata{}
		if e.Value.Usage != nil {
			metadata.Usage = &docllm.TokenUsage{
				InputTokens:  int(derefInt32(e.Value.Usage.InputTokens)),
				OutputTokens: int(derefInt32(e.Value.Usage.OutputTokens)),
				TotalTokens:  int(derefInt32(e.Value.Usage.TotalTokens)),
			}
		}
		if e.Value.Metrics != nil && e.Value.Metrics.LatencyMs != nil {
			latency := *e.Value.Metrics.LatencyMs
			metadata.LatencyMs = &latency
		}
		return docllm.StreamEvent{Metadata: metadata}, true

	default:
		// contentBlockStart / contentBlockStop and unknown event types
		return docllm.StreamEvent{}, false
	}
}

func derefInt32(v *int32) int32 {
	if v == nil {
		return 0
	}
	return *v
}
