package docllm

import (
	"context"
	"strings"
)

// StreamResult is the reduction of a consumed event stream.
// It remains meaningful on failure: Text holds everything emitted before
// the error, and is never retracted.
type StreamResult struct {
	// Role is the responding role from the message-start event
	Role string

	// Text is the concatenation of all deltas in arrival order
	Text string

	// StopReason is set when a message-stop event arrived
	StopReason string

	// Stopped reports whether a message-stop event was seen.
	// False on failure or premature transport close.
	Stopped bool

	// Usage contains token counts, when the provider reported them
	Usage *TokenUsage

	// LatencyMs is the provider-reported latency, when available
	LatencyMs *int64
}

// DeltaFunc receives each text delta in arrival order, exactly once.
type DeltaFunc func(text string)

// Reducer states. The consumer moves Idle -> Started on message start,
// Started -> Streaming on the first delta, and Streaming -> Stopped on
// message stop; an error event or premature close is the Failed terminal.
type consumeState int

const (
	stateIdle consumeState = iota
	stateStarted
	stateStreaming
	stateStopped
)

// ConsumeStream reduces a streaming event sequence into a StreamResult,
// forwarding each text delta to onDelta (which may be nil) as it arrives.
// Deltas are forwarded in delivery order with no buffering that reorders
// them; ordering is what makes streamed output readable as it is typed.
//
// Metadata is accepted before or after the stop event; providers differ and
// neither order is an error. The consumer keeps reading after message stop
// until the channel closes so trailing metadata is not lost.
//
// On an error event, consumption halts and the error is returned together
// with the partial result. If the channel closes without a message-stop
// event, that is a *TransportError wrapping ErrStreamTruncated, again with
// the partial result intact. The caller decides whether partial text is
// usable.
func ConsumeStream(events <-chan StreamEvent, onDelta DeltaFunc) (*StreamResult, error) {
	result := &StreamResult{}
	state := stateIdle
	var text strings.Builder

	finish := func() *StreamResult {
		result.Text = text.String()
		return result
	}

	for event := range events {
		switch {
		case event.Error != nil:
			return finish(), event.Error

		case event.Start != nil:
			if state == stateIdle {
				state = stateStarted
				result.Role = event.Start.Role
			}

		case event.Delta != nil:
			state = stateStreaming
			text.WriteString(event.Delta.Text)
			if onDelta != nil {
				onDelta(event.Delta.Text)
			}

		case event.Stop != nil:
			state = stateStopped
			result.Stopped = true
			result.StopReason = event.Stop.StopReason

		case event.Metadata != nil:
			if event.Metadata.Usage != nil {
				result.Usage = event.Metadata.Usage
			}
			if event.Metadata.LatencyMs != nil {
				result.LatencyMs = event.Metadata.LatencyMs
			}
		}
	}

	if state != stateStopped {
		return finish(), &TransportError{
			Op:     "converse_stream",
			Reason: "stream closed before message stop",
			Err:    ErrStreamTruncated,
		}
	}

	return finish(), nil
}

// ConverseOnce submits the conversation as a blocking request and extracts
// the response text under the strict first-content-block contract. The raw
// response is returned alongside the text so callers keep access to usage,
// latency, and stop reason.
func ConverseOnce(ctx context.Context, p Provider, req *ConverseRequest) (string, *ConverseResponse, error) {
	resp, err := p.Converse(ctx, req)
	if err != nil {
		return "", nil, err
	}

	txt, err := resp.FirstText()
	if err != nil {
		return "", resp, err
	}

	return txt, resp, nil
}

// ConverseStreaming submits the conversation as a streaming request and
// reduces the stream in one call. Equivalent to ConverseStream followed by
// ConsumeStream; cancellation and resource release follow the provider's
// ConverseStream contract.
func ConverseStreaming(ctx context.Context, p Provider, req *ConverseRequest, onDelta DeltaFunc) (*StreamResult, error) {
	events, err := p.ConverseStream(ctx, req)
	if err != nil {
		return nil, err
	}
	return ConsumeStream(events, onDelta)
}
