package docllm

// StreamEvent represents a single event in a streaming response.
// Exactly one field is non-nil per event, giving consumers a single
// dispatch point instead of ad-hoc key checks.
//
// Event order from a well-behaved provider:
//
//	Start, Delta..., Stop, Metadata
//
// Metadata may also arrive before Stop; consumers must tolerate either
// order. The channel closes after the terminal event. A close with no
// prior Stop means the transport ended prematurely.
type StreamEvent struct {
	// Start marks the beginning of the response message (nil otherwise)
	Start *MessageStart

	// Delta contains incremental text for real-time display (nil otherwise)
	Delta *ContentDelta

	// Stop marks the end of generation with its reason (nil otherwise)
	Stop *MessageStop

	// Metadata contains usage and latency data (nil until the provider sends it)
	Metadata *StreamMetadata

	// Error contains any error that occurred during streaming (nil if successful)
	Error error
}

// MessageStart announces the responding role, always "assistant" in practice.
type MessageStart struct {
	Role string
}

// ContentDelta is one increment of response text, delivered in generation
// order. Deltas concatenated in arrival order reconstruct the full text.
type ContentDelta struct {
	Text string
}

// MessageStop marks the normal end of generation.
type MessageStop struct {
	// StopReason indicates why generation stopped
	// (e.g., "end_turn", "max_tokens", "content_filtered")
	StopReason string
}

// StreamMetadata carries usage and latency information. Informational only:
// the streamed text is complete and correct without it, and some providers
// omit it entirely.
type StreamMetadata struct {
	// Usage contains token counts for the request
	Usage *TokenUsage

	// LatencyMs is the provider-measured latency in milliseconds
	LatencyMs *int64
}
