package docllm

import (
	"context"
)

// Provider defines the interface that all inference providers implement.
// This abstraction allows supporting multiple backends (Bedrock, Anthropic,
// the lorem mock) behind one conversation model.
//
// Providers are caller-constructed handles, not process-wide state: each
// carries its own client, credentials, and timeouts, so independent
// conversations against separate Provider values need no coordination.
// A single Provider value supports one request or one open stream at a time
// per conversation; it performs no internal retries.
type Provider interface {
	// Converse submits the conversation and blocks until the complete
	// response is available.
	//
	// Errors: *ValidationError for bad input, *TransportError for network
	// failures and timeouts, *ProviderError for endpoint rejections,
	// *MalformedResponseError when the response shape is unusable.
	Converse(ctx context.Context, req *ConverseRequest) (*ConverseResponse, error)

	// ConverseStream submits the conversation and returns a channel of
	// StreamEvent delivered in generation order. The sequence is lazy,
	// finite, and non-restartable; the channel closes at the terminal
	// event or on error. Cancelling ctx before the terminal event
	// releases the underlying transport on every exit path.
	//
	// Usage:
	//   events, err := provider.ConverseStream(ctx, req)
	//   if err != nil { return err }
	//   result, err := docllm.ConsumeStream(events, func(delta string) {
	//     fmt.Print(delta)
	//   })
	ConverseStream(ctx context.Context, req *ConverseRequest) (<-chan StreamEvent, error)

	// Name returns the provider identifier
	Name() ProviderID

	// SupportsModel returns true if the provider supports the given model.
	SupportsModel(model string) bool
}
