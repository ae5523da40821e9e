package docllm

// ConverseRequest contains the parameters for an inference request.
type ConverseRequest struct {
	// Model is the model identifier (e.g., "us.amazon.nova-premier-v1:0",
	// "claude-sonnet-4-5-20250929")
	Model string

	// System is the system prompt as an ordered sequence of text blocks.
	// Set once per conversation; not mutated between requests.
	System []string

	// Messages contains the conversation history in order.
	// Each turn has a Role (user/assistant) and ordered Blocks.
	Messages []*Turn

	// Config contains the generation parameters (max tokens, sampling).
	// Nil means provider defaults for everything.
	Config *InferenceConfig
}
