package anthropic

import (
	"context"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/finsight/docllm-go"
)

// Provider implements the docllm.Provider interface for Anthropic (Claude)
// models. Documents travel as Anthropic document blocks: base64 PDF sources
// for PDFs, plain-text sources for the text-like formats.
type Provider struct {
	client *anthropic.Client
}

// NewProvider creates a new Anthropic provider with the given API key.
// Retries are disabled; single attempt per request, like every provider
// in this library.
func NewProvider(apiKey string) (*Provider, error) {
	if apiKey == "" {
		return nil, docllm.ErrInvalidAPIKey
	}

	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	)

	return &Provider{
		client: &client,
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() docllm.ProviderID {
	return docllm.ProviderAnthropic
}

// SupportsModel returns true if this provider supports the given model.
// Anthropic models start with "claude-"
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "claude-")
}

// Converse submits the conversation and blocks until Claude's complete
// response is available. Latency is measured client-side; Anthropic does
// not report it.
func (p *Provider) Converse(ctx context.Context, req *docllm.ConverseRequest) (*docllm.ConverseResponse, error) {
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

	start := time.Now()
	message, err := p.client.Messages.New(ctx, apiParams)
	if err != nil {
		return nil, wrapError("converse", err)
	}
	latency := time.Since(start).Milliseconds()

	resp, err := convertMessage(message)
	if err != nil {
		return nil, err
	}
	resp.LatencyMs = &latency

	return resp, nil
}
