package bedrock

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/finsight/docllm-go"
)

// Provider implements the docllm.Provider interface for AWS Bedrock's
// Converse API. The request model here (modelId, system, messages,
// inferenceConfig) maps onto Converse directly, including document
// attachments as in-message byte payloads.
type Provider struct {
	client *bedrockruntime.Client
}

// NewProvider creates a Bedrock provider in the given region using the
// default AWS credential chain.
//
// The client is configured with a no-op retryer: every request is a single
// attempt, and retry policy is left entirely to the caller. Throttling
// surfaces as a *docllm.ProviderError immediately.
func NewProvider(ctx context.Context, region string) (*Provider, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Provider{
		client: bedrockruntime.NewFromConfig(cfg),
	}, nil
}

// NewProviderFromClient creates a provider around an existing Bedrock
// runtime client. Useful when the caller manages AWS configuration
// (custom HTTP client, timeouts, endpoint overrides) itself.
func NewProviderFromClient(client *bedrockruntime.Client) *Provider {
	return &Provider{client: client}
}

// Name returns the provider identifier.
func (p *Provider) Name() docllm.ProviderID {
	return docllm.ProviderBedrock
}

// SupportsModel returns true if this provider supports the given model.
// Bedrock model IDs are namespaced with dots, e.g. "us.amazon.nova-premier-v1:0"
// or "anthropic.claude-sonnet-4-5-20250929-v1:0".
func (p *Provider) SupportsModel(model string) bool {
	return strings.Contains(model, ".")
}

// Converse submits the conversation and blocks until the complete response
// is available.
func (p *Provider) Converse(ctx context.Context, req *docllm.ConverseRequest) (*docllm.ConverseResponse, error) {
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

	input, err := buildConverseInput(req)
	if err != nil {
		return nil, err
	}

	out, err := p.client.Converse(ctx, input)
	if err != nil {
		return nil, wrapError("converse", err)
	}

	return convertConverseOutput(req.Model, out)
}
