package docllm

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/capabilities/bedrock.yaml
var bedrockCapabilitiesYAML []byte

//go:embed config/capabilities/anthropic.yaml
var anthropicCapabilitiesYAML []byte

// Capabilities Philosophy:
//
// This package provides MODEL METADATA for sizing document payloads against
// context windows and attachment limits. It does NOT enforce validation -
// provider APIs are the source of truth.
//
// Use cases:
//  - Check aggregate attachment size against a model's document budget
//  - Display model limits before building a large request
//  - Provide warnings (not errors) via the validation engine
//
// Capabilities may be outdated as providers release new models.
// Library users can override embedded capabilities by:
//  1. Calling LoadCapabilitiesFromFile() with custom YAML
//  2. Calling RegisterProviderCapabilities() programmatically

// ProviderCapabilities represents the full capability configuration for a provider
type ProviderCapabilities struct {
	Version     string                     `yaml:"version"`      // Semantic version (e.g., "1.0.0")
	LastUpdated string                     `yaml:"last_updated"` // ISO 8601 date (e.g., "2026-06-01")
	Provider    string                     `yaml:"provider"`
	Models      map[string]ModelCapability `yaml:"models"`
	Constraints ProviderConstraints        `yaml:"constraints"`
}

// ModelCapability represents the capabilities of a specific model
type ModelCapability struct {
	ContextWindow   int                `yaml:"context_window"`
	MaxOutputTokens int                `yaml:"max_output_tokens"`
	Streaming       bool               `yaml:"streaming"`
	Documents       DocumentCapability `yaml:"documents"`
}

// DocumentCapability defines a model's attachment limits
type DocumentCapability struct {
	// MaxCount is the maximum number of attachments per request
	MaxCount int `yaml:"max_count"`

	// MaxDocumentBytes is the per-attachment size limit
	MaxDocumentBytes int `yaml:"max_document_bytes"`

	// Formats lists the accepted file formats
	Formats []string `yaml:"formats"`
}

// SupportsFormat returns true if the format is in the model's accepted set
func (d *DocumentCapability) SupportsFormat(format DocumentFormat) bool {
	for _, f := range d.Formats {
		if f == format.String() {
			return true
		}
	}
	return false
}

// ProviderConstraints defines provider-wide parameter limits
type ProviderConstraints struct {
	TemperatureMin float64 `yaml:"temperature_min"`
	TemperatureMax float64 `yaml:"temperature_max"`
	TopPMin        float64 `yaml:"top_p_min"`
	TopPMax        float64 `yaml:"top_p_max"`
}

// CapabilityRegistry manages provider capabilities
type CapabilityRegistry struct {
	capabilities map[string]*ProviderCapabilities
	mu           sync.RWMutex
}

var (
	globalRegistry     *CapabilityRegistry
	globalRegistryOnce sync.Once
)

// GetCapabilityRegistry returns the global capability registry (singleton)
func GetCapabilityRegistry() *CapabilityRegistry {
	globalRegistryOnce.Do(func() {
		globalRegistry = &CapabilityRegistry{
			capabilities: make(map[string]*ProviderCapabilities),
		}
		// Load embedded capabilities
		if err := globalRegistry.loadEmbedded(ProviderBedrock.String(), bedrockCapabilitiesYAML); err != nil {
			// Log error but don't panic - validation will catch missing capabilities
			fmt.Fprintf(os.Stderr, "warning: failed to load bedrock capabilities: %v\n", err)
		}
		if err := globalRegistry.loadEmbedded(ProviderAnthropic.String(), anthropicCapabilitiesYAML); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to load anthropic capabilities: %v\n", err)
		}
	})
	return globalRegistry
}

// loadEmbedded parses embedded YAML and registers it under the provider name
func (r *CapabilityRegistry) loadEmbedded(provider string, data []byte) error {
	var caps ProviderCapabilities
	if err := yaml.Unmarshal(data, &caps); err != nil {
		return fmt.Errorf("parse %s capabilities: %w", provider, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.capabilities[provider] = &caps
	return nil
}

// RegisterProviderCapabilities registers or replaces capabilities for a provider
func (r *CapabilityRegistry) RegisterProviderCapabilities(provider string, caps *ProviderCapabilities) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.capabilities[provider] = caps
}

// LoadCapabilitiesFromFile loads capability YAML from a file, overriding
// any embedded data for the same provider
func (r *CapabilityRegistry) LoadCapabilitiesFromFile(provider, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read capabilities file: %w", err)
	}
	return r.loadEmbedded(provider, data)
}

// GetProviderCapabilities returns the capabilities for a provider, or nil if unknown
func (r *CapabilityRegistry) GetProviderCapabilities(provider string) *ProviderCapabilities {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.capabilities[provider]
}

// GetModelCapability returns the capability entry for a specific model.
// The second return value is false when the provider or model is unknown.
func (r *CapabilityRegistry) GetModelCapability(provider, model string) (ModelCapability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	caps, ok := r.capabilities[provider]
	if !ok {
		return ModelCapability{}, false
	}
	mc, ok := caps.Models[model]
	return mc, ok
}
