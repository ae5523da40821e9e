package docllm

// InferenceConfig holds the tunable generation parameters sent with a
// request. All fields are optional pointers to distinguish "not set" from
// "set to zero value"; unset fields fall back to provider defaults.
type InferenceConfig struct {
	// MaxTokens caps the number of tokens generated
	MaxTokens *int `json:"max_tokens,omitempty"`

	// Temperature controls sampling randomness (0.0-1.0)
	Temperature *float64 `json:"temperature,omitempty"`

	// TopP (nucleus sampling) - cumulative probability cutoff (0.0-1.0)
	TopP *float64 `json:"top_p,omitempty"`
}

// Validate range-checks the configuration. A nil config is valid.
func (c *InferenceConfig) Validate() error {
	if c == nil {
		return nil
	}

	if c.MaxTokens != nil && *c.MaxTokens < 1 {
		return &ValidationError{
			Field:  "max_tokens",
			Value:  *c.MaxTokens,
			Reason: "must be positive",
			Err:    ErrInvalidRequest,
		}
	}

	if c.Temperature != nil && (*c.Temperature < 0.0 || *c.Temperature > 1.0) {
		return &ValidationError{
			Field:  "temperature",
			Value:  *c.Temperature,
			Reason: "must be between 0.0 and 1.0",
			Err:    ErrInvalidRequest,
		}
	}

	if c.TopP != nil && (*c.TopP < 0.0 || *c.TopP > 1.0) {
		return &ValidationError{
			Field:  "top_p",
			Value:  *c.TopP,
			Reason: "must be between 0.0 and 1.0",
			Err:    ErrInvalidRequest,
		}
	}

	return nil
}

// GetMaxTokens returns max_tokens with default fallback
func (c *InferenceConfig) GetMaxTokens(defaultValue int) int {
	if c != nil && c.MaxTokens != nil {
		return *c.MaxTokens
	}
	return defaultValue
}

// GetTemperature returns temperature with default fallback
func (c *InferenceConfig) GetTemperature(defaultValue float64) float64 {
	if c != nil && c.Temperature != nil {
		return *c.Temperature
	}
	return defaultValue
}

// GetTopP returns top_p with default fallback
func (c *InferenceConfig) GetTopP(defaultValue float64) float64 {
	if c != nil && c.TopP != nil {
		return *c.TopP
	}
	return defaultValue
}
