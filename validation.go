package docllm

import (
	"fmt"
	"sync"
)

// Severity indicates how serious a validation warning is
type Severity string

const (
	SeverityInfo    Severity = "info"    // Informational (might be expected)
	SeverityWarning Severity = "warning" // Potentially problematic
	SeverityError   Severity = "error"   // Likely to cause API failure
)

// WarningCode is a machine-readable identifier for validation warnings
type WarningCode string

const (
	// Model warnings
	WarningCodeModelUnknown      WarningCode = "MODEL_UNKNOWN"
	WarningCodeCapabilityMissing WarningCode = "CAPABILITY_MISSING"

	// Document warnings
	WarningCodeDocumentFormatUnsupported WarningCode = "DOCUMENT_FORMAT_UNSUPPORTED"
	WarningCodeDocumentTooLarge          WarningCode = "DOCUMENT_TOO_LARGE"
	WarningCodeTooManyDocuments          WarningCode = "TOO_MANY_DOCUMENTS"
	WarningCodeDocumentsUnsupported      WarningCode = "DOCUMENTS_UNSUPPORTED"

	// Message warnings
	WarningCodeRoleInvalid      WarningCode = "ROLE_INVALID"
	WarningCodeTurnEmpty        WarningCode = "TURN_EMPTY"
	WarningCodeDuplicateDocName WarningCode = "DUPLICATE_DOC_NAME"

	// Parameter warnings
	WarningCodeMaxTokensTooHigh      WarningCode = "MAX_TOKENS_TOO_HIGH"
	WarningCodeTemperatureOutOfRange WarningCode = "TEMPERATURE_OUT_OF_RANGE"
	WarningCodeTopPOutOfRange        WarningCode = "TOP_P_OUT_OF_RANGE"
)

// ValidationWarning represents a potential issue that might cause API failure.
// These are informational - the library doesn't block requests based on warnings.
// Provider APIs are the source of truth for validation.
type ValidationWarning struct {
	Code     WarningCode // Machine-readable code
	Category string      // "model", "document", "message", "parameter"
	Field    string      // Field that might cause issues
	Value    any         // The potentially problematic value
	Message  string      // Human-readable warning
	Severity Severity    // How serious this warning is
}

// ValidationRule interface allows adding custom validation logic
type ValidationRule interface {
	// Name returns a human-readable name for this rule
	Name() string

	// Check validates a request and returns warnings
	Check(provider string, req *ConverseRequest) []ValidationWarning
}

// ValidationEngine manages validation rules and executes them
type ValidationEngine struct {
	rules []ValidationRule
	mu    sync.RWMutex
}

var (
	globalValidationEngine     *ValidationEngine
	globalValidationEngineOnce sync.Once
)

// GetValidationEngine returns the global validation engine (singleton)
func GetValidationEngine() *ValidationEngine {
	globalValidationEngineOnce.Do(func() {
		globalValidationEngine = &ValidationEngine{
			rules: make([]ValidationRule, 0),
		}
		// Register default rules
		globalValidationEngine.registerDefaultRules()
	})
	return globalValidationEngine
}

// registerDefaultRules registers the built-in validation rules
func (ve *ValidationEngine) registerDefaultRules() {
	registry := GetCapabilityRegistry()

	ve.AddRule(&ModelValidationRule{registry: registry})
	ve.AddRule(&MessageValidationRule{})
	ve.AddRule(&DocumentValidationRule{registry: registry})
	ve.AddRule(&ParameterValidationRule{registry: registry})
}

// AddRule adds a validation rule to the engine
func (ve *ValidationEngine) AddRule(rule ValidationRule) {
	ve.mu.Lock()
	defer ve.mu.Unlock()
	ve.rules = append(ve.rules, rule)
}

// RemoveRule removes a validation rule by name
func (ve *ValidationEngine) RemoveRule(name string) bool {
	ve.mu.Lock()
	defer ve.mu.Unlock()

	for i, rule := range ve.rules {
		if rule.Name() == name {
			ve.rules = append(ve.rules[:i], ve.rules[i+1:]...)
			return true
		}
	}
	return false
}

// Validate runs all validation rules and returns warnings
func (ve *ValidationEngine) Validate(provider string, req *ConverseRequest) []ValidationWarning {
	ve.mu.RLock()
	defer ve.mu.RUnlock()

	var warnings []ValidationWarning
	for _, rule := range ve.rules {
		warnings = append(warnings, rule.Check(provider, req)...)
	}
	return warnings
}

// ModelValidationRule warns when the model is absent from the capability registry
type ModelValidationRule struct {
	registry *CapabilityRegistry
}

func (r *ModelValidationRule) Name() string {
	return "model"
}

func (r *ModelValidationRule) Check(provider string, req *ConverseRequest) []ValidationWarning {
	if _, ok := r.registry.GetModelCapability(provider, req.Model); !ok {
		return []ValidationWarning{{
			Code:     WarningCodeModelUnknown,
			Category: "model",
			Field:    "model",
			Value:    req.Model,
			Message:  fmt.Sprintf("model '%s' not found in %s capabilities (may still work - capabilities can lag provider releases)", req.Model, provider),
			Severity: SeverityInfo,
		}}
	}
	return nil
}

// MessageValidationRule checks roles, empty turns, and attachment naming
type MessageValidationRule struct{}

func (r *MessageValidationRule) Name() string {
	return "message"
}

func (r *MessageValidationRule) Check(provider string, req *ConverseRequest) []ValidationWarning {
	var warnings []ValidationWarning

	for i, turn := range req.Messages {
		if turn.Role != RoleUser && turn.Role != RoleAssistant {
			warnings = append(warnings, ValidationWarning{
				Code:     WarningCodeRoleInvalid,
				Category: "message",
				Field:    fmt.Sprintf("messages[%d].role", i),
				Value:    turn.Role,
				Message:  fmt.Sprintf("role must be '%s' or '%s'", RoleUser, RoleAssistant),
				Severity: SeverityError,
			})
		}

		if len(turn.Blocks) == 0 {
			warnings = append(warnings, ValidationWarning{
				Code:     WarningCodeTurnEmpty,
				Category: "message",
				Field:    fmt.Sprintf("messages[%d]", i),
				Value:    nil,
				Message:  "turn has no content blocks",
				Severity: SeverityError,
			})
		}

		seen := make(map[string]bool)
		for _, doc := range turn.Documents() {
			if seen[doc.Name] {
				warnings = append(warnings, ValidationWarning{
					Code:     WarningCodeDuplicateDocName,
					Category: "message",
					Field:    fmt.Sprintf("messages[%d]", i),
					Value:    doc.Name,
					Message:  fmt.Sprintf("document name '%s' appears more than once in the turn", doc.Name),
					Severity: SeverityWarning,
				})
			}
			seen[doc.Name] = true
		}
	}

	return warnings
}

// DocumentValidationRule checks attachments against the model's document budget
type DocumentValidationRule struct {
	registry *CapabilityRegistry
}

func (r *DocumentValidationRule) Name() string {
	return "document"
}

func (r *DocumentValidationRule) Check(provider string, req *ConverseRequest) []ValidationWarning {
	capability, ok := r.registry.GetModelCapability(provider, req.Model)
	if !ok {
		// ModelValidationRule already warned
		return nil
	}

	var docs []*Document
	for _, turn := range req.Messages {
		docs = append(docs, turn.Documents()...)
	}
	if len(docs) == 0 {
		return nil
	}

	var warnings []ValidationWarning

	if capability.Documents.MaxCount == 0 {
		warnings = append(warnings, ValidationWarning{
			Code:     WarningCodeDocumentsUnsupported,
			Category: "document",
			Field:    "messages",
			Value:    len(docs),
			Message:  fmt.Sprintf("model '%s' does not accept document attachments", req.Model),
			Severity: SeverityError,
		})
		return warnings
	}

	if len(docs) > capability.Documents.MaxCount {
		warnings = append(warnings, ValidationWarning{
			Code:     WarningCodeTooManyDocuments,
			Category: "document",
			Field:    "messages",
			Value:    len(docs),
			Message:  fmt.Sprintf("%d attachments exceeds the model limit of %d", len(docs), capability.Documents.MaxCount),
			Severity: SeverityError,
		})
	}

	for _, doc := range docs {
		if !capability.Documents.SupportsFormat(doc.Format) {
			warnings = append(warnings, ValidationWarning{
				Code:     WarningCodeDocumentFormatUnsupported,
				Category: "document",
				Field:    doc.Name,
				Value:    doc.Format.String(),
				Message:  fmt.Sprintf("format '%s' not accepted by model '%s'", doc.Format, req.Model),
				Severity: SeverityError,
			})
		}
		if capability.Documents.MaxDocumentBytes > 0 && len(doc.Data) > capability.Documents.MaxDocumentBytes {
			warnings = append(warnings, ValidationWarning{
				Code:     WarningCodeDocumentTooLarge,
				Category: "document",
				Field:    doc.Name,
				Value:    len(doc.Data),
				Message:  fmt.Sprintf("document '%s' is %d bytes, over the per-document limit of %d", doc.Name, len(doc.Data), capability.Documents.MaxDocumentBytes),
				Severity: SeverityError,
			})
		}
	}

	return warnings
}

// ParameterValidationRule checks inference config against provider constraints
type ParameterValidationRule struct {
	registry *CapabilityRegistry
}

func (r *ParameterValidationRule) Name() string {
	return "parameter"
}

func (r *ParameterValidationRule) Check(provider string, req *ConverseRequest) []ValidationWarning {
	if req.Config == nil {
		return nil
	}

	caps := r.registry.GetProviderCapabilities(provider)
	if caps == nil {
		return nil
	}

	var warnings []ValidationWarning

	if req.Config.Temperature != nil {
		t := *req.Config.Temperature
		if t < caps.Constraints.TemperatureMin || t > caps.Constraints.TemperatureMax {
			warnings = append(warnings, ValidationWarning{
				Code:     WarningCodeTemperatureOutOfRange,
				Category: "parameter",
				Field:    "temperature",
				Value:    t,
				Message:  fmt.Sprintf("temperature %g outside provider range [%g, %g]", t, caps.Constraints.TemperatureMin, caps.Constraints.TemperatureMax),
				Severity: SeverityError,
			})
		}
	}

	if req.Config.TopP != nil {
		p := *req.Config.TopP
		if p < caps.Constraints.TopPMin || p > caps.Constraints.TopPMax {
			warnings = append(warnings, ValidationWarning{
				Code:     WarningCodeTopPOutOfRange,
				Category: "parameter",
				Field:    "top_p",
				Value:    p,
				Message:  fmt.Sprintf("top_p %g outside provider range [%g, %g]", p, caps.Constraints.TopPMin, caps.Constraints.TopPMax),
				Severity: SeverityError,
			})
		}
	}

	if req.Config.MaxTokens != nil {
		if capability, ok := r.registry.GetModelCapability(provider, req.Model); ok && capability.MaxOutputTokens > 0 {
			if *req.Config.MaxTokens > capability.MaxOutputTokens {
				warnings = append(warnings, ValidationWarning{
					Code:     WarningCodeMaxTokensTooHigh,
					Category: "parameter",
					Field:    "max_tokens",
					Value:    *req.Config.MaxTokens,
					Message:  fmt.Sprintf("max_tokens %d exceeds model output limit %d", *req.Config.MaxTokens, capability.MaxOutputTokens),
					Severity: SeverityWarning,
				})
			}
		}
	}

	return warnings
}
