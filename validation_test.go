package docllm

import "testing"

func hasWarning(warnings []ValidationWarning, code WarningCode) bool {
	for _, w := range warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

func validRequest(model string) *ConverseRequest {
	turn := NewTurn(RoleUser)
	turn.AppendText("analyze this")
	return &ConverseRequest{
		Model:    model,
		Messages: []*Turn{turn},
	}
}

func TestValidationEngine_CleanRequest(t *testing.T) {
	engine := GetValidationEngine()

	req := validRequest("us.amazon.nova-premier-v1:0")
	if err := req.Messages[0].AppendDocument("report", FormatPDF, make([]byte, 1024)); err != nil {
		t.Fatal(err)
	}

	warnings := engine.Validate("bedrock", req)
	if len(warnings) != 0 {
		t.Errorf("Validate() = %v, want no warnings", warnings)
	}
}

func TestValidationEngine_UnknownModel(t *testing.T) {
	warnings := GetValidationEngine().Validate("bedrock", validRequest("some-new-model.v9"))
	if !hasWarning(warnings, WarningCodeModelUnknown) {
		t.Errorf("missing MODEL_UNKNOWN warning: %v", warnings)
	}
}

func TestValidationEngine_MessageRules(t *testing.T) {
	engine := GetValidationEngine()

	t.Run("bad role", func(t *testing.T) {
		req := &ConverseRequest{
			Model:    "us.amazon.nova-premier-v1:0",
			Messages: []*Turn{NewTurn("system").AppendText("x")},
		}
		warnings := engine.Validate("bedrock", req)
		if !hasWarning(warnings, WarningCodeRoleInvalid) {
			t.Errorf("missing ROLE_INVALID warning: %v", warnings)
		}
	})

	t.Run("empty turn", func(t *testing.T) {
		req := &ConverseRequest{
			Model:    "us.amazon.nova-premier-v1:0",
			Messages: []*Turn{NewTurn(RoleUser)},
		}
		warnings := engine.Validate("bedrock", req)
		if !hasWarning(warnings, WarningCodeTurnEmpty) {
			t.Errorf("missing TURN_EMPTY warning: %v", warnings)
		}
	})

	t.Run("duplicate document names", func(t *testing.T) {
		req := validRequest("us.amazon.nova-premier-v1:0")
		for i := 0; i < 2; i++ {
			if err := req.Messages[0].AppendDocument("same-name", FormatPDF, []byte{1}); err != nil {
				t.Fatal(err)
			}
		}
		warnings := engine.Validate("bedrock", req)
		if !hasWarning(warnings, WarningCodeDuplicateDocName) {
			t.Errorf("missing DUPLICATE_DOC_NAME warning: %v", warnings)
		}
	})
}

func TestValidationEngine_DocumentRules(t *testing.T) {
	engine := GetValidationEngine()

	t.Run("too many documents", func(t *testing.T) {
		req := validRequest("us.amazon.nova-premier-v1:0")
		for i := 0; i < 6; i++ {
			name := string(rune('a' + i))
			if err := req.Messages[0].AppendDocument(name, FormatPDF, []byte{1}); err != nil {
				t.Fatal(err)
			}
		}
		warnings := engine.Validate("bedrock", req)
		if !hasWarning(warnings, WarningCodeTooManyDocuments) {
			t.Errorf("missing TOO_MANY_DOCUMENTS warning: %v", warnings)
		}
	})

	t.Run("document over size limit", func(t *testing.T) {
		req := validRequest("us.amazon.nova-premier-v1:0")
		if err := req.Messages[0].AppendDocument("huge", FormatPDF, make([]byte, 5<<20)); err != nil {
			t.Fatal(err)
		}
		warnings := engine.Validate("bedrock", req)
		if !hasWarning(warnings, WarningCodeDocumentTooLarge) {
			t.Errorf("missing DOCUMENT_TOO_LARGE warning: %v", warnings)
		}
	})

	t.Run("attachments on a text-only model", func(t *testing.T) {
		req := validRequest("us.amazon.nova-micro-v1:0")
		if err := req.Messages[0].AppendDocument("doc", FormatPDF, []byte{1}); err != nil {
			t.Fatal(err)
		}
		warnings := engine.Validate("bedrock", req)
		if !hasWarning(warnings, WarningCodeDocumentsUnsupported) {
			t.Errorf("missing DOCUMENTS_UNSUPPORTED warning: %v", warnings)
		}
	})

	t.Run("format not accepted by model", func(t *testing.T) {
		req := validRequest("claude-sonnet-4-5-20250929")
		if err := req.Messages[0].AppendDocument("sheet", FormatXLSX, []byte{1}); err != nil {
			t.Fatal(err)
		}
		warnings := engine.Validate("anthropic", req)
		if !hasWarning(warnings, WarningCodeDocumentFormatUnsupported) {
			t.Errorf("missing DOCUMENT_FORMAT_UNSUPPORTED warning: %v", warnings)
		}
	})
}

func TestValidationEngine_ParameterRules(t *testing.T) {
	engine := GetValidationEngine()

	req := validRequest("us.amazon.nova-premier-v1:0")
	req.Config = &InferenceConfig{
		Temperature: float64Ptr(1.5),
		TopP:        float64Ptr(-0.1),
		MaxTokens:   intPtr(1 << 20),
	}

	warnings := engine.Validate("bedrock", req)
	if !hasWarning(warnings, WarningCodeTemperatureOutOfRange) {
		t.Errorf("missing TEMPERATURE_OUT_OF_RANGE warning: %v", warnings)
	}
	if !hasWarning(warnings, WarningCodeTopPOutOfRange) {
		t.Errorf("missing TOP_P_OUT_OF_RANGE warning: %v", warnings)
	}
	if !hasWarning(warnings, WarningCodeMaxTokensTooHigh) {
		t.Errorf("missing MAX_TOKENS_TOO_HIGH warning: %v", warnings)
	}
}
