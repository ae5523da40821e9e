package bedrock

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go"

	"github.com/finsight/docllm-go"
)

func intPtr(i int) *int { return &i }
func floatPtr(f float64) *float64 { return &f }
func int64Ptr(i int64) *int64 { return &i }
func int32Ptr(i int32) *int32 { return &i }

func TestConvertMessages(t *testing.T) {
	turn := docllm.NewTurn(docllm.RoleUser)
	turn.AppendText("instructions")
	if err := turn.AppendDocument("report", docllm.FormatPDF, []byte{0x25, 0x50}); err != nil {
		t.Fatal(err)
	}
	turn.AppendText("question")

	messages, err := convertMessages([]*docllm.Turn{turn})
	if err != nil {
		t.Fatalf("convertMessages() error = %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("len(messages) = %d, want 1", len(messages))
	}

	msg := messages[0]
	if msg.Role != types.ConversationRoleUser {
		t.Errorf("Role = %s, want user", msg.Role)
	}
	if len(msg.Content) != 3 {
		t.Fatalf("len(Content) = %d, want 3", len(msg.Content))
	}

	// Block order must survive conversion exactly
	if text, ok := msg.Content[0].(*types.ContentBlockMemberText); !ok || text.Value != "instructions" {
		t.Errorf("Content[0] = %#v, want text 'instructions'", msg.Content[0])
	}
	doc, ok := msg.Content[1].(*types.ContentBlockMemberDocument)
	if !ok {
		t.Fatalf("Content[1] = %#v, want document block", msg.Content[1])
	}
	if doc.Value.Format != types.DocumentFormatPdf {
		t.Errorf("document format = %s, want pdf", doc.Value.Format)
	}
	source, ok := doc.Value.Source.(*types.DocumentSourceMemberBytes)
	if !ok {
		t.Fatalf("document source = %#v, want bytes", doc.Value.Source)
	}
	if len(source.Value) != 2 {
		t.Errorf("document bytes = %d, want 2", len(source.Value))
	}
	if text, ok := msg.Content[2].(*types.ContentBlockMemberText); !ok || text.Value != "question" {
		t.Errorf("Content[2] = %#v, want text 'question'", msg.Content[2])
	}
}

func TestConvertMessages_Errors(t *testing.T) {
	tests := []struct {
		name string
		turn *docllm.Turn
	}{
		{
			name: "unknown role",
			turn: docllm.NewTurn("system").AppendText("x"),
		},
		{
			name: "text block without content",
			turn: &docllm.Turn{
				Role:   docllm.RoleUser,
				Blocks: []*docllm.Block{{BlockType: docllm.BlockTypeText}},
			},
		},
		{
			name: "unknown block type",
			turn: &docllm.Turn{
				Role:   docllm.RoleUser,
				Blocks: []*docllm.Block{{BlockType: "image"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := convertMessages([]*docllm.Turn{tt.turn}); err == nil {
				t.Error("convertMessages() error = nil, want error")
			}
		})
	}
}

func TestConvertDocumentFormat(t *testing.T) {
	tests := []struct {
		in   docllm.DocumentFormat
		want types.DocumentFormat
	}{
		{docllm.FormatPDF, types.DocumentFormatPdf},
		{docllm.FormatCSV, types.DocumentFormatCsv},
		{docllm.FormatDOCX, types.DocumentFormatDocx},
		{docllm.FormatXLSX, types.DocumentFormatXlsx},
		{docllm.FormatHTML, types.DocumentFormatHtml},
		{docllm.FormatTXT, types.DocumentFormatTxt},
		{docllm.FormatMD, types.DocumentFormatMd},
	}

	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			got, err := convertDocumentFormat(tt.in)
			if err != nil {
				t.Fatalf("convertDocumentFormat() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("convertDocumentFormat() = %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := convertDocumentFormat(docllm.DocumentFormat("exe")); err == nil {
		t.Error("convertDocumentFormat(exe) error = nil, want error")
	}
}

func TestBuildConverseInput(t *testing.T) {
	turn := docllm.NewTurn(docllm.RoleUser).AppendText("hello")
	req := &docllm.ConverseRequest{
		Model:    "us.amazon.nova-premier-v1:0",
		System:   []string{"first", "second"},
		Messages: []*docllm.Turn{turn},
		Config: &docllm.InferenceConfig{
			MaxTokens:   intPtr(2000),
			Temperature: floatPtr(0.3),
			TopP:        floatPtr(0.9),
		},
	}

	input, err := buildConverseInput(req)
	if err != nil {
		t.Fatalf("buildConverseInput() error = %v", err)
	}

	if *input.ModelId != req.Model {
		t.Errorf("ModelId = %s, want %s", *input.ModelId, req.Model)
	}
	if len(input.System) != 2 {
		t.Fatalf("len(System) = %d, want 2", len(input.System))
	}
	if sys, ok := input.System[0].(*types.SystemContentBlockMemberText); !ok || sys.Value != "first" {
		t.Errorf("System[0] = %#v, want text 'first'", input.System[0])
	}
	if input.InferenceConfig == nil {
		t.Fatal("InferenceConfig = nil")
	}
	if *input.InferenceConfig.MaxTokens != 2000 {
		t.Errorf("MaxTokens = %d, want 2000", *input.InferenceConfig.MaxTokens)
	}
	if *input.InferenceConfig.Temperature != 0.3 {
		t.Errorf("Temperature = %g, want 0.3", *input.InferenceConfig.Temperature)
	}
}

func TestBuildConverseInput_NilConfig(t *testing.T) {
	req := &docllm.ConverseRequest{
		Model:    "us.amazon.nova-premier-v1:0",
		Messages: []*docllm.Turn{docllm.NewTurn(docllm.RoleUser).AppendText("hi")},
	}

	input, err := buildConverseInput(req)
	if err != nil {
		t.Fatalf("buildConverseInput() error = %v", err)
	}
	if input.InferenceConfig != nil {
		t.Error("InferenceConfig set for nil config, want provider defaults")
	}
	if input.System != nil {
		t.Error("System set for empty system prompt")
	}
}

func TestTransformStreamEvent(t *testing.T) {
	t.Run("message start", func(t *testing.T) {
		event, ok := transformStreamEvent(&types.ConverseStreamOutputMemberMessageStart{
			Value: types.MessageStartEvent{Role: types.ConversationRoleAssistant},
		})
		if !ok || event.Start == nil {
			t.Fatalf("event = %+v, want Start", event)
		}
		if event.Start.Role != docllm.RoleAssistant {
			t.Errorf("Role = %q, want assistant", event.Start.Role)
		}
	})

	t.Run("text delta", func(t *testing.T) {
		event, ok := transformStreamEvent(&types.ConverseStreamOutputMemberContentBlockDelta{
			Value: types.ContentBlockDeltaEvent{
				Delta: &types.ContentBlockDeltaMemberText{Value: "Hel"},
			},
		})
		if !ok || event.Delta == nil {
			t.Fatalf("event = %+v, want Delta", event)
		}
		if event.Delta.Text != "Hel" {
			t.Errorf("Text = %q, want Hel", event.Delta.Text)
		}
	})

	t.Run("message stop", func(t *testing.T) {
		event, ok := transformStreamEvent(&types.ConverseStreamOutputMemberMessageStop{
			Value: types.MessageStopEvent{StopReason: types.StopReasonEndTurn},
		})
		if !ok || event.Stop == nil {
			t.Fatalf("event = %+v, want Stop", event)
		}
		if event.Stop.StopReason != "end_turn" {
			t.Errorf("StopReason = %q, want end_turn", event.Stop.StopReason)
		}
	})

	t.Run("metadata", func(t *testing.T) {
		event, ok := transformStreamEvent(&types.ConverseStreamOutputMemberMetadata{
			Value: types.ConverseStreamMetadataEvent{
				Usage: &types.TokenUsage{
					InputTokens:  int32Ptr(100),
					OutputTokens: int32Ptr(20),
					TotalTokens:  int32Ptr(120),
				},
				Metrics: &types.ConverseStreamMetrics{LatencyMs: int64Ptr(333)},
			},
		})
		if !ok || event.Metadata == nil {
			t.Fatalf("event = %+v, want Metadata", event)
		}
		if event.Metadata.Usage.TotalTokens != 120 {
			t.Errorf("TotalTokens = %d, want 120", event.Metadata.Usage.TotalTokens)
		}
		if event.Metadata.LatencyMs == nil || *event.Metadata.LatencyMs != 333 {
			t.Errorf("LatencyMs = %v, want 333", event.Metadata.LatencyMs)
		}
	})

	t.Run("content block boundaries are dropped", func(t *testing.T) {
		if _, ok := transformStreamEvent(&types.ConverseStreamOutputMemberContentBlockStop{}); ok {
			t.Error("contentBlockStop produced a consumer event")
		}
	})
}

func TestWrapError(t *testing.T) {
	t.Run("api errors become provider errors", func(t *testing.T) {
		apiErr := &smithy.GenericAPIError{Code: "ThrottlingException", Message: "slow down"}
		err := wrapError("converse", apiErr)

		var perr *docllm.ProviderError
		if !errors.As(err, &perr) {
			t.Fatalf("error = %v, want *ProviderError", err)
		}
		if perr.Code != "ThrottlingException" {
			t.Errorf("Code = %q", perr.Code)
		}
		if !errors.Is(err, docllm.ErrThrottled) {
			t.Errorf("error does not wrap ErrThrottled: %v", err)
		}
	})

	t.Run("validation exception maps to invalid request", func(t *testing.T) {
		err := wrapError("converse", &smithy.GenericAPIError{Code: "ValidationException", Message: "bad input"})
		if !errors.Is(err, docllm.ErrInvalidRequest) {
			t.Errorf("error does not wrap ErrInvalidRequest: %v", err)
		}
	})

	t.Run("network errors become transport errors", func(t *testing.T) {
		err := wrapError("converse", errors.New("dial tcp: i/o timeout"))
		if !docllm.IsTransport(err) {
			t.Errorf("error = %v, want TransportError", err)
		}
	})
}

func TestProvider_SupportsModel(t *testing.T) {
	p := &Provider{}

	tests := []struct {
		model string
		want  bool
	}{
		{"us.amazon.nova-premier-v1:0", true},
		{"anthropic.claude-sonnet-4-5-20250929-v1:0", true},
		{"lorem-fast", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := p.SupportsModel(tt.model); got != tt.want {
				t.Errorf("SupportsModel(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}
