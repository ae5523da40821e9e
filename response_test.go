package docllm

import (
	"errors"
	"testing"
)

func TestConverseResponse_FirstText(t *testing.T) {
	// The "first content block" extraction is a documented contract:
	// anything other than a leading text block is malformed, never a
	// silent empty string.
	tests := []struct {
		name     string
		blocks   []*Block
		wantText string
		wantErr  bool
	}{
		{
			name:     "single text block",
			blocks:   []*Block{{BlockType: BlockTypeText, TextContent: stringPtr("Hello")}},
			wantText: "Hello",
		},
		{
			name: "text first, more blocks after",
			blocks: []*Block{
				{BlockType: BlockTypeText, TextContent: stringPtr("answer")},
				{BlockType: BlockTypeText, TextContent: stringPtr("ignored")},
			},
			wantText: "answer",
		},
		{
			name:    "no blocks",
			blocks:  nil,
			wantErr: true,
		},
		{
			name:    "empty blocks",
			blocks:  []*Block{},
			wantErr: true,
		},
		{
			name:    "non-text first block",
			blocks:  []*Block{{BlockType: BlockTypeDocument, Document: &Document{}}},
			wantErr: true,
		},
		{
			name:    "text block missing content",
			blocks:  []*Block{{BlockType: BlockTypeText}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &ConverseResponse{Blocks: tt.blocks, Model: "lorem-fast"}
			text, err := resp.FirstText()

			if tt.wantErr {
				if err == nil {
					t.Fatal("FirstText() error = nil, want MalformedResponseError")
				}
				var malformed *MalformedResponseError
				if !errors.As(err, &malformed) {
					t.Errorf("error = %v, want *MalformedResponseError", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("FirstText() error = %v", err)
			}
			if text != tt.wantText {
				t.Errorf("FirstText() = %q, want %q", text, tt.wantText)
			}
		})
	}
}
