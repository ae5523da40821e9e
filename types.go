package docllm

// Role constants for conversation turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Block type constants
const (
	BlockTypeText     = "text"
	BlockTypeDocument = "document" // Binary document attachment (PDF, spreadsheet, etc.)
)

// DocumentFormat identifies the file format of a document attachment.
// The set matches what the Converse-style provider APIs accept.
type DocumentFormat string

const (
	FormatPDF  DocumentFormat = "pdf"
	FormatCSV  DocumentFormat = "csv"
	FormatDOC  DocumentFormat = "doc"
	FormatDOCX DocumentFormat = "docx"
	FormatXLS  DocumentFormat = "xls"
	FormatXLSX DocumentFormat = "xlsx"
	FormatHTML DocumentFormat = "html"
	FormatTXT  DocumentFormat = "txt"
	FormatMD   DocumentFormat = "md"
)

// String returns the string representation of the format
func (f DocumentFormat) String() string {
	return string(f)
}

// IsValid returns true if the format is in the provider-recognized set
func (f DocumentFormat) IsValid() bool {
	switch f {
	case FormatPDF, FormatCSV, FormatDOC, FormatDOCX, FormatXLS, FormatXLSX, FormatHTML, FormatTXT, FormatMD:
		return true
	default:
		return false
	}
}

// Document is a binary attachment carried inside a conversation turn.
// Data is a single contiguous buffer, fully materialized before the document
// is appended; the turn owns the bytes after insertion and this library
// never mutates them.
type Document struct {
	// Name identifies the document to the model (e.g., "AMZN-2023-10K").
	// Uniqueness within a turn is recommended but not enforced.
	Name string `json:"name"`

	// Format is the document file format
	Format DocumentFormat `json:"format"`

	// Data is the raw document bytes
	Data []byte `json:"data"`
}

// Block represents one content unit of a turn: text or a document attachment.
//
// The union is closed. Exactly one of TextContent/Document is set, selected
// by BlockType:
//   - text: TextContent set, Document nil
//   - document: Document set, TextContent nil
type Block struct {
	// BlockType indicates the type of block
	// Values: "text", "document"
	BlockType string `json:"block_type"`

	// Sequence indicates the position of this block in the turn (0-indexed)
	Sequence int `json:"sequence"`

	// TextContent contains the text for text blocks
	TextContent *string `json:"text_content,omitempty"`

	// Document contains the attachment for document blocks
	Document *Document `json:"document,omitempty"`
}

// IsText returns true if this is a text block
func (b *Block) IsText() bool {
	return b.BlockType == BlockTypeText
}

// IsDocument returns true if this is a document block
func (b *Block) IsDocument() bool {
	return b.BlockType == BlockTypeDocument
}

// Text returns the block's text, or empty string for non-text blocks
func (b *Block) Text() string {
	if b.TextContent == nil {
		return ""
	}
	return *b.TextContent
}

// Turn is one role-tagged, ordered bundle of content blocks.
//
// A turn is created empty and grows only by appends; block order is exactly
// append order, and that order is meaningful to the model (instructions,
// then attachments, then questions, in this library's usage pattern).
// A turn passed to a Provider must not be mutated until the request
// completes; appending more content afterward is how multi-turn context
// accumulates on the same buffer.
type Turn struct {
	// Role is either "user" or "assistant"
	Role string `json:"role"`

	// Blocks is the ordered list of content blocks for this turn
	Blocks []*Block `json:"blocks"`
}

// NewTurn creates an empty turn with the given role.
func NewTurn(role string) *Turn {
	return &Turn{Role: role}
}

// AppendText appends a text block to the end of the turn.
func (t *Turn) AppendText(text string) *Turn {
	t.Blocks = append(t.Blocks, &Block{
		BlockType:   BlockTypeText,
		Sequence:    len(t.Blocks),
		TextContent: &text,
	})
	return t
}

// AppendDocument appends a document block to the end of the turn.
// The bytes must be non-empty and the format must be provider-recognized;
// violations fail with a *ValidationError and leave the turn unchanged.
func (t *Turn) AppendDocument(name string, format DocumentFormat, data []byte) error {
	if len(data) == 0 {
		return &ValidationError{
			Field:  "data",
			Value:  name,
			Reason: "document bytes must be non-empty",
			Err:    ErrInvalidRequest,
		}
	}
	if !format.IsValid() {
		return &ValidationError{
			Field:  "format",
			Value:  format.String(),
			Reason: "unrecognized document format",
			Err:    ErrInvalidRequest,
		}
	}

	t.Blocks = append(t.Blocks, &Block{
		BlockType: BlockTypeDocument,
		Sequence:  len(t.Blocks),
		Document: &Document{
			Name:   name,
			Format: format,
			Data:   data,
		},
	})
	return nil
}

// Documents returns the turn's document attachments in append order.
func (t *Turn) Documents() []*Document {
	var docs []*Document
	for _, b := range t.Blocks {
		if b.IsDocument() {
			docs = append(docs, b.Document)
		}
	}
	return docs
}

// DocumentBytes returns the aggregate size of all attachments in the turn.
// Useful for checking against a model's document budget before submitting.
func (t *Turn) DocumentBytes() int {
	total := 0
	for _, b := range t.Blocks {
		if b.IsDocument() {
			total += len(b.Document.Data)
		}
	}
	return total
}
