// Package docsource materializes document bytes for conversation
// attachments. Sources are HTTP URLs or local files; either way the bytes
// are fully read into one contiguous buffer before being handed to a turn.
package docsource

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/finsight/docllm-go"
)

// DefaultMaxBytes caps fetched document size at 50 MB, comfortably above
// any provider's per-document limit while bounding memory per fetch.
const DefaultMaxBytes = 50 << 20

// Fetcher downloads documents over HTTP with explicit connect and read
// timeouts. Exceeding either is a *docllm.TransportError, distinguishable
// from an HTTP-level rejection which is reported with its status code.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
	logger   *slog.Logger
}

// Options configures a Fetcher. Zero values select the defaults.
type Options struct {
	// ConnectTimeout bounds connection establishment (default 10s)
	ConnectTimeout time.Duration

	// ReadTimeout bounds the entire fetch including body download
	// (default 2m; report PDFs run tens of megabytes)
	ReadTimeout time.Duration

	// MaxBytes caps the response body size (default DefaultMaxBytes)
	MaxBytes int64

	// Logger receives fetch progress at debug level (default slog.Default)
	Logger *slog.Logger
}

// NewFetcher creates a Fetcher with the given options.
func NewFetcher(opts Options) *Fetcher {
	connectTimeout := opts.ConnectTimeout
	if connectTimeout == 0 {
		connectTimeout = 10 * time.Second
	}
	readTimeout := opts.ReadTimeout
	if readTimeout == 0 {
		readTimeout = 2 * time.Minute
	}
	maxBytes := opts.MaxBytes
	if maxBytes == 0 {
		maxBytes = DefaultMaxBytes
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: readTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: connectTimeout,
				}).DialContext,
				TLSHandshakeTimeout: connectTimeout,
			},
		},
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Fetch downloads a document and returns it with its format inferred from
// the URL path extension, falling back to the Content-Type header.
func (f *Fetcher) Fetch(ctx context.Context, name, url string) (*docllm.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &docllm.ValidationError{
			Field:  "url",
			Value:  url,
			Reason: "malformed URL",
			Err:    docllm.ErrInvalidRequest,
		}
	}

	f.logger.Debug("fetching document", "name", name, "url", url)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &docllm.TransportError{Op: "fetch", Reason: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &docllm.TransportError{
			Op:     "fetch",
			Reason: fmt.Sprintf("%s returned status %d", url, resp.StatusCode),
			Err:    fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &docllm.TransportError{Op: "fetch", Reason: url, Err: err}
	}
	if int64(len(data)) > f.maxBytes {
		return nil, &docllm.ValidationError{
			Field:  "url",
			Value:  url,
			Reason: fmt.Sprintf("document exceeds %d byte limit", f.maxBytes),
			Err:    docllm.ErrInvalidRequest,
		}
	}

	format, ok := inferFormat(url, resp.Header.Get("Content-Type"))
	if !ok {
		return nil, &docllm.ValidationError{
			Field:  "format",
			Value:  url,
			Reason: "could not infer a recognized document format",
			Err:    docllm.ErrInvalidRequest,
		}
	}

	f.logger.Debug("fetched document",
		"name", name, "format", format.String(), "bytes", len(data))

	return &docllm.Document{Name: name, Format: format, Data: data}, nil
}

// ReadFile materializes a local file as a document, inferring the format
// from the file extension.
func ReadFile(name, path string) (*docllm.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document file: %w", err)
	}

	format, ok := formatFromExtension(filepath.Ext(path))
	if !ok {
		return nil, &docllm.ValidationError{
			Field:  "format",
			Value:  path,
			Reason: "could not infer a recognized document format from extension",
			Err:    docllm.ErrInvalidRequest,
		}
	}

	return &docllm.Document{Name: name, Format: format, Data: data}, nil
}

// inferFormat resolves the document format from the URL extension first,
// then the Content-Type header.
func inferFormat(url, contentType string) (docllm.DocumentFormat, bool) {
	trimmed := url
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	if format, ok := formatFromExtension(filepath.Ext(trimmed)); ok {
		return format, true
	}

	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil {
			if format, ok := formatFromMediaType(mt); ok {
				return format, true
			}
		}
	}

	return "", false
}

func formatFromExtension(ext string) (docllm.DocumentFormat, bool) {
	format := docllm.DocumentFormat(strings.TrimPrefix(strings.ToLower(ext), "."))
	if format == "htm" {
		format = docllm.FormatHTML
	}
	if format == "markdown" {
		format = docllm.FormatMD
	}
	if !format.IsValid() {
		return "", false
	}
	return format, true
}

func formatFromMediaType(mediaType string) (docllm.DocumentFormat, bool) {
	switch mediaType {
	case "application/pdf":
		return docllm.FormatPDF, true
	case "text/csv":
		return docllm.FormatCSV, true
	case "text/html":
		return docllm.FormatHTML, true
	case "text/plain":
		return docllm.FormatTXT, true
	case "text/markdown":
		return docllm.FormatMD, true
	case "application/msword":
		return docllm.FormatDOC, true
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return docllm.FormatDOCX, true
	case "application/vnd.ms-excel":
		return docllm.FormatXLS, true
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return docllm.FormatXLSX, true
	default:
		return "", false
	}
}
