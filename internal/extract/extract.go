// Package extract is the text-extraction collaborator boundary. The
// core only ever consumes the returned plain text; binary formats
// (PDF, DOCX, OCR) are external concerns behind the same interface.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var (
	// ErrUnsupportedFormat reports a MIME type with no extractor.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrExtractionFailed reports a format that was recognised but
	// could not be read.
	ErrExtractionFailed = errors.New("text extraction failed")
)

// Extractor turns an uploaded file into plain text.
type Extractor interface {
	Extract(ctx context.Context, r io.Reader, mimeType string) (string, error)
}

// PlainTextExtractor handles plain-text and markdown uploads.
// Markdown formatting is stripped so downstream scanners see prose.
type PlainTextExtractor struct {
	maxBytes int64
}

// NewPlainTextExtractor creates an extractor capped at maxBytes per
// document; zero or negative means the default 10 MB cap.
func NewPlainTextExtractor(maxBytes int64) *PlainTextExtractor {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &PlainTextExtractor{maxBytes: maxBytes}
}

// Extract reads the document and returns its text.
func (e *PlainTextExtractor) Extract(ctx context.Context, r io.Reader, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	base := mimeType
	if i := strings.Index(base, ";"); i >= 0 {
		base = base[:i]
	}
	base = strings.TrimSpace(strings.ToLower(base))

	switch base {
	case "text/plain", "text/markdown", "":
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}

	raw, err := io.ReadAll(io.LimitReader(r, e.maxBytes))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	text := string(raw)
	if base == "text/markdown" {
		text = stripMarkdown(text)
	}
	return strings.ReplaceAll(text, "\r\n", "\n"), nil
}

var (
	linkRe   = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headerRe = regexp.MustCompile(`(?m)^#{1,6}\s+`)
)

// stripMarkdown removes common markdown markers while keeping text.
func stripMarkdown(text string) string {
	text = linkRe.ReplaceAllString(text, "$1")
	text = headerRe.ReplaceAllString(text, "")
	for _, marker := range []string{"**", "__", "`"} {
		text = strings.ReplaceAll(text, marker, "")
	}
	return text
}
