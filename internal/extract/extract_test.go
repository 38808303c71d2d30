package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestExtract_PlainText(t *testing.T) {
	e := NewPlainTextExtractor(0)
	text, err := e.Extract(context.Background(), strings.NewReader("line one\r\nline two"), "text/plain; charset=utf-8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "line one\nline two" {
		t.Errorf("text = %q, line endings should be normalized", text)
	}
}

func TestExtract_Markdown(t *testing.T) {
	e := NewPlainTextExtractor(0)
	md := "# Heading\nThe **accused** was [served](http://example.com) a notice."
	text, err := e.Extract(context.Background(), strings.NewReader(md), "text/markdown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(text, "**") || strings.Contains(text, "](") || strings.Contains(text, "# ") {
		t.Errorf("markdown markers should be stripped: %q", text)
	}
	if !strings.Contains(text, "served") {
		t.Errorf("link text should be preserved: %q", text)
	}
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	e := NewPlainTextExtractor(0)
	_, err := e.Extract(context.Background(), strings.NewReader("%PDF-1.4"), "application/pdf")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}
