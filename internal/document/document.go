package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zombor/ccs-extract/internal/statement"
)

var (
	// ErrDocumentNotFound is returned when the input file does not exist
	ErrDocumentNotFound = errors.New("document not found")

	// ErrDocumentUnreadable is returned when text cannot be pulled from a document
	ErrDocumentUnreadable = errors.New("document unreadable")
)

// Extractor pulls the text out of a statement document
type Extractor interface {
	// Extract reads the document at path
	Extract(ctx context.Context, path string) (statement.Text, error)

	// ExtractBytes reads an in-memory document of the given content type
	ExtractBytes(ctx context.Context, data []byte, contentType string) (statement.Text, error)
}

// Engine names a PDF text extraction backend
type Engine string

const (
	EngineFitz Engine = "fitz"
	EnginePDF  Engine = "pdf"
)

// New returns the PDF extractor for an engine name
func New(engine Engine) (Extractor, error) {
	switch engine {
	case EngineFitz, "":
		return &Fitz{}, nil
	case EnginePDF:
		return &PDF{}, nil
	}
	return nil, fmt.Errorf("unknown extraction engine %q (use fitz or pdf)", engine)
}

// ForPath picks an extractor for a file: plain text files are read directly,
// everything else goes to the PDF engine
func ForPath(path string, engine Engine) (Extractor, error) {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		return &PlainText{}, nil
	}
	return New(engine)
}

// Router dispatches in-memory documents by content type
type Router struct {
	PDF  Extractor
	Text Extractor
}

// NewRouter creates a Router using the given PDF engine
func NewRouter(engine Engine) (*Router, error) {
	pdf, err := New(engine)
	if err != nil {
		return nil, err
	}
	return &Router{PDF: pdf, Text: &PlainText{}}, nil
}

// Extract reads a document from disk
func (r *Router) Extract(ctx context.Context, path string) (statement.Text, error) {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		return r.Text.Extract(ctx, path)
	}
	return r.PDF.Extract(ctx, path)
}

// ExtractBytes reads an in-memory document
func (r *Router) ExtractBytes(ctx context.Context, data []byte, contentType string) (statement.Text, error) {
	switch normalizeContentType(contentType) {
	case ContentTypePDF:
		return r.PDF.ExtractBytes(ctx, data, ContentTypePDF)
	case ContentTypeText:
		return r.Text.ExtractBytes(ctx, data, ContentTypeText)
	}
	return nil, fmt.Errorf("%w: unsupported content type %q", ErrDocumentUnreadable, contentType)
}

// checkFile distinguishes a missing document from an unreadable one
func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
		}
		return fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrDocumentUnreadable, path)
	}
	return nil
}
