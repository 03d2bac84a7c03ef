package document

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/zombor/ccs-extract/internal/statement"
)

// PlainText reads statements that were already converted to text. Form feeds
// separate pages.
type PlainText struct{}

// Extract reads the text file at path
func (p *PlainText) Extract(ctx context.Context, path string) (statement.Text, error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
	}
	return p.ExtractBytes(ctx, data, ContentTypeText)
}

// ExtractBytes splits in-memory text into pages
func (p *PlainText) ExtractBytes(ctx context.Context, data []byte, contentType string) (statement.Text, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: text is not valid UTF-8", ErrDocumentUnreadable)
	}
	return statement.Text(strings.Split(string(data), "\f")), nil
}
