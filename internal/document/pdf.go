package document

import (
	"bytes"
	"context"
	"fmt"

	"github.com/dslipak/pdf"

	"github.com/zombor/ccs-extract/internal/statement"
)

// PDF extracts text with a pure Go PDF reader. The whole document comes back
// as a single page.
type PDF struct{}

// Extract reads the PDF at path
func (p *PDF) Extract(ctx context.Context, path string) (statement.Text, error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}

	r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening PDF: %v", ErrDocumentUnreadable, err)
	}
	return plainText(ctx, r)
}

// ExtractBytes reads an in-memory PDF
func (p *PDF) ExtractBytes(ctx context.Context, data []byte, contentType string) (statement.Text, error) {
	if !isPDF(data) {
		return nil, fmt.Errorf("%w: not a PDF (content type %q)", ErrDocumentUnreadable, contentType)
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: opening PDF: %v", ErrDocumentUnreadable, err)
	}
	return plainText(ctx, r)
}

func plainText(ctx context.Context, r *pdf.Reader) (statement.Text, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reader, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("%w: extracting text: %v", ErrDocumentUnreadable, err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return nil, fmt.Errorf("%w: reading text: %v", ErrDocumentUnreadable, err)
	}
	return statement.Text{buf.String()}, nil
}
