package document

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"

	"github.com/zombor/ccs-extract/internal/statement"
)

// Fitz extracts text page by page with MuPDF
type Fitz struct{}

// Extract reads every page of the PDF at path
func (f *Fitz) Extract(ctx context.Context, path string) (statement.Text, error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening PDF: %v", ErrDocumentUnreadable, err)
	}
	defer doc.Close()

	return pages(ctx, doc)
}

// ExtractBytes reads every page of an in-memory PDF
func (f *Fitz) ExtractBytes(ctx context.Context, data []byte, contentType string) (statement.Text, error) {
	if !isPDF(data) {
		return nil, fmt.Errorf("%w: not a PDF (content type %q)", ErrDocumentUnreadable, contentType)
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: opening PDF: %v", ErrDocumentUnreadable, err)
	}
	defer doc.Close()

	return pages(ctx, doc)
}

func pages(ctx context.Context, doc *fitz.Document) (statement.Text, error) {
	text := make(statement.Text, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := doc.Text(n)
		if err != nil {
			return nil, fmt.Errorf("%w: reading page %d: %v", ErrDocumentUnreadable, n+1, err)
		}
		text = append(text, page)
	}
	return text, nil
}
