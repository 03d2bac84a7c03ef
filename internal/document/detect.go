package document

import (
	"bytes"
	"path/filepath"
	"strings"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeText = "text/plain"
)

// normalizeContentType lowercases a MIME type and drops its parameters
func normalizeContentType(contentType string) string {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	switch mimeType {
	case "application/x-pdf":
		return ContentTypePDF
	}
	return mimeType
}

// isPDF checks for the %PDF- magic bytes
func isPDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF-"))
}

// DetectContentType settles on a supported content type for an upload. The
// declared type is trusted when it is one we handle; otherwise the magic bytes
// and then the file extension decide.
func DetectContentType(filename string, data []byte, declared string) string {
	mimeType := normalizeContentType(declared)
	if mimeType == ContentTypePDF || mimeType == ContentTypeText {
		return mimeType
	}

	if isPDF(data) {
		return ContentTypePDF
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return ContentTypePDF
	case ".txt":
		return ContentTypeText
	}

	if mimeType == "" {
		return "application/octet-stream"
	}
	return mimeType
}
