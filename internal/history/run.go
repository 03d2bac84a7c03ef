package history

import (
	"time"

	"github.com/zombor/ccs-extract/internal/statement"
)

// Run is one stored extraction of an uploaded statement
type Run struct {
	ID          string             `json:"id"`
	Source      string             `json:"source"`   // Name the statement was uploaded as
	Filename    string             `json:"filename"` // Stored copy of the statement
	ContentType string             `json:"content_type"`
	Period      statement.Period   `json:"period"`
	Stats       statement.Stats    `json:"stats"`
	Records     []statement.Record `json:"records"`
	Skipped     []SkippedLine      `json:"skipped,omitempty"`
	Refined     int                `json:"refined,omitempty"` // Records recategorised by the classifier
	CreatedAt   time.Time          `json:"created_at"`
}

// SkippedLine is a statement.Skipped with the reason flattened for storage
type SkippedLine struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

func skippedLines(skipped []statement.Skipped) []SkippedLine {
	lines := make([]SkippedLine, 0, len(skipped))
	for _, s := range skipped {
		reason := ""
		if s.Reason != nil {
			reason = s.Reason.Error()
		}
		lines = append(lines, SkippedLine{Line: s.Line, Text: s.Text, Reason: reason})
	}
	return lines
}
