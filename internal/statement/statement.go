package statement

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Text is the text of a statement document, one entry per page
type Text []string

// Lines returns every line of every page in document order
func (t Text) Lines() []string {
	var lines []string
	for _, page := range t {
		lines = append(lines, strings.Split(strings.ReplaceAll(page, "\r\n", "\n"), "\n")...)
	}
	return lines
}

// Period is the date range a statement covers. The zero value means the
// statement did not declare one.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsZero reports whether the period is unresolved
func (p Period) IsZero() bool {
	return p.Start.IsZero() && p.End.IsZero()
}

// Candidate is a line that has the shape of a transaction, with its date and
// amount still unparsed
type Candidate struct {
	DateFragment string
	AmountText   string
	IsCredit     bool
	Description  string
	Line         int
	// Text is the source line, before any wrapped lines were joined
	Text string
}

// Record is a finished transaction
type Record struct {
	Date     time.Time       `json:"date"`
	Merchant string          `json:"merchant"`
	Category string          `json:"category"`
	Details  string          `json:"details"`
	Amount   decimal.Decimal `json:"amount"`
	Line     int             `json:"line"`
}

// Stats counts what happened during one extraction
type Stats struct {
	LinesScanned     int  `json:"lines_scanned"`
	CandidatesFound  int  `json:"candidates_found"`
	RecordsEmitted   int  `json:"records_emitted"`
	DatesWithoutYear int  `json:"dates_without_year"`
	CreditsFound     int  `json:"credits_found"`
	LinesSkipped     int  `json:"lines_skipped"`
	AmbiguousLines   int  `json:"ambiguous_lines"`
	InvalidDates     int  `json:"invalid_dates"`
	InvalidAmounts   int  `json:"invalid_amounts"`
	PeriodResolved   bool `json:"period_resolved"`
}

// Skipped is a line that did not become a record, with the reason
type Skipped struct {
	Line   int
	Text   string
	Reason error
}

// Result is the outcome of extracting one statement
type Result struct {
	Period  Period
	Records []Record
	Stats   Stats
	Skipped []Skipped
}
