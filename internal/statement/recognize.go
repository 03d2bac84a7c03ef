package statement

import (
	"regexp"
	"strings"
)

// Options tune line recognition
type Options struct {
	// JoinWrapped appends plain lines following a transaction to its
	// description instead of skipping them
	JoinWrapped bool
}

const amountExpr = `\$?(?:\d{1,3}(?:,\d{3})+|\d+)\.\d{2}`

var (
	transactionPattern = regexp.MustCompile(`^\s*(` + dateExpr + `)\s+(?:((?i:cr))\s+)?(` + amountExpr + `)((?i:cr)\b)?\s+(\S.*?)\s*$`)
	leadingDatePattern = regexp.MustCompile(`^\s*(` + dateExpr + `)\b`)
	amountPattern      = regexp.MustCompile(`(?:^|[\s(-])` + amountExpr + `(?:$|[\s)]|(?i:cr)\b)`)
	creditWordPattern  = regexp.MustCompile(`(?i)^cr\b`)
)

type scanState int

const (
	expectingTransaction scanState = iota
	accumulatingDescription
)

// lineScanner walks statement lines, turning transaction-shaped lines into
// candidates and recording why the others were skipped
type lineScanner struct {
	opts    Options
	stats   *Stats
	state   scanState
	pending Candidate

	candidates []Candidate
	skipped    []Skipped
}

// Recognize finds candidate transaction lines. Line numbers are 1-based over
// the whole document. Counters for scanned, skipped and ambiguous lines are
// added to stats when it is non-nil.
func Recognize(text Text, opts Options, stats *Stats) ([]Candidate, []Skipped) {
	if stats == nil {
		stats = &Stats{}
	}
	s := &lineScanner{opts: opts, stats: stats}
	for i, line := range text.Lines() {
		s.feed(i+1, line)
	}
	s.flush()
	return s.candidates, s.skipped
}

func (s *lineScanner) feed(n int, line string) {
	s.stats.LinesScanned++

	if strings.TrimSpace(line) == "" {
		s.flush()
		return
	}

	if c, ok := parseCandidate(n, line); ok {
		s.flush()
		if s.opts.JoinWrapped {
			s.pending = c
			s.state = accumulatingDescription
			return
		}
		s.candidates = append(s.candidates, c)
		return
	}

	hasDate := hasLeadingDate(line)
	hasAmount := amountPattern.MatchString(line)

	if s.state == accumulatingDescription && !hasDate && !hasAmount && !periodPattern.MatchString(line) {
		s.pending.Description += " " + strings.Join(strings.Fields(line), " ")
		return
	}
	s.flush()

	if hasDate || hasAmount {
		s.stats.AmbiguousLines++
		s.skipped = append(s.skipped, Skipped{Line: n, Text: line, Reason: ErrAmbiguousLine})
		return
	}
	s.stats.LinesSkipped++
	s.skipped = append(s.skipped, Skipped{Line: n, Text: line, Reason: ErrNoTransaction})
}

// flush emits the pending candidate, if any
func (s *lineScanner) flush() {
	if s.state != accumulatingDescription {
		return
	}
	s.candidates = append(s.candidates, s.pending)
	s.pending = Candidate{}
	s.state = expectingTransaction
}

// hasLeadingDate ignores number-word openings like "3 items" that are not dates
func hasLeadingDate(line string) bool {
	m := leadingDatePattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	_, err := parseFragment(m[1])
	return err == nil
}

func parseCandidate(n int, line string) (Candidate, bool) {
	m := transactionPattern.FindStringSubmatch(line)
	if m == nil {
		return Candidate{}, false
	}
	description := m[5]
	return Candidate{
		DateFragment: m[1],
		AmountText:   m[3],
		IsCredit:     m[2] != "" || m[4] != "" || creditWordPattern.MatchString(description),
		Description:  description,
		Line:         n,
		Text:         line,
	}, true
}
