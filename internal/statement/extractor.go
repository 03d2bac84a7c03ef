package statement

import (
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/zombor/ccs-extract/internal/rules"
)

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Extractor turns statement text into enriched transaction records
type Extractor struct {
	rules      *rules.RuleSet
	opts       Options
	timeSource TimeSource
}

// NewExtractor creates an Extractor using the wall clock for year inference
func NewExtractor(ruleSet *rules.RuleSet, opts Options) *Extractor {
	return NewExtractorWithDeps(ruleSet, opts, &defaultTimeSource{})
}

// NewExtractorWithDeps creates an Extractor with a custom time source for testing
func NewExtractorWithDeps(ruleSet *rules.RuleSet, opts Options, timeSrc TimeSource) *Extractor {
	if ruleSet == nil {
		ruleSet = rules.Default()
	}
	return &Extractor{
		rules:      ruleSet,
		opts:       opts,
		timeSource: timeSrc,
	}
}

// Rules returns the rule set used for enrichment
func (e *Extractor) Rules() *rules.RuleSet {
	return e.rules
}

// Extract runs one extraction over the text. Lines that fail are counted and
// listed in the result; they never abort the run.
func (e *Extractor) Extract(text Text) *Result {
	result := &Result{Records: make([]Record, 0)}
	now := e.timeSource.Now()

	period, ok := ResolvePeriod(text)
	if ok {
		result.Period = period
		result.Stats.PeriodResolved = true
		slog.Debug("Resolved statement period",
			"start", period.Start.Format(time.DateOnly),
			"end", period.End.Format(time.DateOnly),
		)
	} else {
		slog.Warn("No statement period found, dates without a year use the current year", "year", now.Year())
	}

	candidates, skipped := Recognize(text, e.opts, &result.Stats)
	result.Skipped = skipped
	result.Stats.CandidatesFound = len(candidates)

	for _, c := range candidates {
		record, err := e.finish(c, period, now, &result.Stats)
		if err != nil {
			slog.Debug("Dropping candidate", "line", c.Line, "date", c.DateFragment, "amount", c.AmountText, "error", err)
			switch {
			case errors.Is(err, ErrInvalidDate):
				result.Stats.InvalidDates++
			case errors.Is(err, ErrInvalidAmount):
				result.Stats.InvalidAmounts++
			}
			result.Skipped = append(result.Skipped, Skipped{Line: c.Line, Text: c.Text, Reason: err})
			continue
		}
		result.Records = append(result.Records, record)
	}

	result.Stats.RecordsEmitted = len(result.Records)
	sortSkipped(result.Skipped)

	slog.Info("Extracted transactions",
		"candidates", result.Stats.CandidatesFound,
		"records", result.Stats.RecordsEmitted,
		"credits", result.Stats.CreditsFound,
		"skipped", result.Stats.LinesSkipped,
		"ambiguous", result.Stats.AmbiguousLines,
		"invalid_dates", result.Stats.InvalidDates,
		"invalid_amounts", result.Stats.InvalidAmounts,
	)
	return result
}

func (e *Extractor) finish(c Candidate, period Period, now time.Time, stats *Stats) (Record, error) {
	date, inferred, err := ResolveDate(c.DateFragment, period, now)
	if err != nil {
		return Record{}, err
	}

	amount, err := ParseAmount(c.AmountText, c.IsCredit)
	if err != nil {
		return Record{}, err
	}

	if inferred {
		stats.DatesWithoutYear++
	}
	if c.IsCredit {
		stats.CreditsFound++
	}
	if !period.IsZero() && !period.Contains(date) {
		slog.Debug("Transaction date outside statement period", "line", c.Line, "date", date.Format(time.DateOnly))
	}

	record := Record{
		Date:     date,
		Merchant: e.rules.NormalizeMerchant(c.Description),
		Category: e.rules.Classify(c.Description, amount, date),
		Details:  c.Description,
		Amount:   amount,
		Line:     c.Line,
	}
	slog.Debug("Recognised transaction",
		"line", c.Line,
		"date", record.Date.Format(time.DateOnly),
		"merchant", record.Merchant,
		"category", record.Category,
		"amount", record.Amount.StringFixed(2),
	)
	return record, nil
}

// sortSkipped orders skipped lines by line number; dropped candidates are
// appended after the scan
func sortSkipped(skipped []Skipped) {
	sort.SliceStable(skipped, func(i, j int) bool {
		return skipped[i].Line < skipped[j].Line
	})
}
