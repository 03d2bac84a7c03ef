package statement

import (
	"log/slog"
	"regexp"
	"time"
)

var periodPattern = regexp.MustCompile(`(?i)\b(?:statement\s+period|billing\s+period|period|from)\b\s*:?\s*(` + dateExpr + `)\s*(?:\bto\b|\bthrough\b|\buntil\b|-|–)\s*(` + dateExpr + `)`)

// ResolvePeriod finds the first valid period declaration in the text, such as
// "Statement Period: 1 Dec 2024 to 31 Jan 2025". Declarations where neither
// bound has a year, a bound is not a real date, or the start falls after the
// end are ignored.
func ResolvePeriod(text Text) (Period, bool) {
	for n, line := range text.Lines() {
		for _, m := range periodPattern.FindAllStringSubmatch(line, -1) {
			p, ok := periodFromBounds(m[1], m[2])
			if !ok {
				slog.Debug("Ignoring period declaration", "line", n+1, "text", m[0])
				continue
			}
			return p, true
		}
	}
	return Period{}, false
}

func periodFromBounds(startFragment, endFragment string) (Period, bool) {
	start, err := parseFragment(startFragment)
	if err != nil {
		return Period{}, false
	}
	end, err := parseFragment(endFragment)
	if err != nil {
		return Period{}, false
	}

	switch {
	case start.year == 0 && end.year == 0:
		return Period{}, false
	case start.year == 0:
		start.year = end.year
		if end.month < start.month {
			start.year--
		}
	case end.year == 0:
		end.year = start.year
		if end.month < start.month {
			end.year++
		}
	}

	s, err := start.build(startFragment, start.year)
	if err != nil {
		return Period{}, false
	}
	e, err := end.build(endFragment, end.year)
	if err != nil {
		return Period{}, false
	}
	if s.After(e) {
		return Period{}, false
	}
	return Period{Start: s, End: e}, true
}

// Contains reports whether t falls within the period, inclusive
func (p Period) Contains(t time.Time) bool {
	if p.IsZero() {
		return false
	}
	return !t.Before(p.Start) && !t.After(p.End)
}
