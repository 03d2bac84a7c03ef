package statement

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// monthExpr only accepts words that name a month
const monthExpr = `(?i:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\b`

// dateExpr matches "15 Mar", "15 Mar 2024", "15 March 2024", "15/03" and
// "15/03/2024"
const dateExpr = `\d{1,2}(?:\s+` + monthExpr + `\.?|/\d{1,2})(?:(?:\s+|/)\d{4})?`

var fragmentPattern = regexp.MustCompile(`^(\d{1,2})(?:\s+([A-Za-z]{3,9})\.?|/(\d{1,2}))(?:(?:\s+|/)(\d{4}))?$`)

var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// dateParts is a parsed fragment; year is 0 when the fragment has none
type dateParts struct {
	day   int
	month time.Month
	year  int
}

func parseFragment(fragment string) (dateParts, error) {
	fragment = strings.TrimSpace(fragment)
	m := fragmentPattern.FindStringSubmatch(fragment)
	if m == nil {
		return dateParts{}, &InvalidDateError{Fragment: fragment, Reason: "unrecognised format"}
	}

	var parts dateParts
	parts.day, _ = strconv.Atoi(m[1])

	if m[2] != "" {
		month, ok := monthNames[strings.ToLower(m[2])]
		if !ok {
			return dateParts{}, &InvalidDateError{Fragment: fragment, Reason: "unknown month " + m[2]}
		}
		parts.month = month
	} else {
		n, _ := strconv.Atoi(m[3])
		if n < 1 || n > 12 {
			return dateParts{}, &InvalidDateError{Fragment: fragment, Reason: "month out of range"}
		}
		parts.month = time.Month(n)
	}

	if m[4] != "" {
		parts.year, _ = strconv.Atoi(m[4])
	}

	if parts.day < 1 || parts.day > 31 {
		return dateParts{}, &InvalidDateError{Fragment: fragment, Reason: "day out of range"}
	}
	return parts, nil
}

// build validates the parts against a concrete year
func (p dateParts) build(fragment string, year int) (time.Time, error) {
	t := time.Date(year, p.month, p.day, 0, 0, 0, 0, time.UTC)
	if t.Day() != p.day || t.Month() != p.month {
		return time.Time{}, &InvalidDateError{Fragment: strings.TrimSpace(fragment), Reason: "no such day in " + p.month.String()}
	}
	return t, nil
}

// ResolveDate turns a date fragment into a full date. A fragment without a
// year takes it from the period: the start year when the month falls on or
// after the period's start month, otherwise the end year. Without a period the
// year of now is used and the second result is true.
func ResolveDate(fragment string, p Period, now time.Time) (time.Time, bool, error) {
	parts, err := parseFragment(fragment)
	if err != nil {
		return time.Time{}, false, err
	}

	if parts.year != 0 {
		t, err := parts.build(fragment, parts.year)
		return t, false, err
	}

	if !p.IsZero() {
		year := p.End.Year()
		if parts.month >= p.Start.Month() {
			year = p.Start.Year()
		}
		t, err := parts.build(fragment, year)
		return t, false, err
	}

	t, err := parts.build(fragment, now.Year())
	return t, true, err
}
