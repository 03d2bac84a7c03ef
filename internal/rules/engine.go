package rules

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Operator compares a transaction value against a rule condition
type Operator string

const (
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
)

// Valid reports whether o is a known operator
func (o Operator) Valid() bool {
	switch o {
	case OpEqual, OpNotEqual, OpGreater, OpGreaterEqual, OpLess, OpLessEqual:
		return true
	}
	return false
}

func (o Operator) holds(cmp int) bool {
	switch o {
	case OpEqual:
		return cmp == 0
	case OpNotEqual:
		return cmp != 0
	case OpGreater:
		return cmp > 0
	case OpGreaterEqual:
		return cmp >= 0
	case OpLess:
		return cmp < 0
	case OpLessEqual:
		return cmp <= 0
	}
	return false
}

// AmountCondition restricts a rule to amounts satisfying Operator against Value
type AmountCondition struct {
	Operator Operator
	Value    decimal.Decimal
}

// DateCondition restricts a rule to dates satisfying Operator against Value,
// compared by calendar day
type DateCondition struct {
	Operator Operator
	Value    time.Time
}

// Rule assigns Category to transactions whose description matches Pattern and
// whose amount and date satisfy the optional conditions
type Rule struct {
	Name        string
	Description string
	Pattern     string
	IsRegex     bool
	Category    string
	Priority    int
	Amount      *AmountCondition
	Date        *DateCondition

	re *regexp.Regexp
}

func (r *Rule) compile() error {
	if !r.IsRegex {
		r.re = nil
		return nil
	}
	re, err := regexp.Compile("(?i)" + r.Pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern: %w", err)
	}
	r.re = re
	return nil
}

// Matches reports whether the rule applies to a transaction
func (r *Rule) Matches(description string, amount decimal.Decimal, date time.Time) bool {
	if r.IsRegex {
		if r.re == nil || !r.re.MatchString(description) {
			return false
		}
	} else if !strings.Contains(strings.ToLower(description), strings.ToLower(r.Pattern)) {
		return false
	}

	if r.Amount != nil && !r.Amount.Operator.holds(amount.Cmp(r.Amount.Value)) {
		return false
	}

	if r.Date != nil && !r.Date.Operator.holds(compareDays(date, r.Date.Value)) {
		return false
	}

	return true
}

func compareDays(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return da.Compare(db)
}
