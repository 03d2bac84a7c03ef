package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OtherCategory is the category assigned when nothing else matches
const OtherCategory = "Other"

// MerchantPattern maps descriptions matching Pattern to a canonical merchant name
type MerchantPattern struct {
	Pattern *regexp.Regexp
	Name    string
}

// Category is a named bucket selected by case-insensitive keyword substrings
type Category struct {
	Name     string
	Keywords []string
}

// RuleSet holds the merchant patterns, categories and custom category rules used
// to enrich transactions. It is never mutated after construction and may be shared
// between goroutines.
type RuleSet struct {
	Merchants  []MerchantPattern
	Categories []Category
	Rules      []Rule
}

// NewRuleSet compiles the custom rules and orders them by priority
func NewRuleSet(merchants []MerchantPattern, categories []Category, customRules []Rule) (*RuleSet, error) {
	compiled := make([]Rule, 0, len(customRules))
	for _, r := range customRules {
		if err := r.compile(); err != nil {
			return nil, fmt.Errorf("compiling rule %q: %w", r.Name, err)
		}
		compiled = append(compiled, r)
	}
	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].Priority > compiled[j].Priority
	})

	return &RuleSet{
		Merchants:  merchants,
		Categories: categories,
		Rules:      compiled,
	}, nil
}

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	// trailing reference tokens: "#1234", "REF 99812", "123456", "AB12345"
	trailingCodePattern = regexp.MustCompile(`(?i)\s+(?:(?:ref|receipt|rcpt|auth|txn|inv)\s*[:#]?\s*[a-z0-9]*\d[a-z0-9]*|#\s*[a-z0-9]*\d[a-z0-9]*|[a-z]{0,4}\d{4,}[a-z0-9]*)$`)
)

// NormalizeMerchant returns the canonical merchant name for a description. The
// first matching pattern wins; without a match the description is cleaned of
// extra whitespace and trailing reference codes.
func (rs *RuleSet) NormalizeMerchant(description string) string {
	for _, m := range rs.Merchants {
		if m.Pattern.MatchString(description) {
			return m.Name
		}
	}
	return cleanDescription(description)
}

func cleanDescription(description string) string {
	cleaned := strings.TrimSpace(whitespacePattern.ReplaceAllString(description, " "))
	if cleaned == "" {
		return strings.TrimSpace(description)
	}
	for {
		stripped := trailingCodePattern.ReplaceAllString(cleaned, "")
		if stripped == cleaned || stripped == "" {
			break
		}
		cleaned = stripped
	}
	return cleaned
}

// Categorize returns the first category with a keyword contained in the
// description, or OtherCategory
func (rs *RuleSet) Categorize(description string) string {
	lower := strings.ToLower(description)
	for _, c := range rs.Categories {
		if c.Name == OtherCategory {
			continue
		}
		for _, keyword := range c.Keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(keyword)) {
				return c.Name
			}
		}
	}
	return OtherCategory
}

// Classify picks a category using the custom rules first and falls back to
// keyword categorization
func (rs *RuleSet) Classify(description string, amount decimal.Decimal, date time.Time) string {
	for i := range rs.Rules {
		if rs.Rules[i].Matches(description, amount, date) {
			return rs.Rules[i].Category
		}
	}
	return rs.Categorize(description)
}

// CategoryNames lists every category a transaction can end up in, custom rule
// categories included, with OtherCategory last
func (rs *RuleSet) CategoryNames() []string {
	seen := make(map[string]bool)
	names := make([]string, 0, len(rs.Categories)+len(rs.Rules)+1)
	add := func(name string) {
		if name == "" || name == OtherCategory || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}
	for _, c := range rs.Categories {
		add(c.Name)
	}
	for _, r := range rs.Rules {
		add(r.Category)
	}
	return append(names, OtherCategory)
}
