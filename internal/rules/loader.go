package rules

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a rule file
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatForPath picks a format from the file extension
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported rule file extension %q (use .yaml, .toml or .json)", filepath.Ext(path))
}

type fileMerchant struct {
	Pattern string `yaml:"pattern" toml:"pattern" json:"pattern"`
	Name    string `yaml:"name" toml:"name" json:"name"`
}

type fileCategory struct {
	Name     string   `yaml:"name" toml:"name" json:"name"`
	Keywords []string `yaml:"keywords" toml:"keywords" json:"keywords"`
}

type fileCondition struct {
	Operator string `yaml:"operator" toml:"operator" json:"operator"`
	Value    any    `yaml:"value" toml:"value" json:"value"`
}

type fileRule struct {
	Name        string         `yaml:"name" toml:"name" json:"name"`
	Description string         `yaml:"description" toml:"description" json:"description"`
	Pattern     string         `yaml:"pattern" toml:"pattern" json:"pattern"`
	IsRegex     *bool          `yaml:"is_regex" toml:"is_regex" json:"is_regex"`
	Category    string         `yaml:"category" toml:"category" json:"category"`
	Priority    int            `yaml:"priority" toml:"priority" json:"priority"`
	Amount      *fileCondition `yaml:"amount" toml:"amount" json:"amount"`
	Date        *fileCondition `yaml:"date" toml:"date" json:"date"`
}

type ruleFile struct {
	ReplaceDefaults bool           `yaml:"replace_defaults" toml:"replace_defaults" json:"replace_defaults"`
	Merchants       []fileMerchant `yaml:"merchants" toml:"merchants" json:"merchants"`
	Categories      []fileCategory `yaml:"categories" toml:"categories" json:"categories"`
	Rules           []fileRule     `yaml:"rules" toml:"rules" json:"rules"`
}

// Load reads a rule file. An empty path yields the default rule set.
func Load(path string) (*RuleSet, error) {
	if path == "" {
		return Default(), nil
	}

	format, err := FormatForPath(path)
	if err != nil {
		return nil, &ConfigurationInvalidError{Path: path, Problems: []string{err.Error()}}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule file: %w", err)
	}

	rs, err := parse(data, format, path)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// Parse decodes and validates rule file contents
func Parse(data []byte, format Format) (*RuleSet, error) {
	return parse(data, format, "")
}

func parse(data []byte, format Format, path string) (*RuleSet, error) {
	var f ruleFile
	if err := decode(data, format, &f); err != nil {
		return nil, &ConfigurationInvalidError{Path: path, Problems: []string{err.Error()}}
	}

	merchants, categories, customRules, problems := f.validate()
	if len(problems) > 0 {
		return nil, &ConfigurationInvalidError{Path: path, Problems: problems}
	}

	if !f.ReplaceDefaults {
		merchants = append(merchants, defaultMerchantPatterns()...)
		categories = mergeCategories(categories, defaultCategoryList())
	}

	rs, err := NewRuleSet(merchants, categories, customRules)
	if err != nil {
		return nil, &ConfigurationInvalidError{Path: path, Problems: []string{err.Error()}}
	}
	return rs, nil
}

func decode(data []byte, format Format, f *ruleFile) error {
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decoding yaml: %w", err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), f)
		if err != nil {
			return fmt.Errorf("decoding toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("decoding toml: unknown field %q", undecoded[0].String())
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(f); err != nil {
			return fmt.Errorf("decoding json: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

func (f *ruleFile) validate() ([]MerchantPattern, []Category, []Rule, []string) {
	var problems []string
	problemf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	merchants := make([]MerchantPattern, 0, len(f.Merchants))
	for i, m := range f.Merchants {
		if strings.TrimSpace(m.Name) == "" {
			problemf("merchants[%d]: name is required", i)
		}
		if m.Pattern == "" {
			problemf("merchants[%d]: pattern is required", i)
			continue
		}
		re, err := regexp.Compile("(?i)" + m.Pattern)
		if err != nil {
			problemf("merchants[%d]: pattern %q does not compile: %v", i, m.Pattern, err)
			continue
		}
		merchants = append(merchants, MerchantPattern{Pattern: re, Name: strings.TrimSpace(m.Name)})
	}

	seen := make(map[string]bool)
	categories := make([]Category, 0, len(f.Categories))
	for i, c := range f.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			problemf("categories[%d]: name is required", i)
			continue
		}
		if seen[strings.ToLower(name)] {
			problemf("categories[%d]: duplicate category %q", i, name)
			continue
		}
		seen[strings.ToLower(name)] = true
		categories = append(categories, Category{Name: name, Keywords: c.Keywords})
	}

	customRules := make([]Rule, 0, len(f.Rules))
	for i, fr := range f.Rules {
		r := Rule{
			Name:        strings.TrimSpace(fr.Name),
			Description: fr.Description,
			Pattern:     fr.Pattern,
			IsRegex:     fr.IsRegex == nil || *fr.IsRegex,
			Category:    strings.TrimSpace(fr.Category),
			Priority:    fr.Priority,
		}
		if r.Name == "" {
			problemf("rules[%d]: name is required", i)
		}
		if r.Category == "" {
			problemf("rules[%d]: category is required", i)
		}
		if r.Pattern == "" {
			problemf("rules[%d]: pattern is required", i)
		} else if err := r.compile(); err != nil {
			problemf("rules[%d]: pattern %q does not compile: %v", i, r.Pattern, err)
		}

		if fr.Amount != nil {
			cond, err := amountCondition(fr.Amount)
			if err != nil {
				problemf("rules[%d]: amount: %v", i, err)
			}
			r.Amount = cond
		}
		if fr.Date != nil {
			cond, err := dateCondition(fr.Date)
			if err != nil {
				problemf("rules[%d]: date: %v", i, err)
			}
			r.Date = cond
		}
		customRules = append(customRules, r)
	}

	return merchants, categories, customRules, problems
}

func amountCondition(c *fileCondition) (*AmountCondition, error) {
	op, err := operator(c.Operator)
	if err != nil {
		return nil, err
	}
	value, err := decimal.NewFromString(conditionValue(c.Value))
	if err != nil {
		return nil, fmt.Errorf("value %v is not a number", c.Value)
	}
	return &AmountCondition{Operator: op, Value: value}, nil
}

var dateLayouts = []string{"2006-01-02", "02/01/2006"}

func dateCondition(c *fileCondition) (*DateCondition, error) {
	op, err := operator(c.Operator)
	if err != nil {
		return nil, err
	}
	if t, ok := c.Value.(time.Time); ok {
		return &DateCondition{Operator: op, Value: t}, nil
	}
	raw := conditionValue(c.Value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &DateCondition{Operator: op, Value: t}, nil
		}
	}
	return nil, fmt.Errorf("value %q is not a date (use YYYY-MM-DD)", raw)
}

func operator(raw string) (Operator, error) {
	if raw == "" {
		return OpEqual, nil
	}
	op := Operator(strings.TrimSpace(raw))
	if !op.Valid() {
		return "", fmt.Errorf("unknown operator %q", raw)
	}
	return op, nil
}

func conditionValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(value)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case time.Time:
		return value.Format("2006-01-02")
	default:
		return fmt.Sprint(value)
	}
}

// mergeCategories puts new user categories ahead of the defaults. A user
// category sharing a default's name replaces that default's keywords in place.
func mergeCategories(user, defaults []Category) []Category {
	index := make(map[string]int, len(defaults))
	for i, c := range defaults {
		index[strings.ToLower(c.Name)] = i
	}

	merged := make([]Category, 0, len(user)+len(defaults))
	for _, c := range user {
		if i, ok := index[strings.ToLower(c.Name)]; ok {
			defaults[i].Keywords = c.Keywords
			continue
		}
		merged = append(merged, c)
	}
	return append(merged, defaults...)
}
