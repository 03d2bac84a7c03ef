package statement

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts an amount token such as "$1,234.56" to a decimal,
// negated when credit is true
func ParseAmount(text string, credit bool) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, &AmountParseError{Text: text, Err: err}
	}
	if amount.IsNegative() {
		return decimal.Decimal{}, &AmountParseError{Text: text, Err: errNegativeToken}
	}
	if credit {
		amount = amount.Neg()
	}
	return amount, nil
}
