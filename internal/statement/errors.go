package statement

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDate is returned for date fragments that are not real calendar dates
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidAmount is returned for amount tokens that cannot be parsed
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrAmbiguousLine marks lines that look partly like a transaction
	ErrAmbiguousLine = errors.New("ambiguous transaction line")

	// ErrNoTransaction marks lines that are not transactions at all
	ErrNoTransaction = errors.New("no transaction on line")

	errNegativeToken = errors.New("sign belongs in the credit marker")
)

// InvalidDateError reports the fragment that failed to resolve
type InvalidDateError struct {
	Fragment string
	Reason   string
}

func (e *InvalidDateError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid date %q", e.Fragment)
	}
	return fmt.Sprintf("invalid date %q: %s", e.Fragment, e.Reason)
}

func (e *InvalidDateError) Unwrap() error {
	return ErrInvalidDate
}

// AmountParseError reports the amount text that failed to parse
type AmountParseError struct {
	Text string
	Err  error
}

func (e *AmountParseError) Error() string {
	return fmt.Sprintf("invalid amount %q: %v", e.Text, e.Err)
}

func (e *AmountParseError) Unwrap() error {
	return ErrInvalidAmount
}
