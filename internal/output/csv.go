package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zombor/ccs-extract/internal/statement"
)

// DateLayout is the day-first layout used for transaction dates
const DateLayout = "02/01/2006"

// Header is the first row of every CSV file
var Header = []string{"Transaction Date", "Merchant", "Category", "Transaction Details", "Amount"}

// WriteCSV writes records in order, one row each, after the header
func WriteCSV(w io.Writer, records []statement.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Date.Format(DateLayout),
			r.Merchant,
			r.Category,
			r.Details,
			r.Amount.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row for line %d: %w", r.Line, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// WriteFile writes records as CSV to path, replacing any existing file
func WriteFile(path string, records []statement.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	return nil
}

// DefaultPath puts the CSV next to the input, with the extension swapped
func DefaultPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".csv"
}

// DebugPath is where the debug dump for an input goes
func DebugPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "_debug.txt"
}
