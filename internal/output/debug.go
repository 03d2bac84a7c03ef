package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/zombor/ccs-extract/internal/statement"
)

// WriteDebug dumps the raw page text, the run statistics and every skipped
// line with its reason
func WriteDebug(w io.Writer, text statement.Text, result *statement.Result) error {
	bw := bufio.NewWriter(w)

	for i, page := range text {
		fmt.Fprintf(bw, "--- PAGE %d ---\n", i+1)
		fmt.Fprintln(bw, page)
	}

	fmt.Fprintln(bw, "--- STATISTICS ---")
	if result.Stats.PeriodResolved {
		fmt.Fprintf(bw, "Statement period: %s to %s\n",
			result.Period.Start.Format(time.DateOnly), result.Period.End.Format(time.DateOnly))
	} else {
		fmt.Fprintln(bw, "Statement period: unresolved")
	}
	s := result.Stats
	fmt.Fprintf(bw, "Lines scanned: %d\n", s.LinesScanned)
	fmt.Fprintf(bw, "Candidates found: %d\n", s.CandidatesFound)
	fmt.Fprintf(bw, "Records emitted: %d\n", s.RecordsEmitted)
	fmt.Fprintf(bw, "Credits: %d\n", s.CreditsFound)
	fmt.Fprintf(bw, "Dates without year: %d\n", s.DatesWithoutYear)
	fmt.Fprintf(bw, "Lines skipped: %d\n", s.LinesSkipped)
	fmt.Fprintf(bw, "Ambiguous lines: %d\n", s.AmbiguousLines)
	fmt.Fprintf(bw, "Invalid dates: %d\n", s.InvalidDates)
	fmt.Fprintf(bw, "Invalid amounts: %d\n", s.InvalidAmounts)

	fmt.Fprintln(bw, "--- SKIPPED LINES ---")
	for _, sk := range result.Skipped {
		fmt.Fprintf(bw, "%d: %s (%v)\n", sk.Line, sk.Text, sk.Reason)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing debug output: %w", err)
	}
	return nil
}

// WriteDebugFile writes the debug dump to path
func WriteDebugFile(path string, text statement.Text, result *statement.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating debug file: %w", err)
	}
	if err := WriteDebug(f, text, result); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing debug file: %w", err)
	}
	return nil
}

// Summary prints the one-line report shown after every run
func Summary(w io.Writer, path string, result *statement.Result) {
	s := result.Stats
	fmt.Fprintf(w, "Processed %d transactions (%d candidates, %d skipped, %d ambiguous)\n",
		s.RecordsEmitted, s.CandidatesFound, s.LinesSkipped, s.AmbiguousLines)
	if path != "" {
		fmt.Fprintf(w, "Output written to: %s\n", path)
	}
}
