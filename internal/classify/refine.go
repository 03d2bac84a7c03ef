package classify

import (
	"context"
	"log/slog"

	"github.com/zombor/ccs-extract/internal/rules"
	"github.com/zombor/ccs-extract/internal/statement"
)

// Refine asks the classifier about every record left in the Other category
// and adopts its answer when it names a different known category. Failures
// are logged and leave the record unchanged. It returns how many records
// changed category.
func Refine(ctx context.Context, c Classifier, records []statement.Record, categories []string) int {
	answers := make(map[string]string)
	changed := 0

	for i := range records {
		if records[i].Category != rules.OtherCategory {
			continue
		}
		if ctx.Err() != nil {
			slog.Warn("Stopping category refinement", "error", ctx.Err())
			break
		}

		description := records[i].Details
		category, ok := answers[description]
		if !ok {
			var err error
			category, err = c.Classify(ctx, description, categories)
			if err != nil {
				slog.Warn("Classifier failed, keeping Other", "line", records[i].Line, "error", err)
				category = rules.OtherCategory
			}
			answers[description] = category
		}

		if category != rules.OtherCategory {
			slog.Debug("Refined category", "line", records[i].Line, "category", category)
			records[i].Category = category
			changed++
		}
	}
	return changed
}
