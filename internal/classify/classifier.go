package classify

import (
	"context"
	"fmt"
	"strings"
)

// Classifier asks a language model to place a transaction in one of the
// known categories
type Classifier interface {
	// Classify returns one of categories for the transaction description
	Classify(ctx context.Context, description string, categories []string) (string, error)
	// Close closes the classifier and releases resources
	Close() error
}

// categoryPrompt is the shared prompt used by all LLM providers
const categoryPrompt = `You are categorising a line from an Australian credit card statement.

Transaction description: %q

Choose exactly one category from this list:
%s

Return ONLY valid JSON in this exact format:
{"category": "<one of the categories above>"}

Important:
- Use the category name exactly as written in the list
- If nothing fits, use "Other"
- Do not include any text before or after the JSON
- Do not use markdown code blocks`

func buildPrompt(description string, categories []string) string {
	var list strings.Builder
	for _, c := range categories {
		list.WriteString("- ")
		list.WriteString(c)
		list.WriteString("\n")
	}
	return fmt.Sprintf(categoryPrompt, description, strings.TrimRight(list.String(), "\n"))
}
