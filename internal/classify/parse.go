package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory is returned when the model answers with a category that
// is not in the list it was given
var ErrUnknownCategory = errors.New("unknown category")

type categoryAnswer struct {
	Category string `json:"category"`
}

// parseCategoryJSON pulls the category out of a model response and maps it
// onto the known category names
func parseCategoryJSON(text string, categories []string) (string, error) {
	text = strings.TrimSpace(text)

	// Remove opening markdown code blocks
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return "", fmt.Errorf("no JSON object found in response")
	}
	endIdx := strings.LastIndex(text, "}")
	if endIdx < startIdx {
		return "", fmt.Errorf("invalid JSON object in response")
	}
	text = text[startIdx : endIdx+1]

	var answer categoryAnswer
	if err := json.Unmarshal([]byte(text), &answer); err != nil {
		return "", fmt.Errorf("unmarshaling json: %w", err)
	}

	category := strings.TrimSpace(answer.Category)
	for _, c := range categories {
		if strings.EqualFold(c, category) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, category)
}
