package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/peterbourgon/ff/v4"

	"github.com/zombor/ccs-extract/internal/classify"
)

// classifierConfig selects the optional model used for records left in Other
type classifierConfig struct {
	kind        string
	geminiKey   string
	geminiModel string
	ollamaURL   string
	ollamaModel string
}

func (c *classifierConfig) register(fs *ff.FlagSet) {
	fs.StringVar(&c.kind, 0, "classifier", "none", "Fallback classifier for uncategorized records: none, gemini or ollama")
	fs.StringVar(&c.geminiKey, 0, "gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
	fs.StringVar(&c.geminiModel, 0, "gemini-model", "gemini-2.5-flash", "Google Gemini model name")
	fs.StringVar(&c.ollamaURL, 0, "ollama-url", "http://localhost:11434", "Ollama API base URL")
	fs.StringVar(&c.ollamaModel, 0, "ollama-model", "llama3.2", "Ollama model name")
}

// build returns the configured classifier, or nil when none is selected
func (c *classifierConfig) build() (classify.Classifier, error) {
	switch c.kind {
	case "none", "":
		return nil, nil
	case "gemini":
		// Get Gemini API key from flag or environment
		apiKey := c.geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, errors.New("gemini API key is required: set --gemini-key or GEMINI_API_KEY")
		}
		slog.Info("Initializing Gemini classifier...", "model", c.geminiModel)
		g, err := classify.NewGemini(apiKey, c.geminiModel)
		if err != nil {
			return nil, fmt.Errorf("initializing gemini: %w", err)
		}
		return g, nil
	case "ollama":
		slog.Info("Initializing Ollama classifier...", "url", c.ollamaURL, "model", c.ollamaModel)
		o, err := classify.NewOllama(c.ollamaURL, c.ollamaModel)
		if err != nil {
			return nil, fmt.Errorf("initializing ollama: %w", err)
		}
		return o, nil
	}
	return nil, fmt.Errorf("invalid classifier %q (use none, gemini or ollama)", c.kind)
}
