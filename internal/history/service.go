package history

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/ccs-extract/internal/classify"
	"github.com/zombor/ccs-extract/internal/document"
	"github.com/zombor/ccs-extract/internal/output"
	"github.com/zombor/ccs-extract/internal/statement"
)

// IDGenerator generates unique IDs for runs
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates random UUIDs
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service processes uploaded statements and keeps their runs
type Service struct {
	db          DB
	documents   document.Extractor
	extractor   *statement.Extractor
	storage     Storage
	classifier  classify.Classifier
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, documents document.Extractor, extractor *statement.Extractor, storage Storage) *Service {
	return NewServiceWithDeps(db, documents, extractor, storage, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, documents document.Extractor, extractor *statement.Extractor, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		documents:   documents,
		extractor:   extractor,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// SetClassifier enables the model fallback for records left in Other
func (s *Service) SetClassifier(c classify.Classifier) {
	s.classifier = c
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	filenameWhitespace  = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	base = unsafeFilenameChars.ReplaceAllString(base, "")
	base = filenameWhitespace.ReplaceAllString(base, "_")
	base = strings.Trim(base, "_")

	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}
	if base == "" {
		base = "statement"
	}
	if ext != ".pdf" && ext != ".txt" {
		ext = ""
	}
	return base + ext
}

// ProcessStatement stores an uploaded statement, extracts its transactions and
// saves the run
func (s *Service) ProcessStatement(ctx context.Context, filename string, data []byte, contentType string) (*Run, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	savedName, err := s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename)), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	text, err := s.documents.ExtractBytes(ctx, data, contentType)
	if err != nil {
		slog.Error("Failed to read statement",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		s.storage.Delete(savedName)
		return nil, fmt.Errorf("reading statement: %w", err)
	}

	result := s.extractor.Extract(text)

	refined := 0
	if s.classifier != nil {
		refined = classify.Refine(ctx, s.classifier, result.Records, s.extractor.Rules().CategoryNames())
	}

	run := &Run{
		ID:          id,
		Source:      filename,
		Filename:    savedName,
		ContentType: contentType,
		Period:      result.Period,
		Stats:       result.Stats,
		Records:     result.Records,
		Skipped:     skippedLines(result.Skipped),
		Refined:     refined,
		CreatedAt:   now,
	}

	if err := s.db.SaveRun(run); err != nil {
		s.storage.Delete(savedName)
		return nil, fmt.Errorf("saving run to database: %w", err)
	}

	slog.Info("Processed statement",
		"id", run.ID,
		"source", filename,
		"candidates", run.Stats.CandidatesFound,
		"records", run.Stats.RecordsEmitted,
	)
	return run, nil
}

// GetRun retrieves a run by ID
func (s *Service) GetRun(id string) (*Run, error) {
	run, err := s.db.GetRun(id)
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}
	return run, nil
}

// ListRuns returns all runs, newest first
func (s *Service) ListRuns() ([]*Run, error) {
	runs, err := s.db.ListRuns()
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	return runs, nil
}

// DeleteRun removes a run and its stored statement
func (s *Service) DeleteRun(id string) error {
	run, err := s.db.GetRun(id)
	if err != nil {
		return fmt.Errorf("getting run for deletion: %w", err)
	}

	if err := s.storage.Delete(run.Filename); err != nil {
		// Log error but continue with database deletion
		slog.Warn("Failed to delete file", "filename", run.Filename, "error", err)
	}

	if err := s.db.DeleteRun(id); err != nil {
		return fmt.Errorf("deleting run from database: %w", err)
	}
	return nil
}

// RunCSV renders the records of a run as CSV
func (s *Service) RunCSV(id string) ([]byte, error) {
	run, err := s.db.GetRun(id)
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}

	var buf bytes.Buffer
	if err := output.WriteCSV(&buf, run.Records); err != nil {
		return nil, fmt.Errorf("rendering csv: %w", err)
	}
	return buf.Bytes(), nil
}

// GetRunFile retrieves the original statement of a run
func (s *Service) GetRunFile(id string) ([]byte, string, error) {
	run, err := s.db.GetRun(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting run: %w", err)
	}

	data, err := s.storage.Get(run.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting run file: %w", err)
	}

	return data, run.ContentType, nil
}
