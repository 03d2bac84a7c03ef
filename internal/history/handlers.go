package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/zombor/ccs-extract/internal/document"
)

// maxUploadSize caps statement uploads at 20MB
const maxUploadSize = int64(20 << 20)

// jsonError writes an error response as a JSON object
func jsonError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// writeJSON encodes v as the response body
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// runLookupError maps a service error to a response
func runLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrRunNotFound) {
		jsonError(w, "Statement not found", http.StatusNotFound)
		return
	}
	slog.Error("Error loading run", "error", err)
	jsonError(w, "Internal server error", http.StatusInternalServerError)
}

// handleHealth reports that the server is up
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListRuns returns all runs, newest first
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.service.ListRuns()
	if err != nil {
		slog.Error("Error listing runs", "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []*Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// handleUploadStatement extracts an uploaded statement
func (s *Server) handleUploadStatement(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errorMsg = fmt.Sprintf("File is too large. Maximum size is %dMB.", maxUploadSize>>20)
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		errorMsg := "No file provided"
		if errors.Is(err, http.ErrMissingFile) {
			errorMsg = "No file was selected. Please choose a statement to upload."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		jsonError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return
	}

	contentType := document.DetectContentType(header.Filename, data, header.Header.Get("Content-Type"))
	if contentType != document.ContentTypePDF && contentType != document.ContentTypeText {
		jsonError(w, fmt.Sprintf("Unsupported file type %q. Upload a PDF or text statement.", filepath.Ext(header.Filename)), http.StatusUnsupportedMediaType)
		return
	}

	run, err := s.service.ProcessStatement(r.Context(), header.Filename, data, contentType)
	if err != nil {
		s.metrics.ObserveFailure(time.Since(start))
		slog.Error("Error processing statement", "filename", header.Filename, "error", err)
		code := http.StatusInternalServerError
		if errors.Is(err, document.ErrDocumentUnreadable) {
			code = http.StatusUnprocessableEntity
		}
		jsonError(w, err.Error(), code)
		return
	}
	s.metrics.ObserveRun(run, time.Since(start))

	writeJSON(w, http.StatusCreated, run)
}

// handleGetRun returns a single run
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.service.GetRun(r.PathValue("id"))
	if err != nil {
		runLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// handleGetRunCSV returns the records of a run as CSV
func (s *Server) handleGetRunCSV(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	data, err := s.service.RunCSV(id)
	if err != nil {
		runLookupError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, strings.ReplaceAll(id, `"`, "")))
	w.Write(data)
}

// handleGetRunFile returns the original statement of a run
func (s *Server) handleGetRunFile(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.service.GetRunFile(r.PathValue("id"))
	if err != nil {
		runLookupError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleDeleteRun deletes a run and its statement
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteRun(r.PathValue("id")); err != nil {
		runLookupError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
