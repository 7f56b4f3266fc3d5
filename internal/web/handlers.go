package web

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kpoder/csvguard/internal/core"
	"github.com/kpoder/csvguard/internal/logging"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{"status": "ok"})
}

// handleListRegulations returns the selectable regulation catalog.
func (s *Server) handleListRegulations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.service.Regulations())
}

// handleRegulationFields returns the required-field list for a regulation.
// Without a regulation ID, the default list is returned.
func (s *Server) handleRegulationFields(w http.ResponseWriter, r *http.Request) {
	regulationID := chi.URLParam(r, "regulationID")

	fields, err := s.service.RegulationFields(regulationID)
	if err != nil {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, r, map[string]any{
		"regulation": regulationID,
		"fields":     fields,
	})
}

// handleUpload accepts a multipart CSV upload and opens a validation session.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, r, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to read file")
		return
	}

	summary, err := s.service.Upload(r.Context(), header.Filename, content)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	logging.FromContext(r.Context()).Info("upload accepted",
		"session_id", summary.SessionID,
		"filename", summary.FileName,
		"rows", summary.RowCount,
		"encoding", summary.Encoding,
	)

	writeJSON(w, r, summary)
}

// handleValidate runs batch validation for a pending session.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, r, http.StatusBadRequest, "missing session_id")
		return
	}

	start := time.Now()
	report, err := s.service.Validate(r.Context(), req.toServiceRequest())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	logging.FromContext(r.Context()).Info("validation completed",
		"session_id", req.SessionID,
		"regulation", req.Regulation,
		"total", report.TotalRows,
		"invalid", report.InvalidRows,
		"duration", time.Since(start),
	)

	writeJSON(w, r, report)
}

// handleReport re-serves the retained report for a session.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	report, ok := s.service.Report(sessionID)
	if !ok {
		writeError(w, r, http.StatusNotFound, "no report for session")
		return
	}

	writeJSON(w, r, report)
}

// handleExportErrors streams the detailed error projection as CSV.
func (s *Server) handleExportErrors(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	report, ok := s.service.Report(sessionID)
	if !ok {
		writeError(w, r, http.StatusNotFound, "no report for session")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "validation-errors-"+sessionID+".csv"))

	cw := csv.NewWriter(w)
	defer cw.Flush()

	cw.Write([]string{"row", "code", "field", "error_type", "invalid_value"})
	for _, d := range report.DetailedErrors() {
		cw.Write([]string{
			strconv.Itoa(d.RowNumber),
			d.Code,
			d.FieldName,
			d.ErrorType,
			d.InvalidValue,
		})
	}
}

// handleDeleteSession drops a session and its retained report.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	s.service.DropSession(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

// validateRequestBody is the wire shape of a validate call.
type validateRequestBody struct {
	SessionID      string            `json:"session_id"`
	Regulation     string            `json:"regulation,omitempty"`
	RequiredFields []string          `json:"required_fields,omitempty"`
	Mapping        map[string]string `json:"mapping,omitempty"`
}

func (b validateRequestBody) toServiceRequest() core.ValidateRequest {
	return core.ValidateRequest{
		SessionID:      b.SessionID,
		RegulationID:   b.Regulation,
		RequiredFields: b.RequiredFields,
		Mapping:        b.Mapping,
	}
}
