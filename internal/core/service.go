package core

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kpoder/csvguard/internal/csvio"
	"github.com/kpoder/csvguard/internal/regulation"
	"github.com/kpoder/csvguard/internal/session"
)

// ServiceOptions configures a Service.
type ServiceOptions struct {
	ChunkSize   int
	Workers     int
	MinAge      int
	PreviewRows int
}

// Service provides the business logic for upload and validation requests: it
// decodes uploads into sessions, runs batch validation against a chosen
// regulation, and keeps the resulting report available for export.
type Service struct {
	registry  *regulation.Registry
	validator *Validator
	sessions  *session.Store
	opts      ServiceOptions

	mu      sync.RWMutex
	reports map[string]*AggregateReport
}

// NewService creates a Service on top of an upload session store.
func NewService(sessions *session.Store, opts ServiceOptions) *Service {
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = 10
	}
	registry := regulation.NewRegistry()
	return &Service{
		registry:  registry,
		validator: NewValidator(registry, opts.MinAge),
		sessions:  sessions,
		opts:      opts,
		reports:   make(map[string]*AggregateReport),
	}
}

// Registry exposes the override registry, mainly for extension at startup.
func (s *Service) Registry() *regulation.Registry {
	return s.registry
}

// UploadSummary is what the client sees right after an upload: enough to
// choose a regulation and fix up column mapping before validating.
type UploadSummary struct {
	SessionID string              `json:"session_id"`
	FileName  string              `json:"filename"`
	Headers   []string            `json:"headers"`
	RowCount  int                 `json:"row_count"`
	Preview   []map[string]string `json:"preview"`
	Encoding  string              `json:"encoding"`
	Delimiter string              `json:"delimiter"`
	CreatedAt time.Time           `json:"created_at"`
}

// Upload decodes an uploaded CSV and stores it as a pending session.
func (s *Service) Upload(ctx context.Context, fileName string, content []byte) (*UploadSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dataset, err := csvio.ReadAll(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("decode upload %q: %w", fileName, err)
	}
	if len(dataset.Rows) == 0 {
		return nil, fmt.Errorf("upload %q contains no data rows", fileName)
	}

	sess, err := s.sessions.Create(fileName, content, dataset)
	if err != nil {
		return nil, err
	}

	preview := dataset.Rows
	if len(preview) > s.opts.PreviewRows {
		preview = preview[:s.opts.PreviewRows]
	}

	return &UploadSummary{
		SessionID: sess.ID,
		FileName:  fileName,
		Headers:   dataset.Headers,
		RowCount:  len(dataset.Rows),
		Preview:   preview,
		Encoding:  dataset.Encoding,
		Delimiter: string(dataset.Delimiter),
		CreatedAt: sess.CreatedAt,
	}, nil
}

// ValidateRequest selects what to validate and how.
type ValidateRequest struct {
	SessionID      string            `json:"session_id"`
	RegulationID   string            `json:"regulation,omitempty"`
	RequiredFields []string          `json:"required_fields,omitempty"`
	Mapping        map[string]string `json:"mapping,omitempty"`
}

// Validate runs batch validation for a pending upload session. The report is
// retained for later export until the session expires or is deleted.
func (s *Service) Validate(ctx context.Context, req ValidateRequest) (*AggregateReport, error) {
	sess, ok := s.sessions.Get(req.SessionID)
	if !ok {
		return nil, fmt.Errorf("unknown or expired session: %s", req.SessionID)
	}

	var reg *regulation.Regulation
	if req.RegulationID != "" {
		reg, ok = regulation.ByID(req.RegulationID)
		if !ok {
			return nil, fmt.Errorf("unknown regulation: %s", req.RegulationID)
		}
	}

	mapper := NewColumnMapper(req.Mapping)

	required := req.RequiredFields
	if len(required) == 0 {
		if reg != nil && len(reg.RequiredFields) > 0 {
			required = reg.RequiredFields
		} else {
			required = DefaultRequiredColumns
		}
	}
	if missing := missingColumns(sess.Dataset.Headers, required, mapper); len(missing) > 0 {
		return nil, fmt.Errorf("required columns missing in file: %s (available: %s)",
			strings.Join(missing, ", "), strings.Join(sess.Dataset.Headers, ", "))
	}

	rows := make([]Row, len(sess.Dataset.Rows))
	for i, raw := range sess.Dataset.Rows {
		rows[i] = Row(raw)
	}
	rows = mapper.MapRows(rows)

	report, err := s.validator.ValidateDataset(ctx, rows, required, reg, Options{
		ChunkSize: s.opts.ChunkSize,
		Workers:   s.opts.Workers,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.reports[req.SessionID] = report
	s.mu.Unlock()

	return report, nil
}

// missingColumns reports required fields absent from the CSV header after
// column mapping. Comparison is case-insensitive on both sides.
func missingColumns(headers, required []string, mapper *ColumnMapper) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.ToLower(strings.TrimSpace(mapper.MapName(h)))] = true
	}

	var missing []string
	seen := make(map[string]bool, len(required))
	for _, name := range required {
		fieldName := strings.ToLower(strings.TrimSpace(name))
		if fieldName == "" || seen[fieldName] {
			continue
		}
		seen[fieldName] = true
		if !present[fieldName] {
			missing = append(missing, fieldName)
		}
	}
	return missing
}

// Report returns the retained validation report for a session.
func (s *Service) Report(sessionID string) (*AggregateReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[sessionID]
	return report, ok
}

// DropSession removes a session and its retained report.
func (s *Service) DropSession(sessionID string) {
	s.sessions.Delete(sessionID)
	s.mu.Lock()
	delete(s.reports, sessionID)
	s.mu.Unlock()
}

// RegulationInfo describes one selectable regulation.
type RegulationInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Regulations lists the known regulations sorted by ID.
func (s *Service) Regulations() []RegulationInfo {
	all := regulation.All()
	infos := make([]RegulationInfo, 0, len(all))
	for id, name := range all {
		infos = append(infos, RegulationInfo{ID: id, Name: name})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// RegulationFields returns the required-field list for a regulation, or the
// default list for an empty ID.
func (s *Service) RegulationFields(id string) ([]string, error) {
	if id == "" {
		return DefaultRequiredColumns, nil
	}
	reg, ok := regulation.ByID(id)
	if !ok {
		return nil, fmt.Errorf("unknown regulation: %s", id)
	}
	return reg.RequiredFields, nil
}
