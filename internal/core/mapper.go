package core

import "strings"

// ColumnMapper translates uploaded-CSV header names to canonical field names.
// Matching on the raw header is case-insensitive; headers without a mapping
// pass through unchanged.
type ColumnMapper struct {
	// byLower maps lowercased raw headers to canonical names.
	byLower map[string]string
}

// NewColumnMapper builds a mapper from a raw-header -> canonical-field table.
// A nil or empty table yields an identity mapper.
func NewColumnMapper(mappings map[string]string) *ColumnMapper {
	m := &ColumnMapper{byLower: make(map[string]string, len(mappings))}
	for raw, canonical := range mappings {
		if raw == "" || canonical == "" {
			continue
		}
		m.byLower[strings.ToLower(strings.TrimSpace(raw))] = canonical
	}
	return m
}

// MapName returns the canonical name for one raw header.
func (m *ColumnMapper) MapName(header string) string {
	if canonical, ok := m.byLower[strings.ToLower(strings.TrimSpace(header))]; ok {
		return canonical
	}
	return header
}

// MapRow rekeys a row by canonical field names. The input row is not
// modified.
func (m *ColumnMapper) MapRow(row Row) Row {
	if len(m.byLower) == 0 {
		return row
	}

	mapped := make(Row, len(row))
	for key, value := range row {
		mapped[m.MapName(key)] = value
	}
	return mapped
}

// MapRows rekeys every row. This must run before duplicate detection and row
// validation so downstream logic only ever sees canonical names.
func (m *ColumnMapper) MapRows(rows []Row) []Row {
	if len(m.byLower) == 0 {
		return rows
	}

	mapped := make([]Row, len(rows))
	for i, row := range rows {
		mapped[i] = m.MapRow(row)
	}
	return mapped
}
