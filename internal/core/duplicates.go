package core

import (
	"sort"
	"strings"
)

// TrackedFields are the uniqueness-sensitive fields checked for duplicates
// across the whole dataset.
var TrackedFields = []string{"email", "username", "personalid", "idcardno"}

// caseInsensitiveFields are tracked fields whose values are lowercased before
// comparison. Personal IDs and card numbers stay case-sensitive; ID formats
// are often case-significant alphanumeric codes.
var caseInsensitiveFields = map[string]bool{
	"email":    true,
	"username": true,
}

// DuplicateTracker records, per tracked field, the global row indices at
// which each normalized value occurs. Trackers are chunk-local during the
// parallel phase and merged afterwards; duplicate determination is only
// meaningful on the merged tracker.
type DuplicateTracker struct {
	indices map[string]map[string][]int
}

// NewDuplicateTracker returns an empty tracker covering TrackedFields.
func NewDuplicateTracker() *DuplicateTracker {
	t := &DuplicateTracker{indices: make(map[string]map[string][]int, len(TrackedFields))}
	for _, f := range TrackedFields {
		t.indices[f] = make(map[string][]int)
	}
	return t
}

// NormalizeTracked normalizes a value for duplicate comparison: trim always,
// lowercase only for the case-insensitive fields.
func NormalizeTracked(fieldName, value string) string {
	v := strings.TrimSpace(value)
	if caseInsensitiveFields[fieldName] {
		v = strings.ToLower(v)
	}
	return v
}

// Track records the tracked-field values of one row at its global index.
// Empty values are skipped.
func (t *DuplicateTracker) Track(row Row, globalIndex int) {
	for _, fieldName := range TrackedFields {
		value, ok := row[fieldName]
		if !ok {
			continue
		}
		normalized := NormalizeTracked(fieldName, value)
		if normalized == "" {
			continue
		}
		t.indices[fieldName][normalized] = append(t.indices[fieldName][normalized], globalIndex)
	}
}

// Merge folds another tracker's occurrences into this one by extending the
// per-value index lists. Index lists are kept sorted so the first occurrence
// stays canonical regardless of chunk completion order.
func (t *DuplicateTracker) Merge(other *DuplicateTracker) {
	for fieldName, values := range other.indices {
		dst, ok := t.indices[fieldName]
		if !ok {
			dst = make(map[string][]int)
			t.indices[fieldName] = dst
		}
		for value, idxs := range values {
			merged := append(dst[value], idxs...)
			sort.Ints(merged)
			dst[value] = merged
		}
	}
}

// FirstIndex returns the canonical (first) occurrence index of a normalized
// value, and whether the value forms a duplicate group at all.
func (t *DuplicateTracker) FirstIndex(fieldName, normalized string) (int, bool) {
	idxs := t.indices[fieldName][normalized]
	if len(idxs) < 2 {
		return 0, false
	}
	return idxs[0], true
}

// DuplicateCounts reports, per tracked field, the number of distinct values
// occurring more than once (duplicate groups, not duplicate rows).
func (t *DuplicateTracker) DuplicateCounts() map[string]int {
	counts := make(map[string]int, len(t.indices))
	for fieldName, values := range t.indices {
		n := 0
		for _, idxs := range values {
			if len(idxs) > 1 {
				n++
			}
		}
		counts[fieldName] = n
	}
	return counts
}
