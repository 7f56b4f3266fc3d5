package core

import (
	"sort"
	"strings"
)

func buildReport(results []ValidationResult, dups *DuplicateTracker) *AggregateReport {
	report := &AggregateReport{
		TotalRows: len(results),
		Results:   results,
	}
	if dups != nil {
		report.DuplicateCounts = dups.DuplicateCounts()
	}

	tally := make(map[string]int)
	for _, r := range results {
		if r.Valid {
			report.ValidRows++
			continue
		}
		report.InvalidRows++
		for _, msg := range r.Errors {
			tally[normalizeErrorKey(msg)]++
		}
	}

	report.ErrorCounts = make([]ErrorCount, 0, len(tally))
	for msg, count := range tally {
		report.ErrorCounts = append(report.ErrorCounts, ErrorCount{Message: msg, Count: count})
	}
	sort.Slice(report.ErrorCounts, func(i, j int) bool {
		a, b := report.ErrorCounts[i], report.ErrorCounts[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Message < b.Message
	})

	return report
}

// normalizeErrorKey reduces an error string to its tally key: the row-code
// prefix goes, the quoted invalid value goes, and duplicate errors collapse
// to "Duplicate <field>" so one tally line covers every offending value.
func normalizeErrorKey(msg string) string {
	if i := strings.IndexByte(msg, ' '); i > 0 {
		msg = msg[i+1:]
	}

	if strings.HasPrefix(msg, "Duplicate ") {
		rest := strings.TrimPrefix(msg, "Duplicate ")
		if i := strings.IndexByte(rest, ':'); i > 0 {
			return "Duplicate " + rest[:i]
		}
		return msg
	}

	if i := strings.LastIndex(msg, ": '"); i > 0 && strings.HasSuffix(msg, "'") {
		return msg[:i]
	}
	return msg
}

// DetailedErrors flattens the per-row results into one entry per individual
// error, suitable for tabular export. ErrorType and InvalidValue come from
// splitting the error string on its last ": '...'" suffix when present.
func (r *AggregateReport) DetailedErrors() []DetailedError {
	var out []DetailedError
	for _, result := range r.Results {
		for _, msg := range result.Errors {
			out = append(out, splitDetailedError(result, msg))
		}
	}
	return out
}

func splitDetailedError(result ValidationResult, msg string) DetailedError {
	d := DetailedError{
		RowNumber: result.RowNumber,
		Code:      result.Code,
	}

	body := msg
	if i := strings.IndexByte(body, ' '); i > 0 {
		body = body[i+1:]
	}

	if i := strings.LastIndex(body, ": '"); i > 0 && strings.HasSuffix(body, "'") {
		d.InvalidValue = strings.TrimSuffix(body[i+len(": '"):], "'")
		body = body[:i]
	}
	d.ErrorType = body

	fields := strings.Fields(body)
	switch {
	case len(fields) > 1 && fields[0] == "Duplicate":
		d.FieldName = strings.TrimSuffix(fields[1], ":")
	case len(fields) > 0:
		d.FieldName = strings.TrimSuffix(fields[0], ":")
	}

	return d
}
