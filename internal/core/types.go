// Package core implements the row validation engine: canonical row mapping,
// per-row rule evaluation with regulation overrides, dataset-wide duplicate
// detection, and the chunked parallel orchestration that aggregates
// everything into a report. It has no HTTP dependencies and can be driven by
// any frontend.
package core

// Row maps canonical field names to raw cell values. Rows are built by the
// column mapper from one CSV data line and are not mutated afterwards.
type Row = map[string]string

// DefaultCode is the display key used when a row carries no "code" value.
const DefaultCode = "N/A"

// DefaultRequiredColumns is the fallback required-field list applied when
// neither the request nor a regulation supplies one.
var DefaultRequiredColumns = []string{
	"code", "firstname", "lastname", "email", "birthdate", "address", "city",
	"phone", "cellphone", "countrycode", "signuplanguagecode", "currencycode",
	"username", "zip", "signupdate", "password",
}

// ValidationResult is the outcome of validating one row. Valid is true
// exactly when Errors is empty; Warnings never affect validity.
type ValidationResult struct {
	RowNumber int      `json:"row"`
	Code      string   `json:"code"`
	Valid     bool     `json:"valid"`
	Errors    []string `json:"errors"`
	Warnings  []string `json:"warnings,omitempty"`
}

// ErrorCount is one entry of the dataset-level error tally.
type ErrorCount struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// AggregateReport is the dataset-wide validation result.
type AggregateReport struct {
	TotalRows       int                `json:"total_rows"`
	ValidRows       int                `json:"valid_rows"`
	InvalidRows     int                `json:"invalid_rows"`
	ErrorCounts     []ErrorCount       `json:"error_counts"`
	DuplicateCounts map[string]int     `json:"duplicate_counts"`
	Results         []ValidationResult `json:"results"`
}

// DetailedError is one flattened error entry suitable for tabular export.
type DetailedError struct {
	RowNumber    int    `json:"row"`
	Code         string `json:"code"`
	FieldName    string `json:"field"`
	ErrorType    string `json:"error_type"`
	InvalidValue string `json:"invalid_value"`
}
