package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Dataset is a fully decoded CSV file: normalized headers, one map per data
// row, and the detection results that produced them.
type Dataset struct {
	Headers   []string
	Rows      []map[string]string
	Encoding  string
	Delimiter rune
	Enclosure byte
}

// ReadAll decodes a complete CSV stream. It strips a UTF-8 BOM, repairs
// invalid UTF-8, sniffs encoding, delimiter and enclosure from the leading
// sample, and returns rows keyed by trimmed lowercase header names. Header
// normalization here means downstream mapping and validation only ever
// compare lowercase field names.
func ReadAll(r io.Reader) (*Dataset, error) {
	raw, err := io.ReadAll(NewBOMSkippingReader(r))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	encoding := DetectEncoding(raw)
	decoded, err := decode(raw, encoding)
	if err != nil {
		return nil, fmt.Errorf("decode %s content: %w", encoding, err)
	}

	sample := string(sniffSample(decoded))
	delimiter := DetectDelimiter(sample)
	enclosure := DetectEnclosure(sample, delimiter)

	reader := csv.NewReader(NewUTF8SanitizingReader(strings.NewReader(string(decoded))))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv has no header row")
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(stripEnclosure(h, enclosure)))
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		if isBlankRecord(record) {
			continue
		}
		row := make(map[string]string, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			value := ""
			if i < len(record) {
				value = stripEnclosure(strings.TrimSpace(record[i]), enclosure)
			}
			row[header] = value
		}
		rows = append(rows, row)
	}

	return &Dataset{
		Headers:   headers,
		Rows:      rows,
		Encoding:  encoding,
		Delimiter: delimiter,
		Enclosure: enclosure,
	}, nil
}

// stripEnclosure removes a non-standard enclosure pair from a field. The csv
// package already consumes double quotes; single-quote enclosures pass
// through the parser and are peeled here.
func stripEnclosure(field string, enclosure byte) string {
	if enclosure == 0 || enclosure == '"' {
		return field
	}
	if len(field) >= 2 && field[0] == enclosure && field[len(field)-1] == enclosure {
		return field[1 : len(field)-1]
	}
	return field
}

func isBlankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
