package csvio

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestReadAll_CommaSeparated(t *testing.T) {
	input := "Email,FirstName,City\nmaria@dominio.es,Maria,Lima\njose@dominio.es,Jose,Cusco\n"

	ds, err := ReadAll(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	wantHeaders := []string{"email", "firstname", "city"}
	for i, h := range wantHeaders {
		if ds.Headers[i] != h {
			t.Errorf("Headers[%d] = %q, want %q", i, ds.Headers[i], h)
		}
	}

	if len(ds.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(ds.Rows))
	}
	if ds.Rows[0]["email"] != "maria@dominio.es" {
		t.Errorf("Rows[0][email] = %q", ds.Rows[0]["email"])
	}
	if ds.Rows[1]["city"] != "Cusco" {
		t.Errorf("Rows[1][city] = %q", ds.Rows[1]["city"])
	}
	if ds.Delimiter != ',' {
		t.Errorf("Delimiter = %q, want comma", ds.Delimiter)
	}
}

func TestReadAll_SemicolonDetected(t *testing.T) {
	input := "email;firstname\nmaria@dominio.es;Maria\n"

	ds, err := ReadAll(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	if ds.Delimiter != ';' {
		t.Errorf("Delimiter = %q, want semicolon", ds.Delimiter)
	}
	if ds.Rows[0]["firstname"] != "Maria" {
		t.Errorf("Rows[0][firstname] = %q", ds.Rows[0]["firstname"])
	}
}

func TestReadAll_TabDetected(t *testing.T) {
	input := "email\tfirstname\nmaria@dominio.es\tMaria\n"

	ds, err := ReadAll(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if ds.Delimiter != '\t' {
		t.Errorf("Delimiter = %q, want tab", ds.Delimiter)
	}
}

func TestReadAll_SkipsBOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("email,city\na@b.es,Lima\n")...)

	ds, err := ReadAll(bytes.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if ds.Headers[0] != "email" {
		t.Errorf("Headers[0] = %q, BOM must not leak into the first header", ds.Headers[0])
	}
}

func TestReadAll_Windows1252Transcoded(t *testing.T) {
	// "Peña" with Latin-1 ñ (0xF1), invalid as UTF-8.
	input := []byte("lastname,city\nPe\xf1a,Lima\n")

	ds, err := ReadAll(bytes.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if ds.Encoding != EncodingWindows1252 {
		t.Errorf("Encoding = %q, want %q", ds.Encoding, EncodingWindows1252)
	}
	if ds.Rows[0]["lastname"] != "Peña" {
		t.Errorf("Rows[0][lastname] = %q, want Peña", ds.Rows[0]["lastname"])
	}
}

func TestReadAll_SingleQuoteEnclosure(t *testing.T) {
	input := "'email','city'\n'a@b.es','Lima'\n"

	ds, err := ReadAll(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if ds.Headers[0] != "email" {
		t.Errorf("Headers[0] = %q, enclosure should be peeled", ds.Headers[0])
	}
	if ds.Rows[0]["city"] != "Lima" {
		t.Errorf("Rows[0][city] = %q, want Lima", ds.Rows[0]["city"])
	}
}

func TestReadAll_BlankLinesSkipped(t *testing.T) {
	input := "email,city\na@b.es,Lima\n\n   ,  \nb@c.es,Cusco\n"

	ds, err := ReadAll(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(ds.Rows) != 2 {
		t.Errorf("len(Rows) = %d, want 2 (blank records skipped)", len(ds.Rows))
	}
}

func TestReadAll_ShortRecordPadded(t *testing.T) {
	input := "email,city,zip\na@b.es,Lima\n"

	ds, err := ReadAll(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if got, ok := ds.Rows[0]["zip"]; !ok || got != "" {
		t.Errorf("missing trailing field should be empty, got %q (present=%v)", got, ok)
	}
}

func TestReadAll_EmptyFile(t *testing.T) {
	if _, err := ReadAll(strings.NewReader("")); err == nil {
		t.Error("empty input should error")
	}
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		sample string
		want   rune
	}{
		{"a,b,c\n1,2,3", ','},
		{"a;b;c\n1;2;3", ';'},
		{"a\tb\tc", '\t'},
		{"a|b|c", '|'},
		{"justoneheader", ','},
	}

	for _, tt := range tests {
		if got := DetectDelimiter(tt.sample); got != tt.want {
			t.Errorf("DetectDelimiter(%q) = %q, want %q", tt.sample, got, tt.want)
		}
	}
}

func TestDetectEncoding(t *testing.T) {
	if got := DetectEncoding([]byte("plain ascii")); got != EncodingUTF8 {
		t.Errorf("ascii: got %q", got)
	}
	if got := DetectEncoding([]byte("Peña")); got != EncodingUTF8 {
		t.Errorf("valid utf-8: got %q", got)
	}
	if got := DetectEncoding([]byte("Pe\xf1a")); got != EncodingWindows1252 {
		t.Errorf("latin-1 byte: got %q", got)
	}
}

func TestDetectEnclosure(t *testing.T) {
	if got := DetectEnclosure("'a','b'\n'1','2'", ','); got != '\'' {
		t.Errorf("single-quoted sample: got %q", got)
	}
	if got := DetectEnclosure(`"a","b"`+"\n"+`"1","2"`, ','); got != '"' {
		t.Errorf("double-quoted sample: got %q", got)
	}
	if got := DetectEnclosure("a,b\n1,2", ','); got != 0 {
		t.Errorf("bare sample: got %q", got)
	}
}

func TestBOMSkippingReader_NoBOMPreserved(t *testing.T) {
	r := NewBOMSkippingReader(strings.NewReader("abc"))
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll error = %v", err)
	}
	if string(data) != "abc" {
		t.Errorf("got %q, want abc", data)
	}
}

func TestBOMSkippingReader_ShortInput(t *testing.T) {
	r := NewBOMSkippingReader(strings.NewReader("ab"))
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll error = %v", err)
	}
	if string(data) != "ab" {
		t.Errorf("got %q, want ab", data)
	}
}

func TestUTF8SanitizingReader(t *testing.T) {
	r := NewUTF8SanitizingReader(bytes.NewReader([]byte("a\xffb")))
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll error = %v", err)
	}
	if string(data) != "a?b" {
		t.Errorf("got %q, want a?b", data)
	}
}
