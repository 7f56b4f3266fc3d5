package csvio

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding names reported by DetectEncoding.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
)

const sniffLines = 5

// DetectEncoding classifies file content as UTF-8 or a single-byte Western
// encoding. Anything that is not valid UTF-8 is treated as Windows-1252,
// which subsumes Latin-1 for the byte range spreadsheet exports produce.
func DetectEncoding(content []byte) string {
	if utf8.Valid(content) {
		return EncodingUTF8
	}
	return EncodingWindows1252
}

// decode returns the content as UTF-8 text, transcoding when the detected
// encoding requires it.
func decode(content []byte, encoding string) ([]byte, error) {
	if encoding == EncodingUTF8 {
		return content, nil
	}
	return charmap.Windows1252.NewDecoder().Bytes(content)
}

// DetectDelimiter picks the most frequent candidate delimiter in a sample of
// the first few lines. Ties resolve in candidate order, so a comma wins over
// an equally-frequent pipe.
func DetectDelimiter(sample string) rune {
	sample = firstLines(sample, sniffLines)

	best := ','
	bestCount := -1
	for _, candidate := range []rune{',', ';', '\t', '|'} {
		if count := strings.Count(sample, string(candidate)); count > bestCount {
			best = candidate
			bestCount = count
		}
	}
	return best
}

// DetectEnclosure scores the double-quote and single-quote characters by how
// consistently fields in the sample are wrapped in them. A fully-enclosed header line is the strongest
// signal. Returns 0 when fields appear unenclosed.
func DetectEnclosure(sample string, delimiter rune) byte {
	lines := strings.Split(firstLines(sample, sniffLines+1), "\n")
	if len(lines) == 0 {
		return '"'
	}

	scores := map[byte]float64{'"': 0, '\'': 0, 0: 0}
	delim := string(delimiter)

	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, delim)

		for _, enclosure := range []byte{'"', '\''} {
			wrapped := 0
			for _, f := range fields {
				f = strings.TrimSpace(f)
				if len(f) >= 2 && f[0] == enclosure && f[len(f)-1] == enclosure {
					wrapped++
				}
			}
			if i == 0 && wrapped == len(fields) {
				scores[enclosure] += 10
			} else {
				scores[enclosure] += float64(wrapped) / float64(len(fields))
			}
		}

		bare := 0
		for _, f := range fields {
			f = strings.TrimSpace(f)
			if len(f) < 2 || (f[0] != '"' && f[0] != '\'') {
				bare++
			}
		}
		scores[0] += float64(bare) / float64(len(fields))
	}

	best := byte(0)
	for _, enclosure := range []byte{'"', '\''} {
		if scores[enclosure] > scores[best] {
			best = enclosure
		}
	}
	return best
}

func firstLines(s string, n int) string {
	idx := 0
	for i := 0; i < n; i++ {
		next := strings.IndexByte(s[idx:], '\n')
		if next < 0 {
			return s
		}
		idx += next + 1
	}
	return s[:idx]
}

// sniffSample returns up to the first 64 KiB of content for detection.
func sniffSample(content []byte) []byte {
	const max = 64 * 1024
	if len(content) > max {
		return content[:max]
	}
	return content
}
