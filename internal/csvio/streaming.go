// Package csvio decodes uploaded personal-record CSV files into canonical
// rows. It owns everything upstream of validation: BOM stripping, encoding
// and delimiter sniffing, enclosure handling, and header normalization.
package csvio

import (
	"io"
	"unicode/utf8"
)

// bomSkippingReader strips a leading UTF-8 BOM (0xEF 0xBB 0xBF), commonly
// added by Windows spreadsheet exports.
type bomSkippingReader struct {
	reader  io.Reader
	checked bool
	held    []byte
}

// NewBOMSkippingReader wraps r so the first read transparently drops a UTF-8
// BOM when one is present.
func NewBOMSkippingReader(r io.Reader) io.Reader {
	return &bomSkippingReader{reader: r}
}

func (b *bomSkippingReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true

		var head [3]byte
		n, err := io.ReadFull(b.reader, head[:])
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if n > 0 {
			if n == 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
				// BOM dropped.
			} else {
				b.held = append(b.held, head[:n]...)
			}
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
	}

	if len(b.held) > 0 {
		n := copy(p, b.held)
		b.held = b.held[n:]
		return n, nil
	}

	return b.reader.Read(p)
}

// utf8SanitizingReader replaces invalid UTF-8 bytes with '?' on the fly so
// downstream CSV parsing never sees a broken sequence. Multi-byte runes split
// across read boundaries are held back until the next read completes them.
type utf8SanitizingReader struct {
	reader  io.Reader
	pending []byte
}

// NewUTF8SanitizingReader wraps r with on-the-fly UTF-8 repair.
func NewUTF8SanitizingReader(r io.Reader) io.Reader {
	return &utf8SanitizingReader{reader: r, pending: make([]byte, 0, utf8.UTFMax)}
}

func (s *utf8SanitizingReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	offset := copy(p, s.pending)
	s.pending = s.pending[:0]

	n, err := s.reader.Read(p[offset:])
	n += offset
	if n == 0 {
		return 0, err
	}

	if allASCII(p[:n]) {
		return n, err
	}

	return s.sanitize(p[:n], err == io.EOF), err
}

// sanitize rewrites data in place, replacing each invalid byte with '?'.
// Returns the number of bytes ready for the caller; a trailing incomplete
// rune is moved to pending unless the stream has ended.
func (s *utf8SanitizingReader) sanitize(data []byte, atEOF bool) int {
	write := 0
	for read := 0; read < len(data); {
		r, size := utf8.DecodeRune(data[read:])

		if r == utf8.RuneError && size == 1 {
			rest := data[read:]
			if !atEOF && expectedRuneLen(rest[0]) > len(rest) {
				s.pending = append(s.pending, rest...)
				return write
			}
			data[write] = '?'
			write++
			read++
			continue
		}

		copy(data[write:], data[read:read+size])
		write += size
		read += size
	}
	return write
}

func allASCII(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}

func expectedRuneLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xC0:
		return 0
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}
