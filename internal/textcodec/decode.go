// Package textcodec decodes device output as UTF-8 without ever failing.
package textcodec

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// Decode returns the valid UTF-8 content of b. Bytes that do not start a
// valid encoding are dropped, and their number is returned as discarded.
// A multi-byte sequence cut off at the end of b counts as discarded.
func Decode(b []byte) (text string, discarded int) {
	var sb strings.Builder
	sb.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			discarded++
			b = b[1:]
			continue
		}
		sb.WriteString(string(b[:size]))
		b = b[size:]
	}
	return sb.String(), discarded
}

// LineBuffer accumulates bytes and splits them into newline terminated lines.
type LineBuffer struct {
	buf []byte
}

// Write appends p and returns every line completed by it, decoded and with
// surrounding whitespace trimmed. Empty lines are skipped.
func (l *LineBuffer) Write(p []byte) []string {
	l.buf = append(l.buf, p...)
	var lines []string
	for {
		i := bytes.IndexByte(l.buf, '\n')
		if i < 0 {
			break
		}
		if line := clean(l.buf[:i]); line != "" {
			lines = append(lines, line)
		}
		l.buf = l.buf[i+1:]
	}
	return lines
}

// Flush returns the unterminated remainder, if any, and empties the buffer.
func (l *LineBuffer) Flush() (string, bool) {
	line := clean(l.buf)
	l.buf = nil
	return line, line != ""
}

// Pending returns the number of bytes held without a terminating newline.
func (l *LineBuffer) Pending() int {
	return len(l.buf)
}

func clean(b []byte) string {
	text, _ := Decode(b)
	return strings.TrimSpace(text)
}
