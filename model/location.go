package model

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// Location is a 1-based line:column position in a manifest buffer.
type Location struct {
	Line   int
	Column int // in runes
}

func (l Location) Valid() bool {
	return l.Line > 0 && l.Column > 0
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

var bom = []byte("\xef\xbb\xbf")

// Locate converts a byte offset reported by the JSON decoder into a
// line:column location. CR, LF and CRLF all count as a single line break.
func Locate(buf []byte, offset int64) Location {
	cur, end := 0, len(buf)
	if bytes.HasPrefix(buf, bom) {
		cur = len(bom)
	}
	off := int(offset)
	if off > end {
		off = end
	}
	if off < cur {
		off = cur
	}

	line, lineStart := 1, cur
	for cur < off {
		c := buf[cur]
		cur++
		switch c {
		case '\n':
			line++
			lineStart = cur
		case '\r':
			if cur < off && buf[cur] == '\n' {
				cur++
			}
			line++
			lineStart = cur
		}
	}
	return Location{
		Line:   line,
		Column: 1 + utf8.RuneCount(buf[lineStart:off]),
	}
}
