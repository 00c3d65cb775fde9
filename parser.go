package hl7v2

import (
	"strconv"
	"strings"
	"time"

	"github.com/gohl7/hl7v2/pool"
)

// ParseMessage parses ER7 text into a Message. Parsing is all-or-nothing:
// on any structural fault a *ParseError is returned and no Message at
// all.
//
// The parse runs in two phases. First the delimiter set is extracted
// positionally from the MSH preamble with no grammar at all; then that
// Delimiters value is threaded explicitly through every split, including
// the re-parse of the MSH segment's own remaining fields.
func ParseMessage(text string, opts ...Option) (*Message, error) {
	o := applyOptions(opts)
	if o.Metrics == nil {
		return parseMessage(text, o)
	}

	start := time.Now()
	msg, err := parseMessage(text, o)
	o.Metrics.RecordParse(time.Since(start), len(text), err == nil)
	return msg, err
}

func parseMessage(text string, o *Options) (*Message, error) {
	if o.MaxMessageSize > 0 && len(text) > o.MaxMessageSize {
		return nil, parseErrorf("message", 0, "input of %d bytes exceeds limit of %d",
			len(text), o.MaxMessageSize)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, parseErrorf("message", 0, "empty input")
	}

	lines := splitSegmentLines(text, o.LenientNewlines)
	if !strings.HasPrefix(lines[0], "MSH") {
		return nil, parseErrorf("message", 1, "message must start with MSH, found %s",
			strconv.Quote(prefix(lines[0], 3)))
	}

	d, err := ExtractDelimiters(lines[0])
	if err != nil {
		return nil, err
	}

	msg := &Message{
		Delimiters: d,
		Segments:   make([]*Segment, 0, len(lines)),
	}
	msg.Segments = append(msg.Segments, parseHeaderSegment(lines[0], d, o))

	for i, line := range lines[1:] {
		seg, err := parseSegment(line, d, o, i+2)
		if err != nil {
			return nil, err
		}
		msg.Segments = append(msg.Segments, seg)
	}
	return msg, nil
}

// parseHeaderSegment parses an MSH, BHS, or FHS line. Positions 1 and 2
// are literal — the separator character and the encoding-character block
// define the grammar and are never delimiter-split — while positions 3
// and up are split normally on the field separator.
//
// The caller has already validated the marker and extracted d from this
// line, so the header itself cannot fail to parse.
func parseHeaderSegment(line string, d Delimiters, o *Options) *Segment {
	seg := NewSegment(line[:3])
	seg.Fields = append(seg.Fields, literalField(string(d.Field)))

	parts := pool.AcquireStringSlice()
	defer pool.ReleaseStringSlice(parts)
	*parts = appendSplit((*parts)[:0], line[4:], d.Field)

	// The first token is the encoding-character block (position 2).
	seg.Fields = append(seg.Fields, literalField((*parts)[0]))
	for _, raw := range (*parts)[1:] {
		seg.Fields = append(seg.Fields, parseField(raw, d, o.DecodeEscapes))
	}
	return seg
}

// parseSegment parses one non-header segment line: a three-letter id
// immediately followed by the field separator, then fields split on the
// field separator.
func parseSegment(line string, d Delimiters, o *Options, lineNo int) (*Segment, error) {
	if len(line) < 3 {
		return nil, parseErrorf("segment", lineNo, "segment line too short: %s",
			strconv.Quote(line))
	}
	id := line[:3]
	if len(line) < 4 || line[3] != d.Field {
		return nil, parseErrorf("segment", lineNo,
			"expected field separator %s after segment id %s",
			strconv.Quote(string(d.Field)), strconv.Quote(id))
	}

	parts := pool.AcquireStringSlice()
	defer pool.ReleaseStringSlice(parts)
	*parts = appendSplit((*parts)[:0], line[4:], d.Field)

	seg := NewSegment(id)
	seg.Fields = make([]Field, 0, len(*parts))
	for _, raw := range *parts {
		seg.Fields = append(seg.Fields, parseField(raw, d, o.DecodeEscapes))
	}
	return seg, nil
}

// splitSegmentLines splits message text into segment lines. CR is the
// canonical terminator; when lenient, LF and CRLF are accepted too.
// Empty lines are skipped, so trailing terminators and CRLF pairs never
// produce phantom segments.
func splitSegmentLines(text string, lenient bool) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '\r' && !(lenient && c == '\n') {
			continue
		}
		if i > start {
			lines = append(lines, text[start:i])
		}
		start = i + 1
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return lines
}

// appendSplit appends the sep-separated parts of s to dst, preserving
// empty parts. An empty s contributes a single empty part.
func appendSplit(dst []string, s string, sep byte) []string {
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			dst = append(dst, s[start:i])
			start = i + 1
		}
	}
	return append(dst, s[start:])
}

// prefix returns the first n bytes of s, or all of s when shorter.
func prefix(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}
