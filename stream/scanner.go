// Package stream provides an event-driven, zero-copy parser over the
// same ER7 grammar as hl7v2.ParseMessage, for callers that process large
// inputs sequentially and do not need the whole message materialized.
//
// The Scanner emits one Event per call to Next, bounding per-call work to
// the size of the next token rather than the remaining input. Field
// events carry [start, end) byte ranges into the caller's buffer instead
// of copies, so the buffer must stay alive and unmodified for as long as
// events are being consumed. Replaying every event through a Builder
// yields a Message structurally equal to parsing the same text directly.
package stream

import (
	"bytes"
	"io"
	"strconv"

	hl7 "github.com/gohl7/hl7v2"
)

// EventKind identifies the type of a scanner event.
type EventKind uint8

// Scanner event kinds, in the order they can occur.
const (
	// EventDelimiters carries the bootstrapped delimiter set. Emitted
	// exactly once, before the first segment start.
	EventDelimiters EventKind = iota + 1

	// EventSegmentStart opens a segment: id plus 0-based segment line.
	EventSegmentStart

	// EventField carries one field as a byte range into the input.
	EventField

	// EventSegmentEnd closes the current segment.
	EventSegmentEnd

	// EventEndOfMessage marks the end of input. Subsequent Next calls
	// return io.EOF.
	EventEndOfMessage
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventDelimiters:
		return "delimiters"
	case EventSegmentStart:
		return "segment-start"
	case EventField:
		return "field"
	case EventSegmentEnd:
		return "segment-end"
	case EventEndOfMessage:
		return "end-of-message"
	default:
		return "unknown"
	}
}

// Event is one parsing event. Only the fields relevant to Kind are set.
type Event struct {
	Kind EventKind

	// Delimiters is set on EventDelimiters.
	Delimiters hl7.Delimiters

	// Segment is the segment id, set on EventSegmentStart and
	// EventSegmentEnd.
	Segment string

	// Line is the 0-based segment ordinal, set on EventSegmentStart.
	Line int

	// Index is the 1-based field position, set on EventField.
	Index int

	// Start and End delimit the raw field text in the input buffer,
	// set on EventField. For the MSH separator and encoding-character
	// fields these ranges point at the literal preamble bytes.
	Start, End int
}

// state is the scanner's explicit position in the segment grammar.
type state uint8

const (
	stateInitial state = iota
	stateStartSegment
	stateInMSH
	stateInSegment
	stateEmitEnd
	stateBetweenSegments
	stateDone
)

// Scanner walks ER7 text emitting events. It is single-threaded and
// advanced cooperatively by calling Next.
type Scanner struct {
	buf   []byte
	limit int // input end after trailing-whitespace trim
	d     hl7.Delimiters

	state     state
	lineStart int // start of the current segment line
	lineEnd   int // end of the current segment line (exclusive)
	next      int // where the search for the next line begins
	line      int // 0-based ordinal of the current segment line
	pos       int // next byte to scan within the current line
	segID     string
	field     int // last emitted field index
	synth     int // synthesized MSH preamble fields emitted (0..2)
	err       error
}

// NewScanner creates a scanner over buf. The scanner keeps a reference
// to buf; it must not be modified until scanning is complete.
func NewScanner(buf []byte) *Scanner {
	return &Scanner{buf: buf, line: -1}
}

// Delimiters returns the bootstrapped delimiter set. Valid after the
// EventDelimiters event has been emitted.
func (s *Scanner) Delimiters() hl7.Delimiters {
	return s.d
}

// Text returns the raw, undecoded text of a field event.
func (s *Scanner) Text(ev Event) string {
	return string(s.buf[ev.Start:ev.End])
}

// Value returns the escape-decoded text of a field event.
func (s *Scanner) Value(ev Event) string {
	return s.d.Decode(s.Text(ev))
}

// Next returns the next event. After EventEndOfMessage it returns
// io.EOF; after a parse error it keeps returning that error.
func (s *Scanner) Next() (Event, error) {
	if s.err != nil {
		return Event{}, s.err
	}

	switch s.state {
	case stateInitial:
		return s.bootstrap()

	case stateStartSegment:
		return s.startSegment()

	case stateInMSH:
		if s.synth < 2 {
			return s.synthesizeHeaderField()
		}
		return s.scanField()

	case stateInSegment:
		return s.scanField()

	case stateEmitEnd:
		s.state = stateBetweenSegments
		return Event{Kind: EventSegmentEnd, Segment: s.segID}, nil

	case stateBetweenSegments:
		if !s.advanceLine() {
			s.state = stateDone
			s.err = io.EOF
			return Event{Kind: EventEndOfMessage}, nil
		}
		return s.startSegment()

	default: // stateDone
		return Event{}, io.EOF
	}
}

// bootstrap trims the input, locates the MSH line, and extracts the
// delimiter set from its preamble — the streaming equivalent of the
// recursive parser's phase one.
func (s *Scanner) bootstrap() (Event, error) {
	start := 0
	for start < len(s.buf) && isSpace(s.buf[start]) {
		start++
	}
	s.limit = len(s.buf)
	for s.limit > start && isSpace(s.buf[s.limit-1]) {
		s.limit--
	}
	s.next = start

	if !s.advanceLine() {
		return Event{}, s.fail(&hl7.ParseError{Op: "message", Msg: "empty input"})
	}
	head := s.buf[s.lineStart:s.lineEnd]
	if !bytes.HasPrefix(head, []byte("MSH")) {
		return Event{}, s.fail(&hl7.ParseError{
			Op:   "message",
			Line: 1,
			Msg:  "message must start with MSH, found " + strconv.Quote(string(prefixBytes(head, 3))),
		})
	}

	d, err := hl7.ExtractDelimiters(string(prefixBytes(head, 8)))
	if err != nil {
		return Event{}, s.fail(err)
	}
	s.d = d
	s.state = stateStartSegment
	return Event{Kind: EventDelimiters, Delimiters: d}, nil
}

// startSegment validates the current line and emits its segment-start
// event.
func (s *Scanner) startSegment() (Event, error) {
	lineLen := s.lineEnd - s.lineStart
	if lineLen < 3 {
		return Event{}, s.fail(&hl7.ParseError{
			Op:   "segment",
			Line: s.line + 1,
			Msg:  "segment line too short: " + strconv.Quote(string(s.buf[s.lineStart:s.lineEnd])),
		})
	}
	s.segID = string(s.buf[s.lineStart : s.lineStart+3])
	s.field = 0

	if s.line == 0 {
		// MSH: positions 1 and 2 are literal preamble bytes, synthesized
		// rather than found by separator scanning.
		s.synth = 0
		s.state = stateInMSH
		return Event{Kind: EventSegmentStart, Segment: s.segID, Line: s.line}, nil
	}

	if lineLen < 4 || s.buf[s.lineStart+3] != s.d.Field {
		return Event{}, s.fail(&hl7.ParseError{
			Op:   "segment",
			Line: s.line + 1,
			Msg: "expected field separator " + strconv.Quote(string(s.d.Field)) +
				" after segment id " + strconv.Quote(s.segID),
		})
	}
	s.pos = s.lineStart + 4
	s.state = stateInSegment
	return Event{Kind: EventSegmentStart, Segment: s.segID, Line: s.line}, nil
}

// synthesizeHeaderField emits MSH-1 (the separator character) or MSH-2
// (the encoding-character block) from the literal preamble bytes.
func (s *Scanner) synthesizeHeaderField() (Event, error) {
	if s.synth == 0 {
		s.synth = 1
		s.field = 1
		return Event{
			Kind:  EventField,
			Index: 1,
			Start: s.lineStart + 3,
			End:   s.lineStart + 4,
		}, nil
	}

	// MSH-2 runs from the preamble to the next field separator (or the
	// end of the line on a bare header).
	start := s.lineStart + 4
	end := s.lineEnd
	if i := bytes.IndexByte(s.buf[start:s.lineEnd], s.d.Field); i >= 0 {
		end = start + i
		s.pos = end + 1
	} else {
		s.state = stateEmitEnd
	}
	s.synth = 2
	s.field = 2
	return Event{Kind: EventField, Index: 2, Start: start, End: end}, nil
}

// scanField finds the next field-separator occurrence and emits the
// field before it. The last field on a line transitions to the
// segment-end state.
func (s *Scanner) scanField() (Event, error) {
	s.field++
	end := s.lineEnd
	if i := bytes.IndexByte(s.buf[s.pos:s.lineEnd], s.d.Field); i >= 0 {
		end = s.pos + i
	} else {
		s.state = stateEmitEnd
	}
	ev := Event{Kind: EventField, Index: s.field, Start: s.pos, End: end}
	s.pos = end + 1
	return ev, nil
}

// advanceLine moves to the next non-empty segment line, reporting false
// when no lines remain. CR, LF, and CRLF terminators are all accepted.
func (s *Scanner) advanceLine() bool {
	i := s.next
	for i < s.limit && isTerminator(s.buf[i]) {
		i++
	}
	if i >= s.limit {
		return false
	}
	s.lineStart = i
	for i < s.limit && !isTerminator(s.buf[i]) {
		i++
	}
	s.lineEnd = i
	s.next = i
	s.line++
	return true
}

// fail records a sticky error.
func (s *Scanner) fail(err error) error {
	s.err = err
	s.state = stateDone
	return err
}

func isTerminator(c byte) bool {
	return c == '\r' || c == '\n'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// prefixBytes returns the first n bytes of b, or all of b when shorter.
func prefixBytes(b []byte, n int) []byte {
	if len(b) < n {
		return b
	}
	return b[:n]
}
