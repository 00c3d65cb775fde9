package hl7v2

import (
	"fmt"
)

// ParseError reports malformed structural grammar: a missing or incorrect
// segment marker, a header too short for delimiter extraction, a missing
// field separator after a segment id, and similar faults. A failed parse
// is all-or-nothing — no partial Message, Batch, or File is ever returned
// alongside a ParseError.
type ParseError struct {
	// Op is the operation that failed: "delimiters", "message", "segment",
	// "batch", or "file".
	Op string

	// Line is the 1-based input line the error was detected on, or 0
	// when no line applies.
	Line int

	// Msg describes the fault.
	Msg string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	s := "hl7v2: parse " + e.Op
	if e.Line > 0 {
		s += fmt.Sprintf(" (line %d)", e.Line)
	}
	s += ": " + e.Msg
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// parseErrorf builds a ParseError with a formatted message.
func parseErrorf(op string, line int, format string, args ...any) *ParseError {
	return &ParseError{Op: op, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// ValidationError reports a mismatch between a declared count in a batch
// or file trailer and the actual number of collected items. A mismatch is
// always a hard error, never a warning: it signals transmission
// truncation or duplication.
type ValidationError struct {
	// Entity names what was validated: "batch" or "file".
	Entity string

	// Declared is the count carried by the trailer segment.
	Declared int

	// Actual is the number of messages or batches actually present.
	Actual int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	unit := "messages"
	if e.Entity == "file" {
		unit = "batches"
	}
	return fmt.Sprintf("hl7v2: %s trailer declares %d %s, found %d",
		e.Entity, e.Declared, unit, e.Actual)
}
