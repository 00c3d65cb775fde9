package stream

import (
	"io"
	"testing"

	hl7 "github.com/gohl7/hl7v2"
)

func TestScannerEventSequence(t *testing.T) {
	input := []byte("MSH|^~\\&|SENDER|FAC\rPID|1||first^second")
	s := NewScanner(input)

	type step struct {
		kind    EventKind
		segment string
		index   int
		text    string
	}
	want := []step{
		{kind: EventDelimiters},
		{kind: EventSegmentStart, segment: "MSH"},
		{kind: EventField, index: 1, text: "|"},
		{kind: EventField, index: 2, text: "^~\\&"},
		{kind: EventField, index: 3, text: "SENDER"},
		{kind: EventField, index: 4, text: "FAC"},
		{kind: EventSegmentEnd, segment: "MSH"},
		{kind: EventSegmentStart, segment: "PID"},
		{kind: EventField, index: 1, text: "1"},
		{kind: EventField, index: 2, text: ""},
		{kind: EventField, index: 3, text: "first^second"},
		{kind: EventSegmentEnd, segment: "PID"},
		{kind: EventEndOfMessage},
	}

	for i, w := range want {
		ev, err := s.Next()
		if err != nil {
			t.Fatalf("event %d: Next() error: %v", i, err)
		}
		if ev.Kind != w.kind {
			t.Fatalf("event %d: Kind = %v; want %v", i, ev.Kind, w.kind)
		}
		if w.segment != "" && ev.Segment != w.segment {
			t.Errorf("event %d: Segment = %q; want %q", i, ev.Segment, w.segment)
		}
		if w.kind == EventField {
			if ev.Index != w.index {
				t.Errorf("event %d: Index = %d; want %d", i, ev.Index, w.index)
			}
			if got := s.Text(ev); got != w.text {
				t.Errorf("event %d: Text = %q; want %q", i, got, w.text)
			}
		}
	}

	if _, err := s.Next(); err != io.EOF {
		t.Errorf("Next() after end = %v; want io.EOF", err)
	}
	// EOF is sticky
	if _, err := s.Next(); err != io.EOF {
		t.Errorf("second Next() after end = %v; want io.EOF", err)
	}
}

func TestScannerDelimitersEvent(t *testing.T) {
	s := NewScanner([]byte("MSH#!@$%#APP"))

	ev, err := s.Next()
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	want := hl7.Delimiters{Field: '#', Component: '!', Repetition: '@', Escape: '$', SubComponent: '%'}
	if ev.Delimiters != want {
		t.Errorf("Delimiters = %+v; want %+v", ev.Delimiters, want)
	}
	if s.Delimiters() != want {
		t.Errorf("Scanner.Delimiters() = %+v; want %+v", s.Delimiters(), want)
	}
}

func TestScannerBareHeader(t *testing.T) {
	s := NewScanner([]byte("MSH|^~\\&"))

	kinds := []EventKind{EventDelimiters, EventSegmentStart, EventField, EventField, EventSegmentEnd, EventEndOfMessage}
	var fields []string
	for i, want := range kinds {
		ev, err := s.Next()
		if err != nil {
			t.Fatalf("event %d: Next() error: %v", i, err)
		}
		if ev.Kind != want {
			t.Fatalf("event %d: Kind = %v; want %v", i, ev.Kind, want)
		}
		if ev.Kind == EventField {
			fields = append(fields, s.Text(ev))
		}
	}
	if len(fields) != 2 || fields[0] != "|" || fields[1] != "^~\\&" {
		t.Errorf("fields = %v; want [| ^~\\&]", fields)
	}
}

func TestScannerValueDecodes(t *testing.T) {
	s := NewScanner([]byte("MSH|^~\\&|a\\F\\b"))

	var got string
	for {
		ev, err := s.Next()
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		if ev.Kind == EventField && ev.Index == 3 {
			got = s.Value(ev)
			break
		}
	}
	if got != "a|b" {
		t.Errorf("Value = %q; want %q", got, "a|b")
	}
}

func TestScannerLineEndings(t *testing.T) {
	for _, sep := range []string{"\r", "\n", "\r\n"} {
		input := []byte("MSH|^~\\&|A" + sep + "PID|1" + sep)
		segments := 0
		s := NewScanner(input)
		for {
			ev, err := s.Next()
			if err != nil {
				t.Fatalf("sep %q: Next() error: %v", sep, err)
			}
			if ev.Kind == EventSegmentStart {
				segments++
			}
			if ev.Kind == EventEndOfMessage {
				break
			}
		}
		if segments != 2 {
			t.Errorf("sep %q: saw %d segments; want 2", sep, segments)
		}
	}
}

func TestScannerErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   \r\n"},
		{"wrong first segment", "PID|1||42"},
		{"header too short", "MSH|^~\\"},
		{"duplicate delimiters", "MSH|^~\\||A"},
		{"short segment line", "MSH|^~\\&|A\rPV"},
		{"missing field separator", "MSH|^~\\&|A\rPIDX1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScanner([]byte(tt.input))
			var scanErr error
			for {
				ev, err := s.Next()
				if err != nil {
					scanErr = err
					break
				}
				if ev.Kind == EventEndOfMessage {
					break
				}
			}
			if scanErr == nil {
				t.Fatalf("scan of %q produced no error", tt.input)
			}

			// The streaming parser reports the same fault the recursive
			// parser does.
			_, recErr := hl7.ParseMessage(tt.input)
			if recErr == nil {
				t.Fatalf("ParseMessage(%q) unexpectedly succeeded", tt.input)
			}
			if scanErr.Error() != recErr.Error() {
				t.Errorf("stream error %q; recursive error %q", scanErr, recErr)
			}

			// Errors are sticky
			if _, err := s.Next(); err == nil || err.Error() != scanErr.Error() {
				t.Errorf("error not sticky: second Next() = %v", err)
			}
		})
	}
}

func BenchmarkScanner(b *testing.B) {
	input := []byte("MSH|^~\\&|SENDAPP|SENDFAC|RECVAPP|RECVFAC|20240101120000||ADT^A01|MSG00001|P|2.5\r" +
		"PID|1||12345^^^MRN||Doe^John^Q||19800101|M")
	b.SetBytes(int64(len(input)))
	for i := 0; i < b.N; i++ {
		s := NewScanner(input)
		for {
			ev, err := s.Next()
			if err != nil {
				b.Fatal(err)
			}
			if ev.Kind == EventEndOfMessage {
				break
			}
		}
	}
}
