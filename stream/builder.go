package stream

import (
	"fmt"
	"io"

	hl7 "github.com/gohl7/hl7v2"
)

// Builder replays scanner events into an owned Message. Feeding every
// event emitted for some input produces a Message structurally equal to
// hl7v2.ParseMessage on the same text.
type Builder struct {
	src  []byte
	msg  *hl7.Message
	cur  *hl7.Segment
	head bool // current segment is the leading MSH
	done bool
}

// NewBuilder creates a builder resolving field ranges against src, which
// must be the same buffer the events were scanned from.
func NewBuilder(src []byte) *Builder {
	return &Builder{src: src}
}

// Consume applies one event to the message under construction.
func (b *Builder) Consume(ev Event) error {
	if b.done {
		return fmt.Errorf("stream: event %s after end of message", ev.Kind)
	}

	switch ev.Kind {
	case EventDelimiters:
		b.msg = &hl7.Message{Delimiters: ev.Delimiters}

	case EventSegmentStart:
		if b.msg == nil {
			return fmt.Errorf("stream: segment start before delimiters event")
		}
		b.cur = b.msg.AddSegment(ev.Segment)
		b.head = ev.Line == 0

	case EventField:
		if b.cur == nil {
			return fmt.Errorf("stream: field event outside a segment")
		}
		raw := string(b.src[ev.Start:ev.End])
		if b.head && ev.Index <= 2 {
			// The separator and encoding-character fields are stored
			// verbatim; they define the grammar rather than obey it.
			b.cur.Fields = append(b.cur.Fields, hl7.NewField(raw))
		} else {
			b.cur.Fields = append(b.cur.Fields, hl7.ParseField(raw, b.msg.Delimiters))
		}

	case EventSegmentEnd:
		b.cur = nil

	case EventEndOfMessage:
		b.done = true

	default:
		return fmt.Errorf("stream: unknown event kind %d", ev.Kind)
	}
	return nil
}

// Message returns the completed message. It errors until an
// EventEndOfMessage has been consumed.
func (b *Builder) Message() (*hl7.Message, error) {
	if !b.done || b.msg == nil {
		return nil, fmt.Errorf("stream: message incomplete")
	}
	return b.msg, nil
}

// Parse drives a Scanner to completion through a Builder. It is the
// streaming twin of hl7v2.ParseMessage and returns the same errors for
// the same malformed inputs.
func Parse(buf []byte) (*hl7.Message, error) {
	s := NewScanner(buf)
	b := NewBuilder(buf)
	for {
		ev, err := s.Next()
		if err != nil {
			if err == io.EOF {
				return b.Message()
			}
			return nil, err
		}
		if err := b.Consume(ev); err != nil {
			return nil, err
		}
		if ev.Kind == EventEndOfMessage {
			return b.Message()
		}
	}
}
