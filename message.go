package hl7v2

// Message is one Delimiters instance plus an ordered list of Segments.
// The first segment of a well-formed message is always MSH. The tree is
// strictly ownership-shaped: no segment, field, or component is shared
// between parents, so a Message may be moved or read concurrently without
// synchronization.
type Message struct {
	Delimiters Delimiters
	Segments   []*Segment
}

// NewMessage builds a message whose MSH segment is seeded with the
// literal separator field (MSH-1) and encoding-character block (MSH-2)
// for d. Use this for programmatic construction; parsed messages come
// from ParseMessage.
func NewMessage(d Delimiters) *Message {
	msh := NewSegment("MSH")
	msh.Fields = []Field{
		literalField(string(d.Field)),
		literalField(d.EncodingCharacters()),
	}
	return &Message{
		Delimiters: d,
		Segments:   []*Segment{msh},
	}
}

// AddSegment appends a new empty segment with the given id and returns
// it for population.
func (m *Message) AddSegment(id string) *Segment {
	seg := NewSegment(id)
	m.Segments = append(m.Segments, seg)
	return seg
}

// Segment returns the first segment with the given id, or nil when the
// message has none.
func (m *Message) Segment(id string) *Segment {
	if m == nil {
		return nil
	}
	for _, seg := range m.Segments {
		if seg.ID == id {
			return seg
		}
	}
	return nil
}

// SegmentN returns the n-th (1-based) segment with the given id, or nil.
func (m *Message) SegmentN(id string, n int) *Segment {
	if m == nil || n < 1 {
		return nil
	}
	for _, seg := range m.Segments {
		if seg.ID == id {
			n--
			if n == 0 {
				return seg
			}
		}
	}
	return nil
}

// SegmentsByID returns every segment with the given id, in order.
func (m *Message) SegmentsByID(id string) []*Segment {
	var out []*Segment
	for _, seg := range m.Segments {
		if seg.ID == id {
			out = append(out, seg)
		}
	}
	return out
}

// Header returns the MSH segment, or nil when the message has no
// segments.
func (m *Message) Header() *Segment {
	if m == nil || len(m.Segments) == 0 {
		return nil
	}
	if m.Segments[0].ID != "MSH" {
		return nil
	}
	return m.Segments[0]
}

// ControlID returns MSH-10, the message control id.
func (m *Message) ControlID() string {
	return m.Header().Field(10).Value()
}

// MessageType returns MSH-9, e.g. "ADT^A01".
func (m *Message) MessageType() string {
	h := m.Header()
	f := h.Field(9)
	if f == nil {
		return ""
	}
	return f.Repetition(1).encode(m.Delimiters, false)
}
