package hl7v2

import (
	"github.com/gohl7/hl7v2/pool"
)

// Segment terminators accepted by EncodeWithSeparator. CR is the
// canonical ER7 terminator; CRLF and LF are tolerated for lenient
// output.
const (
	SeparatorCR   = "\r"
	SeparatorCRLF = "\r\n"
	SeparatorLF   = "\n"
)

// Encode renders the message as canonical ER7 text: segments joined with
// CR, leaf content escape-encoded so the output round-trips through
// ParseMessage.
func (m *Message) Encode() string {
	return m.EncodeWithSeparator(SeparatorCR)
}

// EncodeWithSeparator renders the message with a caller-selected segment
// terminator. Unrecognized separators fall back to CR.
func (m *Message) EncodeWithSeparator(sep string) string {
	if !validSeparator(sep) {
		sep = SeparatorCR
	}
	buf := pool.AcquireByteSlice()
	defer pool.ReleaseByteSlice(buf)

	b := *buf
	for i, seg := range m.Segments {
		if i > 0 {
			b = append(b, sep...)
		}
		b = seg.appendEncoded(b, m.Delimiters)
	}
	*buf = b
	return string(b)
}

// Encode renders a single segment as ER7 text without a terminator.
func (s *Segment) Encode(d Delimiters) string {
	buf := pool.AcquireByteSlice()
	defer pool.ReleaseByteSlice(buf)

	b := s.appendEncoded(*buf, d)
	*buf = b
	return string(b)
}

// appendEncoded appends the wire form of the segment to b. For header
// segments (MSH/BHS/FHS) the first two fields are written literally:
// position 1 is the separator character itself and position 2 the
// encoding-character block.
func (s *Segment) appendEncoded(b []byte, d Delimiters) []byte {
	b = append(b, s.ID...)
	fields := s.Fields
	if s.IsHeader() {
		b = append(b, d.Field)
		if len(fields) >= 2 {
			b = append(b, fields[1].Value()...)
			fields = fields[2:]
		} else {
			b = append(b, d.EncodingCharacters()...)
			fields = nil
		}
	}
	for i := range fields {
		b = append(b, d.Field)
		b = fields[i].appendEncoded(b, d, true)
	}
	return b
}

// Encode renders the field as ER7 text, escaping reserved characters in
// every leaf.
func (f *Field) Encode(d Delimiters) string {
	if f == nil {
		return ""
	}
	return string(f.appendEncoded(nil, d, true))
}

func (f *Field) appendEncoded(b []byte, d Delimiters, escape bool) []byte {
	for i := range f.Repetitions {
		if i > 0 {
			b = append(b, d.Repetition)
		}
		b = f.Repetitions[i].appendEncoded(b, d, escape)
	}
	return b
}

// Encode renders one repetition as ER7 text.
func (r *Repetition) Encode(d Delimiters) string {
	if r == nil {
		return ""
	}
	return r.encode(d, true)
}

// EncodedLen returns the length in bytes of the repetition's wire form.
func (r *Repetition) EncodedLen(d Delimiters) int {
	return len(r.encode(d, true))
}

func (r *Repetition) encode(d Delimiters, escape bool) string {
	if r == nil {
		return ""
	}
	return string(r.appendEncoded(nil, d, escape))
}

func (r *Repetition) appendEncoded(b []byte, d Delimiters, escape bool) []byte {
	for i := range r.Components {
		if i > 0 {
			b = append(b, d.Component)
		}
		b = r.Components[i].appendEncoded(b, d, escape)
	}
	return b
}

func (c *Component) appendEncoded(b []byte, d Delimiters, escape bool) []byte {
	for i, sub := range c.SubComponents {
		if i > 0 {
			b = append(b, d.SubComponent)
		}
		if escape {
			b = append(b, d.Encode(string(sub))...)
		} else {
			b = append(b, sub...)
		}
	}
	return b
}

// validSeparator reports whether sep is an accepted segment terminator.
func validSeparator(sep string) bool {
	switch sep {
	case SeparatorCR, SeparatorCRLF, SeparatorLF:
		return true
	}
	return false
}
