package hl7v2

// Segment is an uppercase three-letter id plus an ordered list of Fields
// addressed by 1-based position. Field positions past the end of the list
// are absent, which is distinct from a field that is present but empty.
type Segment struct {
	ID     string
	Fields []Field
}

// NewSegment builds an empty segment with the given id.
func NewSegment(id string) *Segment {
	return &Segment{ID: id}
}

// IsHeader reports whether the segment is a delimiter-carrying header
// (MSH, BHS, or FHS), whose positions 1 and 2 hold the literal separator
// character and encoding-character block.
func (s *Segment) IsHeader() bool {
	return s != nil && isHeaderMarker(s.ID)
}

// Field returns the 1-based field at pos, or nil when the segment ends
// before pos.
func (s *Segment) Field(pos int) *Field {
	if s == nil || pos < 1 || pos > len(s.Fields) {
		return nil
	}
	return &s.Fields[pos-1]
}

// FieldValue returns the flattened value of the field at pos. The second
// return distinguishes a present field (possibly empty) from an absent
// one.
func (s *Segment) FieldValue(pos int) (string, bool) {
	f := s.Field(pos)
	if f == nil {
		return "", false
	}
	return f.Value(), true
}

// AddField appends a field holding a single value and returns its
// 1-based position.
func (s *Segment) AddField(value string) int {
	s.Fields = append(s.Fields, NewField(value))
	return len(s.Fields)
}

// SetField sets the 1-based field at pos to a single value, padding any
// intermediate positions with empty fields.
func (s *Segment) SetField(pos int, value string) {
	if pos < 1 {
		return
	}
	s.EnsureField(pos).SetValue(value)
}

// EnsureField grows the segment to pos fields and returns the field
// there.
func (s *Segment) EnsureField(pos int) *Field {
	for len(s.Fields) < pos {
		s.Fields = append(s.Fields, NewField(""))
	}
	return &s.Fields[pos-1]
}

// FieldCount returns the number of fields present on the segment.
func (s *Segment) FieldCount() int {
	if s == nil {
		return 0
	}
	return len(s.Fields)
}
