package hl7v2

// SubComponent is the atomic leaf of the ER7 data model: a decoded string
// owned by exactly one Component.
type SubComponent string

// String returns the decoded text of the subcomponent.
func (s SubComponent) String() string {
	return string(s)
}

// Component is an ordered, non-empty sequence of SubComponents. Splitting
// an empty string still yields one empty SubComponent — a Component with
// no SubComponents is never a valid state.
type Component struct {
	SubComponents []SubComponent
}

// NewComponent builds a Component holding a single subcomponent.
func NewComponent(value string) Component {
	return Component{SubComponents: []SubComponent{SubComponent(value)}}
}

// SubComponent returns the 1-based subcomponent at pos, or "" and false
// when the component ends before pos.
func (c *Component) SubComponent(pos int) (string, bool) {
	if c == nil || pos < 1 || pos > len(c.SubComponents) {
		return "", false
	}
	return string(c.SubComponents[pos-1]), true
}

// Value flattens the component to its first subcomponent.
func (c *Component) Value() string {
	if c == nil || len(c.SubComponents) == 0 {
		return ""
	}
	return string(c.SubComponents[0])
}

// SetSubComponent sets the 1-based subcomponent at pos, padding any
// intermediate positions with empty subcomponents.
func (c *Component) SetSubComponent(pos int, value string) {
	if pos < 1 {
		return
	}
	for len(c.SubComponents) < pos {
		c.SubComponents = append(c.SubComponents, "")
	}
	c.SubComponents[pos-1] = SubComponent(value)
}

// Repetition is an ordered, non-empty sequence of Components. It
// represents one occurrence of a repeating field value.
type Repetition struct {
	Components []Component
}

// NewRepetition builds a Repetition holding a single component.
func NewRepetition(value string) Repetition {
	return Repetition{Components: []Component{NewComponent(value)}}
}

// Component returns the 1-based component at pos, or nil when the
// repetition ends before pos.
func (r *Repetition) Component(pos int) *Component {
	if r == nil || pos < 1 || pos > len(r.Components) {
		return nil
	}
	return &r.Components[pos-1]
}

// Value flattens the repetition to its first component's first
// subcomponent.
func (r *Repetition) Value() string {
	if r == nil || len(r.Components) == 0 {
		return ""
	}
	return r.Components[0].Value()
}

// SetComponent sets the 1-based component at pos to a single-subcomponent
// value, padding any intermediate positions with empty components.
func (r *Repetition) SetComponent(pos int, value string) {
	if pos < 1 {
		return
	}
	for len(r.Components) < pos {
		r.Components = append(r.Components, NewComponent(""))
	}
	r.Components[pos-1] = NewComponent(value)
}

// EnsureComponent grows the repetition to pos and returns the component
// there.
func (r *Repetition) EnsureComponent(pos int) *Component {
	for len(r.Components) < pos {
		r.Components = append(r.Components, NewComponent(""))
	}
	return &r.Components[pos-1]
}

// Field is an ordered, non-empty sequence of Repetitions, owned by one
// Segment at a 1-based position.
//
// In MSH, BHS, and FHS segments, position 1 holds the literal field
// separator character and position 2 the literal encoding-character
// block. Those two fields are stored verbatim — they define the
// delimiters used to split everything else and are never escape-decoded
// or delimiter-split themselves.
type Field struct {
	Repetitions []Repetition
}

// NewField builds a Field holding a single repetition with the given
// value.
func NewField(value string) Field {
	return Field{Repetitions: []Repetition{NewRepetition(value)}}
}

// Repetition returns the 1-based repetition at pos, or nil when the field
// has fewer occurrences.
func (f *Field) Repetition(pos int) *Repetition {
	if f == nil || pos < 1 || pos > len(f.Repetitions) {
		return nil
	}
	return &f.Repetitions[pos-1]
}

// Value flattens the field to its first repetition's first component's
// first subcomponent. Callers that do not care about sub-structure use
// this pervasively.
func (f *Field) Value() string {
	if f == nil || len(f.Repetitions) == 0 {
		return ""
	}
	return f.Repetitions[0].Value()
}

// AddRepetition appends a new single-component repetition.
func (f *Field) AddRepetition(value string) {
	f.Repetitions = append(f.Repetitions, NewRepetition(value))
}

// SetValue replaces the whole field with a single repetition holding
// value.
func (f *Field) SetValue(value string) {
	f.Repetitions = []Repetition{NewRepetition(value)}
}

// EnsureRepetition grows the field to pos repetitions and returns the
// repetition there.
func (f *Field) EnsureRepetition(pos int) *Repetition {
	for len(f.Repetitions) < pos {
		f.Repetitions = append(f.Repetitions, NewRepetition(""))
	}
	return &f.Repetitions[pos-1]
}

// ParseField splits raw field text into repetitions, components, and
// subcomponents using d, escape-decoding every leaf. An empty input
// yields one repetition holding one empty component with one empty
// subcomponent, so an explicitly empty field stays distinguishable from
// an absent one.
func ParseField(text string, d Delimiters) Field {
	return parseField(text, d, true)
}

func parseField(text string, d Delimiters, decode bool) Field {
	reps := splitByte(text, d.Repetition)
	f := Field{Repetitions: make([]Repetition, 0, len(reps))}
	for _, rep := range reps {
		comps := splitByte(rep, d.Component)
		r := Repetition{Components: make([]Component, 0, len(comps))}
		for _, comp := range comps {
			subs := splitByte(comp, d.SubComponent)
			c := Component{SubComponents: make([]SubComponent, 0, len(subs))}
			for _, sub := range subs {
				if decode {
					sub = d.Decode(sub)
				}
				c.SubComponents = append(c.SubComponents, SubComponent(sub))
			}
			r.Components = append(r.Components, c)
		}
		f.Repetitions = append(f.Repetitions, r)
	}
	return f
}

// literalField builds a field whose value bypasses delimiter splitting
// and escape decoding, used for MSH-1/MSH-2 and their BHS/FHS analogues.
func literalField(value string) Field {
	return NewField(value)
}

// splitByte splits s on every occurrence of sep, preserving empty
// elements. An empty s yields a single empty element.
func splitByte(s string, sep byte) []string {
	n := 1
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			n++
		}
	}
	parts := make([]string, 0, n)
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}
