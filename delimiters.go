package hl7v2

import "strconv"

// Delimiters holds the five encoding characters that define the grammar of
// one ER7 message: the field, component, repetition, escape, and
// subcomponent separators.
//
// The set is declared inside the message itself — character 3 of the
// MSH/BHS/FHS line is the field separator and characters 4–7 are the
// encoding characters — so Delimiters must be extracted before any other
// part of the message can be split. A Delimiters value is immutable and is
// passed explicitly to every split and escape operation.
type Delimiters struct {
	Field        byte
	Component    byte
	Repetition   byte
	Escape       byte
	SubComponent byte
}

// DefaultDelimiters returns the conventional delimiter set |^~\&, used
// when building messages programmatically.
func DefaultDelimiters() Delimiters {
	return Delimiters{
		Field:        '|',
		Component:    '^',
		Repetition:   '~',
		Escape:       '\\',
		SubComponent: '&',
	}
}

// headerMarkers are the segment ids that carry a delimiter preamble.
var headerMarkers = [...]string{"MSH", "BHS", "FHS"}

// isHeaderMarker reports whether id is one of MSH, BHS, or FHS.
func isHeaderMarker(id string) bool {
	for _, m := range headerMarkers {
		if id == m {
			return true
		}
	}
	return false
}

// ExtractDelimiters bootstraps the delimiter set from the first 8
// characters of a header segment. The text must start with "MSH", "BHS",
// or "FHS"; character 3 is the field separator and characters 4–7, in
// fixed order, are the component separator, repetition separator, escape
// character, and subcomponent separator.
//
// This is phase one of the two-phase parse: the preamble is read
// positionally with no grammar at all, and the resulting value is then
// threaded into every subsequent split — including re-parsing the header
// segment's own remaining fields.
func ExtractDelimiters(text string) (Delimiters, error) {
	if len(text) < 8 {
		return Delimiters{}, &ParseError{
			Op:  "delimiters",
			Msg: "header too short: need at least 8 characters, have " + strconv.Itoa(len(text)),
		}
	}
	if !isHeaderMarker(text[:3]) {
		return Delimiters{}, &ParseError{
			Op:  "delimiters",
			Msg: "expected MSH, BHS, or FHS header, found " + strconv.Quote(text[:3]),
		}
	}

	d := Delimiters{
		Field:        text[3],
		Component:    text[4],
		Repetition:   text[5],
		Escape:       text[6],
		SubComponent: text[7],
	}
	if err := d.validate(); err != nil {
		return Delimiters{}, err
	}
	return d, nil
}

// validate checks that the five delimiters are pairwise distinct.
func (d Delimiters) validate() error {
	chars := [5]byte{d.Field, d.Component, d.Repetition, d.Escape, d.SubComponent}
	for i := 0; i < len(chars); i++ {
		for j := i + 1; j < len(chars); j++ {
			if chars[i] == chars[j] {
				return &ParseError{
					Op:  "delimiters",
					Msg: "delimiters must be pairwise distinct, " + strconv.Quote(string(chars[i])) + " repeats",
				}
			}
		}
	}
	return nil
}

// EncodingCharacters returns the four encoding characters as they appear
// in MSH-2: component, repetition, escape, subcomponent.
func (d Delimiters) EncodingCharacters() string {
	return string([]byte{d.Component, d.Repetition, d.Escape, d.SubComponent})
}

// IsDelimiter reports whether c is any of the five separator characters.
func (d Delimiters) IsDelimiter(c byte) bool {
	return c == d.Field || c == d.Component || c == d.Repetition ||
		c == d.Escape || c == d.SubComponent
}
