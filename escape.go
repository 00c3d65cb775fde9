package hl7v2

import (
	"encoding/hex"
	"strings"
)

// Escape sequence bodies defined by HL7 v2. Each sequence is bounded by
// the escape character on both sides, e.g. \F\ with default delimiters.
const (
	escField        = 'F' // field separator
	escComponent    = 'S' // component separator
	escRepetition   = 'R' // repetition separator
	escSubComponent = 'T' // subcomponent separator
	escEscape       = 'E' // the escape character itself
	escHex          = 'X' // hex-encoded bytes: \X0D\
)

// Encode replaces every occurrence of the five delimiter characters in s
// with its escape sequence, so the result can be embedded in a field
// without being split by the parser. Encode is the inverse of Decode for
// any input.
func (d Delimiters) Encode(s string) string {
	// Fast path: nothing to escape.
	i := 0
	for i < len(s) && !d.IsDelimiter(s[i]) {
		i++
	}
	if i == len(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	b.WriteString(s[:i])
	for ; i < len(s); i++ {
		c := s[i]
		switch c {
		case d.Field:
			d.writeEscape(&b, escField)
		case d.Component:
			d.writeEscape(&b, escComponent)
		case d.Repetition:
			d.writeEscape(&b, escRepetition)
		case d.SubComponent:
			d.writeEscape(&b, escSubComponent)
		case d.Escape:
			d.writeEscape(&b, escEscape)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func (d Delimiters) writeEscape(b *strings.Builder, body byte) {
	b.WriteByte(d.Escape)
	b.WriteByte(body)
	b.WriteByte(d.Escape)
}

// Decode expands escape sequences in s into their literal characters.
// Sequences are processed left to right without overlap or nesting.
// The five delimiter sequences (\F\ \S\ \R\ \T\ \E\) expand to the
// corresponding delimiter character, and \X..\ expands pairs of hex
// digits to raw bytes.
//
// Malformed input — an unterminated sequence, an unknown body, or odd or
// invalid hex digits — passes through literally rather than failing, so
// decoding never loses data.
func (d Delimiters) Decode(s string) string {
	i := strings.IndexByte(s, d.Escape)
	if i < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:i])
	for i < len(s) {
		c := s[i]
		if c != d.Escape {
			b.WriteByte(c)
			i++
			continue
		}

		end := strings.IndexByte(s[i+1:], d.Escape)
		if end < 0 {
			// Unterminated: pass the rest through literally.
			b.WriteString(s[i:])
			break
		}
		body := s[i+1 : i+1+end]
		if d.decodeBody(&b, body) {
			i += end + 2
			continue
		}
		// Unknown sequence: emit the opening escape literally and rescan
		// from the next character, so the closing escape may still start
		// a valid sequence.
		b.WriteByte(c)
		i++
	}
	return b.String()
}

// decodeBody writes the expansion of one escape-sequence body. It
// reports false when the body is not a recognized sequence.
func (d Delimiters) decodeBody(b *strings.Builder, body string) bool {
	if len(body) == 1 {
		switch body[0] {
		case escField:
			b.WriteByte(d.Field)
			return true
		case escComponent:
			b.WriteByte(d.Component)
			return true
		case escRepetition:
			b.WriteByte(d.Repetition)
			return true
		case escSubComponent:
			b.WriteByte(d.SubComponent)
			return true
		case escEscape:
			b.WriteByte(d.Escape)
			return true
		}
		return false
	}
	if len(body) >= 3 && body[0] == escHex && len(body)%2 == 1 {
		raw, err := hex.DecodeString(body[1:])
		if err != nil {
			return false
		}
		b.Write(raw)
		return true
	}
	return false
}
