// Package ack builds acknowledgment messages for received messages, the
// way an MLLP receiver replies to a sender. The acknowledgment swaps the
// sender and receiver identities of the original MSH and carries an MSA
// segment naming the original control id.
package ack

import (
	"errors"
	"fmt"
	"time"

	hl7 "github.com/gohl7/hl7v2"
)

// Code is an MSA-1 acknowledgment code from table 0008.
type Code string

const (
	// CodeAccept reports the message was received and processed.
	CodeAccept Code = "AA"
	// CodeError reports the message was received but processing failed.
	CodeError Code = "AE"
	// CodeReject reports the message was rejected before processing.
	CodeReject Code = "AR"
)

// ErrNoHeader is returned when the original message has no MSH segment.
var ErrNoHeader = errors.New("ack: original message has no MSH segment")

// Builder assembles an acknowledgment for one original message. Methods
// chain; Build produces the message.
type Builder struct {
	original  *hl7.Message
	code      Code
	text      string
	controlID string
	ts        time.Time
}

// New starts an acknowledgment for original, defaulting to CodeAccept.
func New(original *hl7.Message) *Builder {
	return &Builder{original: original, code: CodeAccept}
}

// Code sets the MSA-1 acknowledgment code.
func (b *Builder) Code(c Code) *Builder {
	b.code = c
	return b
}

// Text sets the MSA-3 text, usually an error description.
func (b *Builder) Text(text string) *Builder {
	b.text = text
	return b
}

// ControlID sets the MSH-10 control id of the acknowledgment itself.
// When unset, Build derives one by prefixing the original's id with
// "ACK".
func (b *Builder) ControlID(id string) *Builder {
	b.controlID = id
	return b
}

// Timestamp sets the MSH-7 timestamp. When unset, Build uses the
// current time.
func (b *Builder) Timestamp(t time.Time) *Builder {
	b.ts = t
	return b
}

// Build assembles the acknowledgment. The new MSH mirrors the original
// with sending and receiving application/facility swapped, MSH-9 set to
// ACK with the original trigger event, and the original's processing id
// and version carried over.
func (b *Builder) Build() (*hl7.Message, error) {
	orig := b.original.Header()
	if orig == nil {
		return nil, ErrNoHeader
	}
	d := b.original.Delimiters

	ts := b.ts
	if ts.IsZero() {
		ts = time.Now()
	}
	controlID := b.controlID
	if controlID == "" {
		controlID = "ACK" + b.original.ControlID()
	}

	msg := hl7.NewMessage(d)
	msh := msg.Header()
	copyHeaderField(msh, 3, orig, 5, d) // sender is the original receiver
	copyHeaderField(msh, 4, orig, 6, d)
	copyHeaderField(msh, 5, orig, 3, d)
	copyHeaderField(msh, 6, orig, 4, d)
	msh.SetField(7, ts.Format("20060102150405"))
	*msh.EnsureField(9) = hl7.ParseField(ackType(b.original), d)
	msh.SetField(10, controlID)
	copyHeaderField(msh, 11, orig, 11, d)
	copyHeaderField(msh, 12, orig, 12, d)

	msa := msg.AddSegment("MSA")
	msa.SetField(1, string(b.code))
	msa.SetField(2, b.original.ControlID())
	if b.text != "" {
		msa.SetField(3, b.text)
	}

	return msg, nil
}

// Accept builds an AA acknowledgment for original.
func Accept(original *hl7.Message) (*hl7.Message, error) {
	return New(original).Build()
}

// Error builds an AE acknowledgment with the given text.
func Error(original *hl7.Message, text string) (*hl7.Message, error) {
	return New(original).Code(CodeError).Text(text).Build()
}

// Reject builds an AR acknowledgment with the given text.
func Reject(original *hl7.Message, text string) (*hl7.Message, error) {
	return New(original).Code(CodeReject).Text(text).Build()
}

// ackType builds the MSH-9 value: ACK plus the original trigger event
// when the original declared one.
func ackType(original *hl7.Message) string {
	f := original.Header().Field(9)
	if f == nil {
		return "ACK"
	}
	trigger := f.Repetition(1).Component(2).Value()
	if trigger == "" {
		return "ACK"
	}
	return fmt.Sprintf("ACK%c%s", original.Delimiters.Component, trigger)
}

// copyHeaderField copies a header field preserving its component
// structure, so values like "APP^FACILITY" survive the swap intact.
func copyHeaderField(dst *hl7.Segment, dstPos int, src *hl7.Segment, srcPos int, d hl7.Delimiters) {
	f := src.Field(srcPos)
	if f == nil {
		dst.SetField(dstPos, "")
		return
	}
	*dst.EnsureField(dstPos) = hl7.ParseField(f.Repetition(1).Encode(d), d)
}
