package hl7v2

import (
	"strconv"
	"strings"

	"github.com/gohl7/hl7v2/pool"
)

// Batch is a group of Messages framed by BHS/BTS control segments. The
// BHS line carries its own delimiter preamble, bootstrapped exactly like
// MSH; the BTS trailer may declare how many messages the batch holds.
type Batch struct {
	Delimiters Delimiters

	// Header is the BHS segment.
	Header *Segment

	// Messages are the contained messages, in wire order.
	Messages []*Message

	// Trailer is the BTS segment. BTS-1 optionally declares the message
	// count.
	Trailer *Segment
}

// NewBatch builds an empty batch with seeded BHS and BTS segments for
// programmatic construction.
func NewBatch(d Delimiters) *Batch {
	bhs := NewSegment("BHS")
	bhs.Fields = []Field{
		literalField(string(d.Field)),
		literalField(d.EncodingCharacters()),
	}
	return &Batch{
		Delimiters: d,
		Header:     bhs,
		Trailer:    NewSegment("BTS"),
	}
}

// ParseBatch parses BHS/BTS-framed text. The first line must start with
// "BHS" and the last with "BTS"; every line between them is regrouped
// into messages, each group starting at a line with the "MSH" marker and
// parsed with ParseMessage.
func ParseBatch(text string, opts ...Option) (*Batch, error) {
	o := applyOptions(opts)
	b, err := parseBatch(text, o)
	if err == nil {
		o.Metrics.RecordBatch()
	}
	return b, err
}

func parseBatch(text string, o *Options) (*Batch, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, parseErrorf("batch", 0, "empty input")
	}

	lines := splitSegmentLines(text, o.LenientNewlines)
	if !strings.HasPrefix(lines[0], "BHS") {
		return nil, parseErrorf("batch", 1, "batch must start with BHS, found %s",
			strconv.Quote(prefix(lines[0], 3)))
	}
	last := len(lines) - 1
	if last == 0 || !strings.HasPrefix(lines[last], "BTS") {
		return nil, parseErrorf("batch", last+1, "batch must end with BTS")
	}

	d, err := ExtractDelimiters(lines[0])
	if err != nil {
		return nil, err
	}

	b := &Batch{
		Delimiters: d,
		Header:     parseHeaderSegment(lines[0], d, o),
	}
	b.Trailer, err = parseSegment(lines[last], d, o, last+1)
	if err != nil {
		return nil, err
	}

	groups, err := groupLines(lines[1:last], "MSH", "batch", 2)
	if err != nil {
		return nil, err
	}
	b.Messages = make([]*Message, 0, len(groups))
	for _, g := range groups {
		msg, err := parseMessage(strings.Join(g, SeparatorCR), o)
		if err != nil {
			return nil, err
		}
		b.Messages = append(b.Messages, msg)
	}
	return b, nil
}

// MessageCount returns the count declared in BTS-1, when present and
// numeric.
func (b *Batch) MessageCount() (int, bool) {
	return declaredCount(b.Trailer)
}

// SetMessageCount writes n into BTS-1.
func (b *Batch) SetMessageCount(n int) {
	if b.Trailer == nil {
		b.Trailer = NewSegment("BTS")
	}
	b.Trailer.SetField(1, strconv.Itoa(n))
}

// AddMessage appends a message to the batch.
func (b *Batch) AddMessage(m *Message) {
	b.Messages = append(b.Messages, m)
}

// Validate checks the declared message count against the actual number
// of contained messages. It returns a *ValidationError on mismatch and
// nil when the trailer declares no count.
func (b *Batch) Validate() error {
	declared, ok := b.MessageCount()
	if !ok {
		return nil
	}
	if declared != len(b.Messages) {
		return &ValidationError{
			Entity:   "batch",
			Declared: declared,
			Actual:   len(b.Messages),
		}
	}
	return nil
}

// Encode renders the batch as canonical ER7 text with CR separators.
func (b *Batch) Encode() string {
	return b.EncodeWithSeparator(SeparatorCR)
}

// EncodeWithSeparator renders the batch with a caller-selected segment
// terminator: BHS line, each message in order, then the BTS line.
func (b *Batch) EncodeWithSeparator(sep string) string {
	if !validSeparator(sep) {
		sep = SeparatorCR
	}

	buf := pool.AcquireByteSlice()
	defer pool.ReleaseByteSlice(buf)

	out := *buf
	out = b.Header.appendEncoded(out, b.Delimiters)
	for _, msg := range b.Messages {
		out = append(out, sep...)
		out = append(out, msg.EncodeWithSeparator(sep)...)
	}
	out = append(out, sep...)
	out = b.Trailer.appendEncoded(out, b.Delimiters)
	*buf = out
	return string(out)
}

// groupLines regroups body lines into runs, each starting at a line with
// the given marker. A body line before the first marker has no group to
// belong to and is a structural fault.
func groupLines(lines []string, marker, op string, firstLineNo int) ([][]string, error) {
	var groups [][]string
	for i, line := range lines {
		if strings.HasPrefix(line, marker) {
			groups = append(groups, []string{line})
			continue
		}
		if len(groups) == 0 {
			return nil, parseErrorf(op, firstLineNo+i,
				"unexpected segment %s before first %s",
				strconv.Quote(prefix(line, 3)), marker)
		}
		last := len(groups) - 1
		groups[last] = append(groups[last], line)
	}
	return groups, nil
}

// declaredCount reads the numeric count from field 1 of a trailer
// segment. A missing, empty, or non-numeric field means no declared
// count.
func declaredCount(trailer *Segment) (int, bool) {
	v := trailer.Field(1).Value()
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
