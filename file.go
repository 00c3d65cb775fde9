package hl7v2

import (
	"strconv"
	"strings"

	"github.com/gohl7/hl7v2/pool"
)

// File is a group of Batches framed by FHS/FTS control segments — the
// framing layer one level above Batch. The FTS trailer may declare how
// many batches the file holds.
type File struct {
	Delimiters Delimiters

	// Header is the FHS segment.
	Header *Segment

	// Batches are the contained batches, in wire order.
	Batches []*Batch

	// Trailer is the FTS segment. FTS-1 optionally declares the batch
	// count.
	Trailer *Segment
}

// NewFile builds an empty file with seeded FHS and FTS segments for
// programmatic construction.
func NewFile(d Delimiters) *File {
	fhs := NewSegment("FHS")
	fhs.Fields = []Field{
		literalField(string(d.Field)),
		literalField(d.EncodingCharacters()),
	}
	return &File{
		Delimiters: d,
		Header:     fhs,
		Trailer:    NewSegment("FTS"),
	}
}

// ParseFile parses FHS/FTS-framed text. The first line must start with
// "FHS" and the last with "FTS"; every line between them is regrouped
// into batches, each group starting at a line with the "BHS" marker and
// parsed with ParseBatch.
func ParseFile(text string, opts ...Option) (*File, error) {
	o := applyOptions(opts)
	f, err := parseFile(text, o)
	if err == nil {
		o.Metrics.RecordFile()
	}
	return f, err
}

func parseFile(text string, o *Options) (*File, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, parseErrorf("file", 0, "empty input")
	}

	lines := splitSegmentLines(text, o.LenientNewlines)
	if !strings.HasPrefix(lines[0], "FHS") {
		return nil, parseErrorf("file", 1, "file must start with FHS, found %s",
			strconv.Quote(prefix(lines[0], 3)))
	}
	last := len(lines) - 1
	if last == 0 || !strings.HasPrefix(lines[last], "FTS") {
		return nil, parseErrorf("file", last+1, "file must end with FTS")
	}

	d, err := ExtractDelimiters(lines[0])
	if err != nil {
		return nil, err
	}

	f := &File{
		Delimiters: d,
		Header:     parseHeaderSegment(lines[0], d, o),
	}
	f.Trailer, err = parseSegment(lines[last], d, o, last+1)
	if err != nil {
		return nil, err
	}

	groups, err := groupLines(lines[1:last], "BHS", "file", 2)
	if err != nil {
		return nil, err
	}
	f.Batches = make([]*Batch, 0, len(groups))
	for _, g := range groups {
		b, err := parseBatch(strings.Join(g, SeparatorCR), o)
		if err != nil {
			return nil, err
		}
		f.Batches = append(f.Batches, b)
	}
	return f, nil
}

// BatchCount returns the count declared in FTS-1, when present and
// numeric.
func (f *File) BatchCount() (int, bool) {
	return declaredCount(f.Trailer)
}

// SetBatchCount writes n into FTS-1.
func (f *File) SetBatchCount(n int) {
	if f.Trailer == nil {
		f.Trailer = NewSegment("FTS")
	}
	f.Trailer.SetField(1, strconv.Itoa(n))
}

// AddBatch appends a batch to the file.
func (f *File) AddBatch(b *Batch) {
	f.Batches = append(f.Batches, b)
}

// Validate checks the declared batch count against the actual number of
// contained batches, then validates every contained batch. The first
// mismatch found is returned as a *ValidationError.
func (f *File) Validate() error {
	if declared, ok := f.BatchCount(); ok && declared != len(f.Batches) {
		return &ValidationError{
			Entity:   "file",
			Declared: declared,
			Actual:   len(f.Batches),
		}
	}
	for _, b := range f.Batches {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Encode renders the file as canonical ER7 text with CR separators.
func (f *File) Encode() string {
	return f.EncodeWithSeparator(SeparatorCR)
}

// EncodeWithSeparator renders the file with a caller-selected segment
// terminator: FHS line, each batch in order, then the FTS line.
func (f *File) EncodeWithSeparator(sep string) string {
	if !validSeparator(sep) {
		sep = SeparatorCR
	}

	buf := pool.AcquireByteSlice()
	defer pool.ReleaseByteSlice(buf)

	out := *buf
	out = f.Header.appendEncoded(out, f.Delimiters)
	for _, b := range f.Batches {
		out = append(out, sep...)
		out = append(out, b.EncodeWithSeparator(sep)...)
	}
	out = append(out, sep...)
	out = f.Trailer.appendEncoded(out, f.Delimiters)
	*buf = out
	return string(out)
}
