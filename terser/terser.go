// Package terser provides path-based access to message contents, in the
// style of HAPI's Terser. A path names one leaf of the message tree:
//
//	SEG[(rep)]-field[(rep)][-component[-subcomponent]]
//
// Every position is 1-based and every repetition selector is optional,
// defaulting to the first occurrence. Examples:
//
//	PID-3            first repetition of PID field 3, flattened
//	PID-3(2)         second repetition of PID field 3
//	PID-5-1          family name component of PID-5
//	PID-3-4-2        subcomponent 2 of component 4
//	OBX(3)-5         field 5 of the third OBX segment
//
// Reading an absent position yields the empty string; only a malformed
// path or a missing segment is an error. Writing grows the tree as
// needed, padding intermediate positions with empty values.
//
// Compiled paths are cached process-wide, so repeated access through the
// same path strings costs one parse total.
package terser

import (
	"fmt"
	"strconv"
	"strings"

	hl7 "github.com/gohl7/hl7v2"
	"github.com/gohl7/hl7v2/cache"
)

// pathSpec is a compiled terser path.
type pathSpec struct {
	segID    string
	segRep   int // 1-based occurrence of the segment id
	field    int
	fieldRep int // 1-based occurrence within the field
	comp     int // 0 = whole repetition
	sub      int // 0 = whole component
}

// pathCache memoizes compiled paths. Applications address a handful of
// fixed paths across millions of messages, so the hit rate is near 1.
var pathCache = cache.New[string, pathSpec](256)

// Get returns the value addressed by path. Absent fields, repetitions,
// components, and subcomponents read as ""; a segment the message does
// not contain is an error.
func Get(msg *hl7.Message, path string) (string, error) {
	spec, err := compile(path)
	if err != nil {
		return "", err
	}

	seg := msg.SegmentN(spec.segID, spec.segRep)
	if seg == nil {
		return "", fmt.Errorf("terser: message has no %s segment (occurrence %d)", spec.segID, spec.segRep)
	}

	rep := seg.Field(spec.field).Repetition(spec.fieldRep)
	if spec.comp == 0 {
		return rep.Value(), nil
	}
	comp := rep.Component(spec.comp)
	if spec.sub == 0 {
		return comp.Value(), nil
	}
	v, _ := comp.SubComponent(spec.sub)
	return v, nil
}

// Set writes value at the position addressed by path, growing the
// message as needed. A missing segment occurrence is appended when it is
// the next one in sequence; asking for occurrence 5 of a segment that
// appears twice is an error.
func Set(msg *hl7.Message, path, value string) error {
	spec, err := compile(path)
	if err != nil {
		return err
	}

	seg := msg.SegmentN(spec.segID, spec.segRep)
	if seg == nil {
		existing := len(msg.SegmentsByID(spec.segID))
		if spec.segRep != existing+1 {
			return fmt.Errorf("terser: cannot create %s occurrence %d: message has %d", spec.segID, spec.segRep, existing)
		}
		seg = msg.AddSegment(spec.segID)
	}

	rep := seg.EnsureField(spec.field).EnsureRepetition(spec.fieldRep)
	switch {
	case spec.comp == 0:
		*rep = hl7.NewRepetition(value)
	case spec.sub == 0:
		*rep.EnsureComponent(spec.comp) = hl7.NewComponent(value)
	default:
		rep.EnsureComponent(spec.comp).SetSubComponent(spec.sub, value)
	}
	return nil
}

func compile(path string) (pathSpec, error) {
	if spec, ok := pathCache.Get(path); ok {
		return spec, nil
	}
	spec, err := parsePath(path)
	if err != nil {
		return pathSpec{}, err
	}
	pathCache.Set(path, spec)
	return spec, nil
}

func parsePath(path string) (pathSpec, error) {
	parts := strings.Split(path, "-")
	if len(parts) < 2 || len(parts) > 4 {
		return pathSpec{}, fmt.Errorf("terser: malformed path %q", path)
	}

	spec := pathSpec{segRep: 1, fieldRep: 1}

	id, rep, err := splitRep(parts[0])
	if err != nil {
		return pathSpec{}, fmt.Errorf("terser: malformed path %q: %v", path, err)
	}
	if len(id) != 3 || id != strings.ToUpper(id) {
		return pathSpec{}, fmt.Errorf("terser: malformed path %q: bad segment id %q", path, id)
	}
	spec.segID = id
	if rep > 0 {
		spec.segRep = rep
	}

	fieldText, rep, err := splitRep(parts[1])
	if err != nil {
		return pathSpec{}, fmt.Errorf("terser: malformed path %q: %v", path, err)
	}
	spec.field, err = parsePos(fieldText)
	if err != nil {
		return pathSpec{}, fmt.Errorf("terser: malformed path %q: %v", path, err)
	}
	if rep > 0 {
		spec.fieldRep = rep
	}

	if len(parts) > 2 {
		spec.comp, err = parsePos(parts[2])
		if err != nil {
			return pathSpec{}, fmt.Errorf("terser: malformed path %q: %v", path, err)
		}
	}
	if len(parts) > 3 {
		spec.sub, err = parsePos(parts[3])
		if err != nil {
			return pathSpec{}, fmt.Errorf("terser: malformed path %q: %v", path, err)
		}
	}
	return spec, nil
}

// splitRep splits a "name(rep)" token into the name and the repetition
// number, returning rep 0 when no selector is present.
func splitRep(token string) (string, int, error) {
	open := strings.IndexByte(token, '(')
	if open < 0 {
		return token, 0, nil
	}
	if !strings.HasSuffix(token, ")") {
		return "", 0, fmt.Errorf("unclosed repetition selector in %q", token)
	}
	rep, err := parsePos(token[open+1 : len(token)-1])
	if err != nil {
		return "", 0, err
	}
	return token[:open], rep, nil
}

func parsePos(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("bad position %q", s)
	}
	return n, nil
}

// CacheStats reports hit and size statistics for the compiled-path
// cache.
func CacheStats() cache.Stats {
	return pathCache.Stats()
}
