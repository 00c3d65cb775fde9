// Package fhir converts parsed v2.x messages into FHIR R4 resources.
// The mapping follows the common v2-to-FHIR conventions: PID becomes a
// Patient, with PID-3 identifiers, PID-5 names, PID-7 birth date, PID-8
// administrative gender, PID-11 addresses, and PID-13/PID-14 telecoms.
package fhir

import (
	"fmt"

	"github.com/gofhir/fhir/r4"
	hl7 "github.com/gohl7/hl7v2"
)

// Converter maps message segments onto R4 resources. The zero value is
// ready to use.
type Converter struct{}

// NewConverter creates a Converter.
func NewConverter() *Converter {
	return &Converter{}
}

// Patient builds an R4 Patient from the message's PID segment. The
// message must contain a PID; everything else is optional and absent
// fields are simply left off the resource.
func (c *Converter) Patient(msg *hl7.Message) (*r4.Patient, error) {
	pid := msg.Segment("PID")
	if pid == nil {
		return nil, fmt.Errorf("fhir: message %s has no PID segment", msg.ControlID())
	}

	p := &r4.Patient{
		Identifier: c.identifiers(pid.Field(3)),
		Name:       c.names(pid.Field(5)),
	}

	if birth := formatDate(fieldValue(pid, 7)); birth != "" {
		p.BirthDate = &birth
	}
	if gender, ok := administrativeGender(fieldValue(pid, 8)); ok {
		p.Gender = &gender
	}
	p.Address = c.addresses(pid.Field(11))
	p.Telecom = append(
		c.telecoms(pid.Field(13), r4.ContactPointUseHome),
		c.telecoms(pid.Field(14), r4.ContactPointUseWork)...,
	)

	return p, nil
}

// identifiers maps each repetition of a CX field to an Identifier:
// component 1 is the id value and component 4 the assigning authority.
func (c *Converter) identifiers(f *hl7.Field) []r4.Identifier {
	var out []r4.Identifier
	for i := 1; ; i++ {
		rep := f.Repetition(i)
		if rep == nil {
			break
		}
		value := rep.Component(1).Value()
		if value == "" {
			continue
		}
		id := r4.Identifier{Value: strPtr(value)}
		if system := rep.Component(4).Value(); system != "" {
			id.System = strPtr(system)
		}
		out = append(out, id)
	}
	return out
}

// names maps each repetition of an XPN field to a HumanName: family,
// given, middle, suffix, prefix in components 1 through 5.
func (c *Converter) names(f *hl7.Field) []r4.HumanName {
	var out []r4.HumanName
	for i := 1; ; i++ {
		rep := f.Repetition(i)
		if rep == nil {
			break
		}
		name := r4.HumanName{}
		if family := rep.Component(1).Value(); family != "" {
			name.Family = strPtr(family)
		}
		for _, pos := range []int{2, 3} {
			if given := rep.Component(pos).Value(); given != "" {
				name.Given = append(name.Given, given)
			}
		}
		if suffix := rep.Component(4).Value(); suffix != "" {
			name.Suffix = append(name.Suffix, suffix)
		}
		if prefix := rep.Component(5).Value(); prefix != "" {
			name.Prefix = append(name.Prefix, prefix)
		}
		if name.Family == nil && len(name.Given) == 0 {
			continue
		}
		out = append(out, name)
	}
	return out
}

// addresses maps each repetition of an XAD field to an Address: street,
// other designation, city, state, postal code, country in components 1
// through 6.
func (c *Converter) addresses(f *hl7.Field) []r4.Address {
	var out []r4.Address
	for i := 1; ; i++ {
		rep := f.Repetition(i)
		if rep == nil {
			break
		}
		addr := r4.Address{}
		for _, pos := range []int{1, 2} {
			if line := rep.Component(pos).Value(); line != "" {
				addr.Line = append(addr.Line, line)
			}
		}
		if city := rep.Component(3).Value(); city != "" {
			addr.City = strPtr(city)
		}
		if state := rep.Component(4).Value(); state != "" {
			addr.State = strPtr(state)
		}
		if postal := rep.Component(5).Value(); postal != "" {
			addr.PostalCode = strPtr(postal)
		}
		if country := rep.Component(6).Value(); country != "" {
			addr.Country = strPtr(country)
		}
		if len(addr.Line) == 0 && addr.City == nil && addr.PostalCode == nil {
			continue
		}
		out = append(out, addr)
	}
	return out
}

// telecoms maps each repetition of an XTN field to a ContactPoint with
// the given use, taking the raw number from component 1.
func (c *Converter) telecoms(f *hl7.Field, use r4.ContactPointUse) []r4.ContactPoint {
	var out []r4.ContactPoint
	for i := 1; ; i++ {
		rep := f.Repetition(i)
		if rep == nil {
			break
		}
		value := rep.Component(1).Value()
		if value == "" {
			continue
		}
		u := use
		system := r4.ContactPointSystemPhone
		out = append(out, r4.ContactPoint{
			System: &system,
			Value:  strPtr(value),
			Use:    &u,
		})
	}
	return out
}

// administrativeGender maps table 0001 codes onto the R4 enum. Codes
// outside M, F, O, and U leave the resource's gender unset.
func administrativeGender(code string) (r4.AdministrativeGender, bool) {
	switch code {
	case "M":
		return r4.AdministrativeGenderMale, true
	case "F":
		return r4.AdministrativeGenderFemale, true
	case "O":
		return r4.AdministrativeGenderOther, true
	case "U":
		return r4.AdministrativeGenderUnknown, true
	default:
		return "", false
	}
}

// formatDate reshapes a DTM value into a FHIR date, keeping only the
// calendar portion: YYYYMMDD becomes YYYY-MM-DD. Values shorter than a
// full date are dropped.
func formatDate(dtm string) string {
	if len(dtm) < 8 {
		return ""
	}
	return dtm[:4] + "-" + dtm[4:6] + "-" + dtm[6:8]
}

func fieldValue(seg *hl7.Segment, pos int) string {
	v, _ := seg.FieldValue(pos)
	return v
}

func strPtr(s string) *string {
	return &s
}
