// Package browse projects a parsed GEDCOM document into individual, family
// and event views. It consumes the Document read-only and never mutates it.
package browse

import (
	"sort"
	"strings"

	"github.com/rootsline/gedcom/core/gedcom"
	"github.com/rootsline/gedcom/internal/date"
)

// eventTags are the individual event kinds exposed in details, in the order
// the original data presents them.
var eventTags = map[string]bool{
	"BIRT": true, "DEAT": true, "BURI": true, "CHR": true, "BAPM": true,
	"CREM": true, "ADOP": true, "GRAD": true, "RETI": true,
}

// attributeTags are the individual attribute kinds exposed in details.
var attributeTags = map[string]bool{
	"OCCU": true, "RESI": true, "RELI": true, "EDUC": true, "NATI": true,
	"TITL": true,
}

// Browser provides query access over a parsed document.
type Browser struct {
	doc *gedcom.Document
}

// New returns a Browser over doc.
func New(doc *gedcom.Document) *Browser {
	return &Browser{doc: doc}
}

// Summary is one row of the individual listing.
type Summary struct {
	XRef  string
	Name  string
	Birth string
	Death string
}

// Individuals returns a summary for every INDI record in document order.
func (b *Browser) Individuals() []Summary {
	var out []Summary
	for _, indi := range b.doc.RecordsWithTag("INDI") {
		out = append(out, Summary{
			XRef:  indi.XRef,
			Name:  recordName(indi),
			Birth: eventDate(indi, "BIRT"),
			Death: eventDate(indi, "DEAT"),
		})
	}
	return out
}

// SortByName orders summaries by surname, then given name, using the
// /Surname/ form of the NAME value.
func SortByName(list []Summary) {
	sort.SliceStable(list, func(i, j int) bool {
		gi, si := splitName(list[i].Name)
		gj, sj := splitName(list[j].Name)
		if si != sj {
			return si < sj
		}
		return gi < gj
	})
}

// Event is one dated event of an individual.
type Event struct {
	Kind  string
	Date  string
	Place string
	// Year is extracted from Date where the date grammar matches, 0
	// otherwise.
	Year int
}

// Attribute is one attribute of an individual.
type Attribute struct {
	Kind  string
	Value string
	Date  string
	Place string
}

// Spouse is a family the individual belongs to as a spouse.
type Spouse struct {
	FamilyXRef string
	SpouseXRef string
	SpouseName string
}

// Parent is one parent in a family the individual belongs to as a child.
type Parent struct {
	XRef     string
	Name     string
	Relation string // "Father" or "Mother"
}

// ParentFamily is a family the individual belongs to as a child.
type ParentFamily struct {
	FamilyXRef string
	Parents    []Parent
}

// Source is one source citation of an individual.
type Source struct {
	XRef string
	Page string
}

// Detail is the full projection of one individual.
type Detail struct {
	XRef           string
	Name           string
	Events         []Event
	Attributes     []Attribute
	Spouses        []Spouse
	ParentFamilies []ParentFamily
	Notes          []string
	Sources        []Source
}

// Individual returns the detail view for the INDI record declaring xref.
// The second return is false when no such individual exists.
func (b *Browser) Individual(xref string) (*Detail, bool) {
	indi := b.doc.Lookup(xref)
	if indi == nil || indi.Tag != "INDI" {
		return nil, false
	}

	d := &Detail{XRef: indi.XRef, Name: recordName(indi)}
	for _, c := range indi.Children {
		switch {
		case eventTags[c.Tag]:
			ev := Event{Kind: c.Tag}
			if dt := c.FirstChild("DATE"); dt != nil {
				ev.Date = dt.Value
				if v, err := date.Parse(dt.Value); err == nil {
					ev.Year = v.Year()
				}
			}
			if pl := c.FirstChild("PLAC"); pl != nil {
				ev.Place = pl.Value
			}
			d.Events = append(d.Events, ev)

		case attributeTags[c.Tag]:
			attr := Attribute{Kind: c.Tag, Value: c.Value}
			if dt := c.FirstChild("DATE"); dt != nil {
				attr.Date = dt.Value
			}
			if pl := c.FirstChild("PLAC"); pl != nil {
				attr.Place = pl.Value
			}
			d.Attributes = append(d.Attributes, attr)

		case c.Tag == "FAMS":
			if s, ok := b.spouseFamily(indi, c); ok {
				d.Spouses = append(d.Spouses, s)
			}

		case c.Tag == "FAMC":
			if pf, ok := b.parentFamily(c); ok {
				d.ParentFamilies = append(d.ParentFamilies, pf)
			}

		case c.Tag == "NOTE":
			d.Notes = append(d.Notes, c.Value)

		case c.Tag == "SOUR":
			src := Source{XRef: c.Value}
			if pg := c.FirstChild("PAGE"); pg != nil {
				src.Page = pg.Value
			}
			d.Sources = append(d.Sources, src)
		}
	}
	return d, true
}

// spouseFamily resolves the other spouse of a FAMS link. Dangling family
// pointers are skipped; resolution diagnostics already cover them.
func (b *Browser) spouseFamily(indi *gedcom.Record, fams *gedcom.Record) (Spouse, bool) {
	fam := fams.Target
	if fam == nil {
		return Spouse{}, false
	}
	for _, fc := range fam.Children {
		if (fc.Tag == "HUSB" || fc.Tag == "WIFE") && fc.Value != indi.XRef {
			s := Spouse{FamilyXRef: fam.XRef, SpouseXRef: fc.Value}
			if fc.Target != nil {
				s.SpouseName = recordName(fc.Target)
			}
			return s, true
		}
	}
	return Spouse{}, false
}

func (b *Browser) parentFamily(famc *gedcom.Record) (ParentFamily, bool) {
	fam := famc.Target
	if fam == nil {
		return ParentFamily{}, false
	}
	pf := ParentFamily{FamilyXRef: fam.XRef}
	for _, fc := range fam.Children {
		if fc.Tag != "HUSB" && fc.Tag != "WIFE" {
			continue
		}
		p := Parent{XRef: fc.Value, Relation: "Father"}
		if fc.Tag == "WIFE" {
			p.Relation = "Mother"
		}
		if fc.Target != nil {
			p.Name = recordName(fc.Target)
		}
		pf.Parents = append(pf.Parents, p)
	}
	return pf, true
}

// Family is one row of the family listing.
type Family struct {
	XRef     string
	Husband  string
	Wife     string
	Children []string
}

// Families returns a summary for every FAM record in document order.
// Husband, Wife and Children carry resolved names where available and the
// raw pointer value otherwise.
func (b *Browser) Families() []Family {
	var out []Family
	for _, fam := range b.doc.RecordsWithTag("FAM") {
		f := Family{XRef: fam.XRef}
		for _, c := range fam.Children {
			switch c.Tag {
			case "HUSB":
				f.Husband = memberName(c)
			case "WIFE":
				f.Wife = memberName(c)
			case "CHIL":
				f.Children = append(f.Children, memberName(c))
			}
		}
		out = append(out, f)
	}
	return out
}

func memberName(ptr *gedcom.Record) string {
	if ptr.Target != nil {
		return recordName(ptr.Target)
	}
	return ptr.Value
}

// recordName extracts the NAME value of an individual, "Unknown" when absent.
func recordName(indi *gedcom.Record) string {
	if n := indi.FirstChild("NAME"); n != nil {
		return n.Value
	}
	return "Unknown"
}

// eventDate extracts the DATE value of the first event with tag, or "".
func eventDate(indi *gedcom.Record, tag string) string {
	if ev := indi.FirstChild(tag); ev != nil {
		if dt := ev.FirstChild("DATE"); dt != nil {
			return dt.Value
		}
	}
	return ""
}

// splitName splits a GEDCOM "Given /Surname/" name into its parts.
func splitName(name string) (given, surname string) {
	open := strings.Index(name, "/")
	if open < 0 {
		return strings.ToLower(strings.TrimSpace(name)), ""
	}
	close := strings.Index(name[open+1:], "/")
	if close < 0 {
		return strings.ToLower(strings.TrimSpace(name[:open])), strings.ToLower(name[open+1:])
	}
	given = strings.ToLower(strings.TrimSpace(name[:open]))
	surname = strings.ToLower(name[open+1 : open+1+close])
	return given, surname
}
