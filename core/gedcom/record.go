package gedcom

import (
	"regexp"
	"strconv"
	"strings"
)

// pointerPattern matches a value consisting solely of a delimited
// cross-reference id, e.g. "@I1@".
var pointerPattern = regexp.MustCompile(`^@[^@\s]+@$`)

// Record is a node in the GEDCOM hierarchy. A Record exclusively owns its
// children; Parent and Target are non-owning references into the same
// forest.
type Record struct {
	// Level is the depth encoded on the source line. For every attached
	// child it equals the parent's level plus one.
	Level int
	// XRef is the declared cross-reference id including its delimiters,
	// e.g. "@I1@". Empty when the line declared none.
	XRef string
	// Tag names the record's semantic kind, e.g. "INDI" or "BIRT".
	Tag string
	// Value is the raw line value, with continuation lines already merged.
	Value string
	// Line is the 1-based source line the record started on.
	Line int

	// Children holds the record's sub-records in document order.
	Children []*Record
	// Parent is nil for top-level records.
	Parent *Record
	// Target is the resolved pointer target when Value is a pointer field,
	// nil when the value is not a pointer or the reference is dangling.
	Target *Record
}

func (r *Record) addChild(c *Record) {
	c.Parent = r
	r.Children = append(r.Children, c)
}

// ChildrenWithTag returns the direct children carrying tag, in document order.
func (r *Record) ChildrenWithTag(tag string) []*Record {
	var out []*Record
	for _, c := range r.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// FirstChild returns the first direct child carrying tag, or nil.
func (r *Record) FirstChild(tag string) *Record {
	for _, c := range r.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// IsPointer reports whether the record's value syntactically denotes a
// reference to another record's cross-reference id.
func (r *Record) IsPointer() bool {
	return pointerPattern.MatchString(r.Value)
}

func (r *Record) String() string {
	parts := []string{strconv.Itoa(r.Level)}
	if r.XRef != "" {
		parts = append(parts, r.XRef)
	}
	parts = append(parts, r.Tag)
	if r.Value != "" {
		parts = append(parts, r.Value)
	}
	return strings.Join(parts, " ")
}
