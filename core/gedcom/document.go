package gedcom

import "strings"

// Document is the result of parsing a GEDCOM byte stream. It owns its
// Record forest; the id index and resolved pointer targets are non-owning
// references into that forest, so resolution can never create ownership
// cycles. A Document is immutable once Parse returns and may be shared
// freely between concurrent readers.
type Document struct {
	// Records holds the top-level records in document order.
	Records []*Record
	// Version is the detected or header-declared format revision.
	Version Version
	// Charset is the detected character encoding.
	Charset Charset
	// HasBOM records whether the stream carried a byte order mark.
	HasBOM bool
	// SourceHash is the BLAKE3 hash of the raw input bytes, hex encoded.
	SourceHash string
	// Diagnostics holds every validation finding in the order it was made.
	Diagnostics []Diagnostic
	// Mode is the validation configuration the parse ran under.
	Mode Mode

	index map[string]*Record
}

// Lookup returns the record declaring the given cross-reference id, or nil.
// The id may be given with or without its @ delimiters.
func (d *Document) Lookup(xref string) *Record {
	if xref == "" {
		return nil
	}
	if !strings.HasPrefix(xref, "@") {
		xref = "@" + xref + "@"
	}
	return d.index[xref]
}

// RecordsWithTag returns the top-level records carrying tag, in document
// order.
func (d *Document) RecordsWithTag(tag string) []*Record {
	var out []*Record
	for _, r := range d.Records {
		if r.Tag == tag {
			out = append(out, r)
		}
	}
	return out
}

// Header returns the HEAD record, or nil when the document has none.
func (d *Document) Header() *Record {
	for _, r := range d.Records {
		if r.Tag == "HEAD" {
			return r
		}
	}
	return nil
}

// ErrorCount returns the number of error-severity diagnostics.
func (d *Document) ErrorCount() int {
	n := 0
	for _, diag := range d.Diagnostics {
		if diag.Severity == SeverityError {
			n++
		}
	}
	return n
}

// WarningCount returns the number of warning-severity diagnostics.
func (d *Document) WarningCount() int {
	n := 0
	for _, diag := range d.Diagnostics {
		if diag.Severity == SeverityWarning {
			n++
		}
	}
	return n
}

// Valid reports whether the document carries no error-severity diagnostics.
// Callers must check this before trusting the data: a parse that returns a
// Document may still have found conformance violations.
func (d *Document) Valid() bool {
	return d.ErrorCount() == 0
}
