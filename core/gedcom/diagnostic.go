package gedcom

import "fmt"

// Severity ranks a validation finding.
type Severity int

const (
	// SeverityWarning marks a tolerated deviation.
	SeverityWarning Severity = iota
	// SeverityError marks a conformance violation. A Document carrying any
	// error-severity diagnostic is not valid, even though it is returned.
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Kind classifies a validation finding.
type Kind int

const (
	// KindEncoding covers byte order mark and decoding findings.
	KindEncoding Kind = iota
	// KindStructure covers line syntax, level discipline, and continuation
	// misuse.
	KindStructure
	// KindCrossReference covers dangling pointers and duplicate id
	// declarations.
	KindCrossReference
	// KindVersion covers unsupported or mismatched declared revisions.
	KindVersion
	// KindHeader covers missing or contradictory header fields.
	KindHeader
)

func (k Kind) String() string {
	switch k {
	case KindEncoding:
		return "encoding"
	case KindStructure:
		return "structure"
	case KindCrossReference:
		return "cross-reference"
	case KindVersion:
		return "version"
	case KindHeader:
		return "header"
	default:
		return "unknown"
	}
}

// Diagnostic is a single validation finding. Diagnostics never mutate the
// tree; they are observational output attached to the Document.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	// Line is the 1-based source line involved, or 0 when the finding is
	// not tied to a specific line.
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("line %d: %s [%s] %s", d.Line, d.Severity, d.Kind, d.Message)
	}
	return fmt.Sprintf("%s [%s] %s", d.Severity, d.Kind, d.Message)
}
