package gedcom

// Mode selects the validation configuration for a parse. It is fixed for
// the duration of the parse and determines which rules are active and
// whether a given finding is an error or a warning.
type Mode int

const (
	// Strict accepts only GEDCOM 5.5.5 with full conformance checking,
	// including the byte order mark requirement.
	Strict Mode = iota

	// Relaxed accepts an enumerated set of older and newer revisions,
	// tolerates a missing byte order mark, and recovers from structural
	// deviations where a recovery exists.
	Relaxed
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Relaxed:
		return "relaxed"
	default:
		return "unknown"
	}
}
