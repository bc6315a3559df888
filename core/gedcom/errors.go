package gedcom

import "errors"

// Fatal parse failures. A fatal failure means no Document is produced;
// every other finding is accumulated as a Diagnostic on the Document.
var (
	// ErrEncoding reports an undecodable byte stream, or a missing byte
	// order mark in strict mode.
	ErrEncoding = errors.New("encoding error")

	// ErrStructure reports a structural violation from which the builder
	// cannot recover in the active mode.
	ErrStructure = errors.New("structure error")

	// ErrVersion reports an unsupported or undeterminable format revision.
	ErrVersion = errors.New("version error")
)
