package gedcom

// Version identifies a GEDCOM format revision.
type Version string

// Supported format revisions. Strict mode accepts only V555; relaxed mode
// accepts all of them.
const (
	V40            Version = "4.0"
	V551           Version = "5.5.1"
	V555           Version = "5.5.5"
	V70            Version = "7.0"
	VersionUnknown Version = "unknown"
)

// VersionFromString maps a header VERS value to a Version.
// Unrecognized values map to VersionUnknown.
func VersionFromString(s string) Version {
	switch s {
	case "4.0":
		return V40
	case "5.5.1":
		return V551
	case "5.5.5":
		return V555
	case "7.0", "7.00":
		return V70
	default:
		return VersionUnknown
	}
}

// MaxLineLength returns the maximum line length in code units for the
// revision, or 0 when the revision imposes no limit.
func (v Version) MaxLineLength() int {
	if v == V70 {
		return 0
	}
	return 255
}
