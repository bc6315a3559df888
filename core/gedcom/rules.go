package gedcom

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// rule identifies one switchable validation check. Whether a rule is active,
// and the severity of its findings, depends on the {version, mode} pair; see
// rulesFor.
type rule int

const (
	ruleRequireBOM rule = iota
	ruleLineLength
	ruleNoLevelLeadingZeros
	ruleNoTrailingWhitespace
	ruleNoEmptyLines
	ruleNoLeadingWhitespace
	ruleRequireHead
	ruleSingleHead
	ruleRequireGedcVers
	ruleRequireForm
	ruleRequireCharDecl
	ruleCharMatchesEncoding
	ruleNoHeaderContinuation
)

// ruleSet maps each active rule to the severity of its findings. Rules
// absent from the set are disabled.
type ruleSet map[rule]Severity

// severityFor is the default severity of a finding under the given mode.
func severityFor(m Mode) Severity {
	if m == Strict {
		return SeverityError
	}
	return SeverityWarning
}

// rulesFor computes the effective rule set for a format revision and mode.
// Supporting a new revision means extending this table, not the engine.
func rulesFor(v Version, m Mode) ruleSet {
	rs := ruleSet{
		ruleNoEmptyLines:        severityFor(m),
		ruleNoLeadingWhitespace: severityFor(m),
		ruleRequireHead:         severityFor(m),
		ruleSingleHead:          severityFor(m),
		ruleRequireGedcVers:     severityFor(m),
	}

	switch v {
	case V551:
		rs[ruleRequireForm] = severityFor(m)
		rs[ruleRequireCharDecl] = severityFor(m)
	case V555:
		rs[ruleRequireForm] = severityFor(m)
		rs[ruleRequireCharDecl] = severityFor(m)
		// 5.5.5 requires a byte order mark. In strict mode its absence is
		// already fatal at the decode stage; in relaxed mode it is noted.
		rs[ruleRequireBOM] = severityFor(m)
		if m == Strict {
			rs[ruleCharMatchesEncoding] = SeverityError
			rs[ruleNoHeaderContinuation] = SeverityError
		}
	}

	if m == Strict {
		rs[ruleLineLength] = SeverityError
		rs[ruleNoLevelLeadingZeros] = SeverityError
		rs[ruleNoTrailingWhitespace] = SeverityError
	}

	return rs
}

// engine applies the version- and mode-selected rule set over lines, tokens
// and the finished tree. It accumulates diagnostics and never mutates the
// tree.
type engine struct {
	mode    Mode
	version Version
	rules   ruleSet
	diags   []Diagnostic
}

func newEngine(v Version, m Mode) *engine {
	return &engine{mode: m, version: v, rules: rulesFor(v, m)}
}

// setVersion switches the effective revision, recomputing the rule set.
// Used when the header declaration disagrees with the byte-level sniff.
func (e *engine) setVersion(v Version) {
	e.version = v
	e.rules = rulesFor(v, e.mode)
}

func (e *engine) active(r rule) bool {
	_, ok := e.rules[r]
	return ok
}

// add appends a diagnostic unconditionally.
func (e *engine) add(sev Severity, kind Kind, line int, format string, args ...any) {
	e.diags = append(e.diags, Diagnostic{
		Severity: sev,
		Kind:     kind,
		Line:     line,
		Message:  fmt.Sprintf(format, args...),
	})
}

// report appends a diagnostic if the rule is active, at the rule's severity.
func (e *engine) report(r rule, kind Kind, line int, format string, args ...any) {
	if sev, ok := e.rules[r]; ok {
		e.add(sev, kind, line, format, args...)
	}
}

// checkLine applies the line-level rules to one raw decoded line. It returns
// the cleaned line and whether the line should be skipped entirely.
func (e *engine) checkLine(number int, raw string) (string, bool) {
	line := strings.TrimSuffix(raw, "\r")

	if strings.TrimSpace(line) == "" {
		e.report(ruleNoEmptyLines, KindStructure, number, "empty line")
		return "", true
	}
	if line[0] == ' ' || line[0] == '\t' {
		e.report(ruleNoLeadingWhitespace, KindStructure, number, "leading whitespace")
		line = strings.TrimLeft(line, " \t")
	}
	if e.active(ruleNoTrailingWhitespace) && strings.TrimRight(line, " \t") != line {
		e.report(ruleNoTrailingWhitespace, KindStructure, number, "trailing whitespace")
	}
	if max := e.version.MaxLineLength(); max > 0 && utf8.RuneCountInString(line) > max {
		e.report(ruleLineLength, KindStructure, number, "line exceeds %d code units", max)
	}
	return line, false
}

// checkToken applies token-level rules the tokenizer itself stays neutral on.
func (e *engine) checkToken(tok *lineToken) {
	if len(tok.levelText) > 1 && tok.levelText[0] == '0' {
		e.report(ruleNoLevelLeadingZeros, KindStructure, tok.line, "leading zeros in level number")
	}
}

// checkHeader validates the header section of the finished tree. It returns
// a fatal error only for a version violation in strict mode; every other
// finding becomes a diagnostic.
func (e *engine) checkHeader(doc *Document, headCount int) error {
	if e.active(ruleRequireBOM) && !doc.HasBOM {
		e.report(ruleRequireBOM, KindEncoding, 0, "revision %s requires a byte order mark", e.version)
	}
	if headCount > 1 {
		e.report(ruleSingleHead, KindHeader, 0, "multiple HEAD records (%d)", headCount)
	}

	head := doc.Header()
	if head == nil {
		e.report(ruleRequireHead, KindHeader, 0, "missing HEAD record")
		return nil
	}

	gedc := head.FirstChild("GEDC")
	var vers *Record
	if gedc != nil {
		vers = gedc.FirstChild("VERS")
	}
	switch {
	case vers == nil || vers.Value == "":
		e.report(ruleRequireGedcVers, KindHeader, head.Line, "missing GEDC.VERS declaration")
	default:
		declared := VersionFromString(vers.Value)
		switch {
		case declared == VersionUnknown:
			if e.mode == Strict {
				return fmt.Errorf("%w: unsupported revision %q", ErrVersion, vers.Value)
			}
			e.add(SeverityError, KindVersion, vers.Line, "unsupported revision %q", vers.Value)
		case e.mode == Strict && declared != V555:
			return fmt.Errorf("%w: revision %s is not accepted in strict mode (only %s)", ErrVersion, declared, V555)
		case declared != e.version:
			// The header declaration wins over the byte-level sniff.
			e.setVersion(declared)
			doc.Version = declared
		}
	}

	if e.active(ruleRequireForm) && gedc != nil {
		form := gedc.FirstChild("FORM")
		switch {
		case form == nil:
			e.report(ruleRequireForm, KindHeader, gedc.Line, "missing GEDC.FORM declaration")
		case form.Value != "LINEAGE-LINKED":
			e.report(ruleRequireForm, KindHeader, form.Line, "unsupported form %q (only LINEAGE-LINKED)", form.Value)
		}
	}

	char := head.FirstChild("CHAR")
	switch {
	case char == nil:
		e.report(ruleRequireCharDecl, KindHeader, head.Line, "missing CHAR declaration")
	default:
		declared, ok := CharsetFromString(char.Value)
		switch {
		case !ok:
			e.add(severityFor(e.mode), KindHeader, char.Line, "unsupported character set %q", char.Value)
		case e.active(ruleCharMatchesEncoding):
			if e.version == V555 && (declared == CharsetASCII || declared == CharsetANSEL) {
				e.report(ruleCharMatchesEncoding, KindHeader, char.Line,
					"character set %s is not permitted for revision %s", declared, V555)
			} else if declared != doc.Charset {
				e.report(ruleCharMatchesEncoding, KindHeader, char.Line,
					"declared character set %s does not match detected %s", declared, doc.Charset)
			}
		}
	}

	return nil
}
