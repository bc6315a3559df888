// Package gedcom implements the structural parser, encoding detector, and
// multi-version validator for GEDCOM genealogical data files.
//
// Parsing turns a raw byte stream into a Document: an owned forest of
// Records rebuilt from the flat, level-numbered line sequence, with
// continuation lines merged, cross-references resolved into validated
// links, and an ordered list of Diagnostics describing every conformance
// finding. Encoding failures, strict-mode version violations, and
// unrecoverable structural violations are fatal and produce no Document;
// everything else is accumulated and left for the caller to judge via
// Document.Valid.
package gedcom

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/rootsline/gedcom/internal/fileutil"
)

// Parse parses and validates a GEDCOM byte stream under the given mode.
// The returned Document may carry error-severity diagnostics; callers must
// check Document.Valid before trusting the data.
func Parse(data []byte, mode Mode) (*Document, error) {
	dec, err := decodeInput(data, mode)
	if err != nil {
		return nil, err
	}

	lines := splitLines(dec.text)

	version := sniffVersion(lines)
	if version == VersionUnknown && mode == Strict {
		return nil, fmt.Errorf("%w: could not determine format revision", ErrVersion)
	}

	e := newEngine(version, mode)
	if version == VersionUnknown {
		version = V551
		e.setVersion(version)
		e.add(SeverityWarning, KindVersion, 0, "could not determine format revision, assuming %s", V551)
	}

	hash := blake3.Sum256(data)
	doc := &Document{
		Version:    version,
		Charset:    dec.charset,
		HasBOM:     dec.hasBOM,
		SourceHash: hex.EncodeToString(hash[:]),
		Mode:       mode,
		index:      make(map[string]*Record),
	}

	b := &builder{doc: doc, e: e}
	if err := b.run(lines); err != nil {
		return nil, err
	}
	if err := e.checkHeader(doc, b.headCount); err != nil {
		return nil, err
	}
	resolve(doc, e)

	doc.Diagnostics = e.diags
	return doc, nil
}

// ParseFile reads and parses the GEDCOM file at path. Inputs compressed
// with xz or gzip are decompressed transparently.
func ParseFile(path string, mode Mode) (*Document, error) {
	data, err := fileutil.ReadInput(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, mode)
}

// splitLines splits decoded text into logical lines, dropping the empty
// slot a trailing line terminator produces.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// sniffVersion scans the leading lines for the GEDC.VERS declaration so
// version-dependent rules apply from the first line. The header's own
// declaration is re-validated after the build and wins on disagreement.
func sniffVersion(lines []string) Version {
	limit := len(lines)
	if limit > 200 {
		limit = 200
	}
	inGedc := false
	for _, raw := range lines[:limit] {
		m := linePattern.FindStringSubmatch(strings.TrimSpace(strings.TrimSuffix(raw, "\r")))
		if m == nil {
			continue
		}
		level, tag, value := m[1], m[3], m[4]
		if level == "0" && tag != "HEAD" {
			// Past the header section.
			return VersionUnknown
		}
		switch {
		case level == "1" && tag == "GEDC":
			inGedc = true
		case level == "1":
			inGedc = false
		case inGedc && level == "2" && tag == "VERS" && value != "":
			return VersionFromString(value)
		}
	}
	return VersionUnknown
}

// builder reconstructs the implicit tree from the token stream using the
// level numbers as a stack discipline.
type builder struct {
	doc       *Document
	e         *engine
	stack     []*Record
	headCount int
}

func (b *builder) run(lines []string) error {
	for i, raw := range lines {
		n := i + 1
		line, skip := b.e.checkLine(n, raw)
		if skip {
			continue
		}
		tok, err := scanLine(n, line)
		if err != nil {
			b.e.add(severityFor(b.e.mode), KindStructure, n, "invalid line syntax: %q", line)
			continue
		}
		b.e.checkToken(tok)
		if tok.isContinuation() {
			if err := b.continuation(tok); err != nil {
				return err
			}
			continue
		}
		if err := b.record(tok); err != nil {
			return err
		}
	}
	return nil
}

// continuation merges a CONC or CONT line into the value of the record on
// top of the stack. Continuation lines are never pushed as structural
// children.
func (b *builder) continuation(tok *lineToken) error {
	if tok.xref != "" {
		b.e.add(severityFor(b.e.mode), KindStructure, tok.line,
			"%s line must not declare a cross-reference id", tok.tag)
	}
	if tok.level == 0 {
		b.e.add(severityFor(b.e.mode), KindStructure, tok.line, "%s is illegal at level 0", tok.tag)
		return nil
	}
	if len(b.stack) == 0 {
		// No open record to merge into; fatal in both modes.
		return fmt.Errorf("%w: %s at line %d without a parent record", ErrStructure, tok.tag, tok.line)
	}

	parent := b.stack[len(b.stack)-1]
	if b.e.active(ruleNoHeaderContinuation) && topAncestor(parent).Tag == "HEAD" {
		b.e.report(ruleNoHeaderContinuation, KindHeader, tok.line,
			"continuation lines are not allowed in the basic header")
	}
	if tok.tag == "CONT" {
		parent.Value += "\n" + tok.value
	} else {
		parent.Value += tok.value
	}
	return nil
}

// record attaches an ordinary token to the tree. A level-0 token starts a
// new top-level record; deeper tokens attach to the open ancestor one level
// up, found by popping the stack.
func (b *builder) record(tok *lineToken) error {
	rec := &Record{
		Level: tok.level,
		XRef:  tok.xref,
		Tag:   tok.tag,
		Value: tok.value,
		Line:  tok.line,
	}

	if tok.level == 0 {
		b.doc.Records = append(b.doc.Records, rec)
		b.stack = append(b.stack[:0], rec)
		if rec.Tag == "HEAD" {
			b.headCount++
		}
		if rec.XRef != "" {
			b.register(rec)
		}
		return nil
	}

	if tok.xref != "" {
		b.e.add(severityFor(b.e.mode), KindStructure, tok.line,
			"cross-reference id declared below level 0")
	}

	for len(b.stack) > 0 && b.stack[len(b.stack)-1].Level >= tok.level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	if len(b.stack) == 0 || b.stack[len(b.stack)-1].Level != tok.level-1 {
		if b.e.mode == Strict {
			return fmt.Errorf("%w: no parent for level %d record at line %d", ErrStructure, tok.level, tok.line)
		}
		// Recover by treating the orphan as a synthetic top-level record.
		// Subsequent deeper lines attach relative to its new position.
		b.e.add(SeverityWarning, KindStructure, tok.line,
			"level %d record has no open parent; recovered as top-level", tok.level)
		b.doc.Records = append(b.doc.Records, rec)
		b.stack = append(b.stack[:0], rec)
		return nil
	}

	b.stack[len(b.stack)-1].addChild(rec)
	b.stack = append(b.stack, rec)
	return nil
}

// register indexes a top-level cross-reference id. On a duplicate the first
// declaration wins the mapping; the later record stays in the tree.
func (b *builder) register(rec *Record) {
	if _, ok := b.doc.index[rec.XRef]; ok {
		sev := SeverityError
		if b.e.mode == Relaxed {
			sev = SeverityWarning
		}
		b.e.add(sev, KindCrossReference, rec.Line,
			"duplicate cross-reference id %s; first declaration wins", rec.XRef)
		return
	}
	b.doc.index[rec.XRef] = rec
}

func topAncestor(r *Record) *Record {
	for r.Parent != nil {
		r = r.Parent
	}
	return r
}
