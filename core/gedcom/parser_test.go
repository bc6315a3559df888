package gedcom

import (
	"errors"
	"strings"
	"testing"
)

const bom = "\uFEFF"

// strictInput wraps body in a conforming 5.5.5 header and trailer. The
// header occupies lines 1-5; body lines start at 6.
func strictInput(body string) []byte {
	return []byte(bom +
		"0 HEAD\n" +
		"1 GEDC\n" +
		"2 VERS 5.5.5\n" +
		"2 FORM LINEAGE-LINKED\n" +
		"1 CHAR UTF-8\n" +
		body +
		"0 TRLR\n")
}

func mustParse(t *testing.T, data []byte, mode Mode) *Document {
	t.Helper()
	doc, err := Parse(data, mode)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

func TestParseValidStrict(t *testing.T) {
	doc := mustParse(t, strictInput("0 @I1@ INDI\n1 NAME John /Smith/\n"), Strict)

	if !doc.Valid() {
		t.Fatalf("Valid() = false, diagnostics: %v", doc.Diagnostics)
	}
	if len(doc.Diagnostics) != 0 {
		t.Errorf("got %d diagnostics, want 0: %v", len(doc.Diagnostics), doc.Diagnostics)
	}
	if doc.Version != V555 {
		t.Errorf("Version = %v, want %v", doc.Version, V555)
	}
	if doc.Charset != CharsetUTF8 {
		t.Errorf("Charset = %v, want %v", doc.Charset, CharsetUTF8)
	}
	if !doc.HasBOM {
		t.Error("HasBOM = false, want true")
	}
	if len(doc.SourceHash) != 64 {
		t.Errorf("SourceHash length = %d, want 64", len(doc.SourceHash))
	}

	indi := doc.Lookup("@I1@")
	if indi == nil {
		t.Fatal("Lookup(@I1@) = nil")
	}
	name := indi.FirstChild("NAME")
	if name == nil || name.Value != "John /Smith/" {
		t.Errorf("NAME = %v, want John /Smith/", name)
	}
}

func TestParseTreeInvariants(t *testing.T) {
	doc := mustParse(t, strictInput(
		"0 @I1@ INDI\n"+
			"1 NAME John /Smith/\n"+
			"1 BIRT\n"+
			"2 DATE 12 JAN 1900\n"+
			"2 PLAC Springfield\n"+
			"1 DEAT\n"+
			"2 DATE 1980\n"), Strict)

	var walk func(t *testing.T, r *Record)
	walk = func(t *testing.T, r *Record) {
		for _, c := range r.Children {
			if c.Parent != r {
				t.Errorf("record %v: child %v has wrong parent", r, c)
			}
			if c.Level != r.Level+1 {
				t.Errorf("record %v: child %v level = %d, want %d", r, c, c.Level, r.Level+1)
			}
			walk(t, c)
		}
	}
	for _, r := range doc.Records {
		if r.Level != 0 {
			t.Errorf("top-level record %v has level %d", r, r.Level)
		}
		if r.Parent != nil {
			t.Errorf("top-level record %v has a parent", r)
		}
		walk(t, r)
	}

	indi := doc.Lookup("I1")
	if got := len(indi.ChildrenWithTag("DATE")); got != 0 {
		t.Errorf("DATE attached directly to INDI, want it under BIRT/DEAT")
	}
	birt := indi.FirstChild("BIRT")
	if birt == nil || birt.FirstChild("DATE") == nil || birt.FirstChild("DATE").Value != "12 JAN 1900" {
		t.Errorf("BIRT.DATE not attached correctly: %v", birt)
	}
}

func TestParseContinuations(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"conc appends verbatim", "0 @N1@ NOTE Hello\n1 CONC  World\n", "Hello World"},
		{"cont inserts newline", "0 @N1@ NOTE Line1\n1 CONT Line2\n", "Line1\nLine2"},
		{"mixed chain", "0 @N1@ NOTE ab\n1 CONC cd\n1 CONT ef\n1 CONC gh\n", "abcd\nefgh"},
		{"empty cont", "0 @N1@ NOTE a\n1 CONT \n1 CONT b\n", "a\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, strictInput(tt.body), Strict)
			note := doc.Lookup("@N1@")
			if note == nil {
				t.Fatal("Lookup(@N1@) = nil")
			}
			if note.Value != tt.want {
				t.Errorf("NOTE value = %q, want %q", note.Value, tt.want)
			}
			if len(note.Children) != 0 {
				t.Errorf("continuation lines attached as children: %v", note.Children)
			}
		})
	}
}

func TestParseContinuationUnderChild(t *testing.T) {
	// The continuation extends the most recently opened record, not the
	// top-level one.
	doc := mustParse(t, strictInput(
		"0 @I1@ INDI\n"+
			"1 NOTE first\n"+
			"2 CONC  part\n"), Strict)
	note := doc.Lookup("@I1@").FirstChild("NOTE")
	if note.Value != "first part" {
		t.Errorf("NOTE value = %q, want %q", note.Value, "first part")
	}
}

func TestParseOrphanContinuation(t *testing.T) {
	// With an empty stack there is no record to merge into; the data
	// cannot be kept, so both modes abort.
	data := []byte("1 CONT orphan\n0 HEAD\n1 GEDC\n2 VERS 5.5.1\n2 FORM LINEAGE-LINKED\n1 CHAR ANSEL\n0 TRLR\n")

	t.Run("relaxed rejects", func(t *testing.T) {
		_, err := Parse(data, Relaxed)
		if !errors.Is(err, ErrStructure) {
			t.Fatalf("Parse() error = %v, want ErrStructure", err)
		}
	})

	t.Run("strict rejects", func(t *testing.T) {
		_, err := Parse(append([]byte(bom), data...), Strict)
		if !errors.Is(err, ErrStructure) {
			t.Fatalf("Parse() error = %v, want ErrStructure", err)
		}
	})
}

func TestParseContinuationAtLevelZero(t *testing.T) {
	doc := mustParse(t, strictInput("0 @N1@ NOTE a\n"+"0 CONT b\n"), Strict)
	if doc.Valid() {
		t.Error("CONT at level 0 must produce an error diagnostic")
	}
	if doc.Lookup("@N1@").Value != "a" {
		t.Errorf("level-0 CONT merged into the note: %q", doc.Lookup("@N1@").Value)
	}
}

func TestParseLevelJump(t *testing.T) {
	body := "0 @I1@ INDI\n2 DATE 1900\n"

	t.Run("strict rejects", func(t *testing.T) {
		_, err := Parse(strictInput(body), Strict)
		if !errors.Is(err, ErrStructure) {
			t.Fatalf("Parse() error = %v, want ErrStructure", err)
		}
	})

	t.Run("relaxed recovers as top-level", func(t *testing.T) {
		doc := mustParse(t, strictInput(body), Relaxed)
		if doc.WarningCount() == 0 {
			t.Error("expected a recovery warning")
		}
		var recovered *Record
		for _, r := range doc.Records {
			if r.Tag == "DATE" {
				recovered = r
			}
		}
		if recovered == nil {
			t.Fatal("orphan record not kept as top-level")
		}
		if len(doc.Lookup("@I1@").Children) != 0 {
			t.Error("orphan was attached to INDI")
		}
	})
}

func TestParseDeeperLinesFollowRecovery(t *testing.T) {
	// After recovery the orphan becomes the open ancestor for what follows.
	doc := mustParse(t, strictInput("0 @I1@ INDI\n3 BIRT\n4 DATE 1900\n"), Relaxed)
	var birt *Record
	for _, r := range doc.Records {
		if r.Tag == "BIRT" {
			birt = r
		}
	}
	if birt == nil {
		t.Fatal("recovered BIRT not found at top level")
	}
	if birt.FirstChild("DATE") == nil {
		t.Error("line after recovery did not attach to the recovered record")
	}
}

func TestParseDuplicateXRef(t *testing.T) {
	body := "0 @I1@ INDI\n1 NAME First /One/\n0 @I1@ INDI\n1 NAME Second /Two/\n"

	tests := []struct {
		name    string
		mode    Mode
		wantSev Severity
	}{
		{"strict error", Strict, SeverityError},
		{"relaxed warning", Relaxed, SeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, strictInput(body), tt.mode)

			var diag *Diagnostic
			for i := range doc.Diagnostics {
				if doc.Diagnostics[i].Kind == KindCrossReference {
					diag = &doc.Diagnostics[i]
				}
			}
			if diag == nil {
				t.Fatal("no cross-reference diagnostic for the duplicate id")
			}
			if diag.Severity != tt.wantSev {
				t.Errorf("severity = %v, want %v", diag.Severity, tt.wantSev)
			}

			// First declaration wins the index; both records stay in the tree.
			first := doc.Lookup("@I1@")
			if got := first.FirstChild("NAME").Value; got != "First /One/" {
				t.Errorf("Lookup resolved to %q, want the first declaration", got)
			}
			if got := len(doc.RecordsWithTag("INDI")); got != 2 {
				t.Errorf("tree holds %d INDI records, want 2", got)
			}
		})
	}
}

func TestParseCrossReferences(t *testing.T) {
	doc := mustParse(t, strictInput(
		"0 @I1@ INDI\n"+
			"1 FAMS @F1@\n"+
			"1 FAMC @F9@\n"+
			"0 @F1@ FAM\n"+
			"1 HUSB @I1@\n"), Relaxed)

	indi := doc.Lookup("@I1@")
	fams := indi.FirstChild("FAMS")
	if fams.Target == nil || fams.Target.XRef != "@F1@" {
		t.Errorf("FAMS target = %v, want @F1@", fams.Target)
	}
	husb := doc.Lookup("@F1@").FirstChild("HUSB")
	if husb.Target != indi {
		t.Errorf("HUSB target = %v, want the @I1@ record", husb.Target)
	}

	// The dangling @F9@ reference is reported but the record survives.
	famc := indi.FirstChild("FAMC")
	if famc == nil {
		t.Fatal("record with dangling pointer was removed")
	}
	if famc.Target != nil {
		t.Errorf("dangling pointer resolved to %v", famc.Target)
	}
	found := false
	for _, d := range doc.Diagnostics {
		if d.Kind == KindCrossReference && strings.Contains(d.Message, "@F9@") {
			found = true
			if d.Severity != SeverityWarning {
				t.Errorf("relaxed dangling reference severity = %v, want warning", d.Severity)
			}
		}
	}
	if !found {
		t.Error("no diagnostic for the dangling reference")
	}
}

func TestParseDanglingStrictSeverity(t *testing.T) {
	doc := mustParse(t, strictInput("0 @I1@ INDI\n1 FAMS @F9@\n"), Strict)
	if doc.Valid() {
		t.Error("strict dangling reference must make the document invalid")
	}
}

func TestParseMissingBOMStrict(t *testing.T) {
	_, err := Parse([]byte("0 HEAD\n1 GEDC\n2 VERS 5.5.5\n0 TRLR\n"), Strict)
	if !errors.Is(err, ErrEncoding) {
		t.Fatalf("Parse() error = %v, want ErrEncoding", err)
	}
}

func TestParseVersionStrict(t *testing.T) {
	tests := []struct {
		name string
		vers string
	}{
		{"5.5.1 rejected", "5.5.1"},
		{"7.0 rejected", "7.0"},
		{"4.0 rejected", "4.0"},
		{"unsupported rejected", "5.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := []byte(bom + "0 HEAD\n1 GEDC\n2 VERS " + tt.vers + "\n2 FORM LINEAGE-LINKED\n1 CHAR UTF-8\n0 TRLR\n")
			_, err := Parse(data, Strict)
			if !errors.Is(err, ErrVersion) {
				t.Fatalf("Parse() error = %v, want ErrVersion", err)
			}
		})
	}
}

func TestParseVersionRelaxed(t *testing.T) {
	tests := []struct {
		name string
		vers string
		want Version
	}{
		{"5.5.1", "5.5.1", V551},
		{"4.0", "4.0", V40},
		{"7.0", "7.0", V70},
		{"7.00 normalized", "7.00", V70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := []byte("0 HEAD\n1 GEDC\n2 VERS " + tt.vers + "\n2 FORM LINEAGE-LINKED\n1 CHAR ANSEL\n0 TRLR\n")
			doc := mustParse(t, data, Relaxed)
			if doc.Version != tt.want {
				t.Errorf("Version = %v, want %v", doc.Version, tt.want)
			}
		})
	}
}

func TestParseUnknownVersionRelaxed(t *testing.T) {
	doc := mustParse(t, []byte("0 HEAD\n1 SOUR test\n0 TRLR\n"), Relaxed)
	if doc.Version != V551 {
		t.Errorf("Version = %v, want assumed %v", doc.Version, V551)
	}
	found := false
	for _, d := range doc.Diagnostics {
		if d.Kind == KindVersion && d.Severity == SeverityWarning {
			found = true
		}
	}
	if !found {
		t.Error("no warning for the assumed revision")
	}
}

func TestParseUnknownVersionStrict(t *testing.T) {
	_, err := Parse([]byte(bom+"0 HEAD\n1 SOUR test\n0 TRLR\n"), Strict)
	if !errors.Is(err, ErrVersion) {
		t.Fatalf("Parse() error = %v, want ErrVersion", err)
	}
}

func TestParseHeaderContinuationStrict(t *testing.T) {
	data := []byte(bom +
		"0 HEAD\n" +
		"1 GEDC\n" +
		"2 VERS 5.5.5\n" +
		"2 FORM LINEAGE-LINKED\n" +
		"1 CHAR UTF-8\n" +
		"1 NOTE part one\n" +
		"2 CONT part two\n" +
		"0 TRLR\n")
	doc := mustParse(t, data, Strict)

	found := false
	for _, d := range doc.Diagnostics {
		if d.Kind == KindHeader && strings.Contains(d.Message, "continuation") {
			found = true
		}
	}
	if !found {
		t.Error("no diagnostic for the header continuation")
	}
	// The value is still merged; the finding is observational.
	if got := doc.Header().FirstChild("NOTE").Value; got != "part one\npart two" {
		t.Errorf("NOTE value = %q", got)
	}
}

func TestParseEmptyLines(t *testing.T) {
	data := []byte("0 HEAD\n1 GEDC\n2 VERS 5.5.1\n2 FORM LINEAGE-LINKED\n1 CHAR ANSEL\n\n   \n0 TRLR\n")

	doc := mustParse(t, data, Relaxed)
	if got := doc.WarningCount(); got != 2 {
		t.Errorf("WarningCount() = %d, want 2 (one per empty line)", got)
	}
	if doc.ErrorCount() != 0 {
		t.Errorf("relaxed empty lines must be warnings: %v", doc.Diagnostics)
	}

	strict := mustParse(t, append([]byte(bom), []byte("0 HEAD\n1 GEDC\n2 VERS 5.5.5\n2 FORM LINEAGE-LINKED\n1 CHAR UTF-8\n\n0 TRLR\n")...), Strict)
	if strict.ErrorCount() == 0 {
		t.Error("strict empty line must be an error diagnostic")
	}
	if strict.Header() == nil {
		t.Error("parse did not continue past the empty line")
	}
}

func TestParseWhitespaceRules(t *testing.T) {
	t.Run("leading whitespace stripped", func(t *testing.T) {
		doc := mustParse(t, strictInput("0 @I1@ INDI\n  1 NAME John /Smith/\n"), Relaxed)
		if doc.Lookup("@I1@").FirstChild("NAME") == nil {
			t.Error("indented line was not recovered")
		}
		if doc.WarningCount() == 0 {
			t.Error("no warning for leading whitespace")
		}
	})

	t.Run("trailing whitespace strict only", func(t *testing.T) {
		body := "0 @I1@ INDI \n"
		strict := mustParse(t, strictInput(body), Strict)
		if strict.ErrorCount() == 0 {
			t.Error("strict trailing whitespace must be an error")
		}
		relaxed := mustParse(t, strictInput(body), Relaxed)
		for _, d := range relaxed.Diagnostics {
			if strings.Contains(d.Message, "trailing") {
				t.Errorf("relaxed reported trailing whitespace: %v", d)
			}
		}
	})

	t.Run("leading zero level strict only", func(t *testing.T) {
		body := "0 @I1@ INDI\n01 SEX M\n"
		strict := mustParse(t, strictInput(body), Strict)
		if strict.ErrorCount() == 0 {
			t.Error("strict leading zero level must be an error")
		}
		relaxed := mustParse(t, strictInput(body), Relaxed)
		if relaxed.ErrorCount() != 0 {
			t.Errorf("relaxed leading zero reported as error: %v", relaxed.Diagnostics)
		}
	})
}

func TestParseLineLength(t *testing.T) {
	long := strings.Repeat("x", 300)

	t.Run("5.5.5 strict caps at 255", func(t *testing.T) {
		doc := mustParse(t, strictInput("0 @N1@ NOTE "+long+"\n"), Strict)
		found := false
		for _, d := range doc.Diagnostics {
			if strings.Contains(d.Message, "255") {
				found = true
			}
		}
		if !found {
			t.Error("no diagnostic for the over-long line")
		}
	})

	t.Run("7.0 unlimited", func(t *testing.T) {
		data := []byte("0 HEAD\n1 GEDC\n2 VERS 7.0\n0 @N1@ NOTE " + long + "\n0 TRLR\n")
		doc := mustParse(t, data, Relaxed)
		if len(doc.Diagnostics) != 0 {
			t.Errorf("7.0 long line produced diagnostics: %v", doc.Diagnostics)
		}
	})
}

func TestParseCRLF(t *testing.T) {
	data := []byte(bom + "0 HEAD\r\n1 GEDC\r\n2 VERS 5.5.5\r\n2 FORM LINEAGE-LINKED\r\n1 CHAR UTF-8\r\n0 @I1@ INDI\r\n0 TRLR\r\n")
	doc := mustParse(t, data, Strict)
	if !doc.Valid() {
		t.Errorf("CRLF input rejected: %v", doc.Diagnostics)
	}
	if doc.Lookup("@I1@") == nil {
		t.Error("record not parsed from CRLF input")
	}
}

func TestParseMissingHeader(t *testing.T) {
	doc := mustParse(t, []byte("0 @I1@ INDI\n1 NAME X /Y/\n0 TRLR\n"), Relaxed)
	found := false
	for _, d := range doc.Diagnostics {
		if d.Kind == KindHeader && strings.Contains(d.Message, "HEAD") {
			found = true
		}
	}
	if !found {
		t.Error("no diagnostic for the missing HEAD record")
	}
	if doc.Lookup("@I1@") == nil {
		t.Error("records not parsed without a header")
	}
}

func TestParseMultipleHead(t *testing.T) {
	doc := mustParse(t, []byte("0 HEAD\n1 GEDC\n2 VERS 5.5.1\n2 FORM LINEAGE-LINKED\n1 CHAR ANSEL\n0 HEAD\n0 TRLR\n"), Relaxed)
	found := false
	for _, d := range doc.Diagnostics {
		if d.Kind == KindHeader && strings.Contains(d.Message, "HEAD") {
			found = true
		}
	}
	if !found {
		t.Error("no diagnostic for the duplicate HEAD record")
	}
}

func TestParseMalformedLine(t *testing.T) {
	doc := mustParse(t, strictInput("0 @I1@ INDI\nnot a gedcom line\n1 SEX M\n"), Relaxed)
	if doc.WarningCount() == 0 {
		t.Error("no diagnostic for the malformed line")
	}
	if doc.Lookup("@I1@").FirstChild("SEX") == nil {
		t.Error("parse did not continue past the malformed line")
	}
}

func TestParseDeterminism(t *testing.T) {
	data := strictInput("0 @I1@ INDI\n1 NAME John /Smith/\n1 FAMS @F9@\n\n")
	a := mustParse(t, data, Relaxed)
	b := mustParse(t, data, Relaxed)

	if a.SourceHash != b.SourceHash {
		t.Errorf("SourceHash differs across runs: %s vs %s", a.SourceHash, b.SourceHash)
	}
	if len(a.Diagnostics) != len(b.Diagnostics) {
		t.Fatalf("diagnostic count differs: %d vs %d", len(a.Diagnostics), len(b.Diagnostics))
	}
	for i := range a.Diagnostics {
		if a.Diagnostics[i] != b.Diagnostics[i] {
			t.Errorf("diagnostic %d differs: %v vs %v", i, a.Diagnostics[i], b.Diagnostics[i])
		}
	}
}

func TestParseVersionFromHeader(t *testing.T) {
	data := []byte("0 HEAD\n1 GEDC\n2 VERS 4.0\n0 TRLR\n")
	doc := mustParse(t, data, Relaxed)
	if doc.Version != V40 {
		t.Errorf("Version = %v, want %v", doc.Version, V40)
	}
}

func TestLookupForms(t *testing.T) {
	doc := mustParse(t, strictInput("0 @I1@ INDI\n"), Strict)
	if doc.Lookup("I1") == nil {
		t.Error("Lookup without delimiters failed")
	}
	if doc.Lookup("@I1@") == nil {
		t.Error("Lookup with delimiters failed")
	}
	if doc.Lookup("@I2@") != nil {
		t.Error("Lookup of unknown id returned a record")
	}
	if doc.Lookup("") != nil {
		t.Error("Lookup of empty id returned a record")
	}
}
