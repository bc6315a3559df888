// Package anonymize rewrites personal data in GEDCOM files with
// deterministic fake replacements while preserving file structure. Equal
// originals always map to equal replacements, so family relationships
// encoded through shared names survive the rewrite; with a mapping store
// attached, the consistency extends across runs.
package anonymize

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/rootsline/gedcom/core/gedcom"
	"github.com/rootsline/gedcom/internal/fileutil"
	"github.com/rootsline/gedcom/internal/logging"
)

// Replacement categories. Each keeps its own original-to-fake mapping.
const (
	catGiven   = "given"
	catSurname = "surname"
	catPlace   = "place"
	catEmail   = "email"
	catPhone   = "phone"
	catURL     = "url"
	catAddress = "address"
)

// tagPatterns match the value-bearing lines that carry personal data.
// Group 1 is the untouched line prefix, group 2 the value to replace.
var tagPatterns = []struct {
	re  *regexp.Regexp
	cat string
}{
	{regexp.MustCompile(`^(\d+\s+NAME\s+)(.+)$`), "name"},
	{regexp.MustCompile(`^(\d+\s+GIVN\s+)(.+)$`), catGiven},
	{regexp.MustCompile(`^(\d+\s+SURN\s+)(.+)$`), catSurname},
	{regexp.MustCompile(`^(\d+\s+PLAC\s+)(.+)$`), catPlace},
	{regexp.MustCompile(`^(\d+\s+ADDR\s+)(.+)$`), catAddress},
	{regexp.MustCompile(`^(\d+\s+EMAIL\s+)(.+)$`), catEmail},
	{regexp.MustCompile(`^(\d+\s+PHON\s+)(.+)$`), catPhone},
	{regexp.MustCompile(`^(\d+\s+WWW\s+)(.+)$`), catURL},
}

// namePartsPattern splits a GEDCOM NAME value into given, /surname/, suffix.
var namePartsPattern = regexp.MustCompile(`^(.*?)(?:/([^/]+)/)?(.*)$`)

// Options configures an Anonymizer.
type Options struct {
	// Seed fixes the pseudo-random source for reproducible output.
	Seed int64
	// MappingDB is the path of the SQLite mapping store. Empty keeps
	// mappings in memory for the lifetime of the Anonymizer only.
	MappingDB string
}

// Stats summarizes one anonymization run.
type Stats struct {
	Lines      int
	Replaced   int
	ByCategory map[string]int
}

// Anonymizer rewrites personal data with consistent fake replacements.
type Anonymizer struct {
	rng   *rand.Rand
	store *Store
	maps  map[string]map[string]string
}

// New creates an Anonymizer. When opts.MappingDB names a store, existing
// mappings are loaded so replacements stay consistent with earlier runs.
func New(opts Options) (*Anonymizer, error) {
	a := &Anonymizer{
		rng:  rand.New(rand.NewSource(opts.Seed)),
		maps: make(map[string]map[string]string),
	}
	if opts.MappingDB != "" {
		store, err := OpenStore(opts.MappingDB)
		if err != nil {
			return nil, err
		}
		loaded, err := store.Load()
		if err != nil {
			store.Close()
			return nil, err
		}
		a.store = store
		a.maps = loaded
		if a.maps == nil {
			a.maps = make(map[string]map[string]string)
		}
	}
	return a, nil
}

// Close releases the mapping store, if any.
func (a *Anonymizer) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// AnonymizeFile reads the GEDCOM file at in, rewrites personal data, and
// writes the result to out. The input's encoding is detected the same way
// the parser detects it; output is always UTF-8, with a byte order mark
// when the input carried one.
func (a *Anonymizer) AnonymizeFile(in, out string) (*Stats, error) {
	data, err := fileutil.ReadInput(in)
	if err != nil {
		return nil, err
	}
	text, _, hasBOM, err := gedcom.Decode(data, gedcom.Relaxed)
	if err != nil {
		return nil, err
	}

	rewritten, stats, err := a.anonymizeText(text)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	if hasBOM {
		buf.WriteString("\uFEFF")
	}
	buf.WriteString(rewritten)
	if err := fileutil.WriteFileAtomic(out, []byte(buf.String()), 0o644); err != nil {
		return nil, err
	}

	if a.store != nil {
		runID, err := a.store.RecordRun(in)
		if err != nil {
			return nil, err
		}
		logging.Info("anonymization run recorded", "run_id", runID, "input", in)
	}
	return stats, nil
}

// anonymizeText rewrites personal data line by line, leaving every other
// line byte-identical.
func (a *Anonymizer) anonymizeText(text string) (string, *Stats, error) {
	stats := &Stats{ByCategory: make(map[string]int)}
	lines := strings.Split(text, "\n")
	for i, raw := range lines {
		line := strings.TrimSuffix(raw, "\r")
		stats.Lines++
		for _, tp := range tagPatterns {
			m := tp.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			var repl string
			var err error
			if tp.cat == "name" {
				repl, err = a.replaceName(m[2])
			} else {
				repl, err = a.replacement(tp.cat, m[2])
			}
			if err != nil {
				return "", nil, err
			}
			lines[i] = m[1] + repl
			stats.Replaced++
			stats.ByCategory[tp.cat]++
			break
		}
	}
	return strings.Join(lines, "\n"), stats, nil
}

// replaceName rewrites a NAME value part by part, preserving the
// /Surname/ delimiters and any suffix.
func (a *Anonymizer) replaceName(value string) (string, error) {
	m := namePartsPattern.FindStringSubmatch(value)
	if m == nil {
		return a.replacement(catGiven, value)
	}
	given := strings.TrimSpace(m[1])
	surname := strings.TrimSpace(m[2])
	suffix := strings.TrimSpace(m[3])

	var out strings.Builder
	if given != "" {
		g, err := a.replacement(catGiven, given)
		if err != nil {
			return "", err
		}
		out.WriteString(g)
	}
	if surname != "" {
		s, err := a.replacement(catSurname, surname)
		if err != nil {
			return "", err
		}
		if out.Len() > 0 {
			out.WriteString(" ")
		}
		fmt.Fprintf(&out, "/%s/", s)
	}
	if suffix != "" {
		if out.Len() > 0 {
			out.WriteString(" ")
		}
		out.WriteString(suffix)
	}
	return out.String(), nil
}

// replacement returns the consistent fake value for an original, creating
// and persisting a new one on first sight.
func (a *Anonymizer) replacement(cat, original string) (string, error) {
	original = strings.TrimSpace(original)
	if original == "" {
		return "", nil
	}
	if repl, ok := a.maps[cat][original]; ok {
		return repl, nil
	}

	repl := a.generate(cat, original)
	// A draw can land on the original itself; redraw so the output never
	// leaks the real value.
	for i := 0; repl == original && i < 10; i++ {
		repl = a.generate(cat, original)
	}
	if a.maps[cat] == nil {
		a.maps[cat] = make(map[string]string)
	}
	a.maps[cat][original] = repl
	if a.store != nil {
		if err := a.store.Put(cat, original, repl); err != nil {
			return "", err
		}
	}
	return repl, nil
}
