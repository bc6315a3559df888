package gedcom

import (
	"fmt"
	"regexp"
	"strconv"
)

// linePattern is the line grammar shared by every supported revision:
// LEVEL SP [XREF SP] TAG [SP VALUE].
var linePattern = regexp.MustCompile(`^(\d+) (?:(@[^@]+@) )?([A-Z0-9_]+)(?: (.*))?$`)

// lineToken is one tokenized GEDCOM line.
type lineToken struct {
	line      int // 1-based source line number
	level     int
	levelText string // level digits as written, for leading-zero checks
	xref      string
	tag       string
	value     string
}

// scanLine tokenizes a single decoded line. It enforces only the
// mode-independent grammar; policy that depends on mode or version (leading
// zeros, length caps, trailing whitespace) is applied by the rule engine.
func scanLine(number int, raw string) (*lineToken, error) {
	m := linePattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, fmt.Errorf("%w: malformed line: %q", ErrStructure, raw)
	}
	level, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("%w: level number out of range", ErrStructure)
	}
	return &lineToken{
		line:      number,
		level:     level,
		levelText: m[1],
		xref:      m[2],
		tag:       m[3],
		value:     m[4],
	}, nil
}

// isContinuation reports whether the token carries one of the two reserved
// continuation tags.
func (t *lineToken) isContinuation() bool {
	return t.tag == "CONC" || t.tag == "CONT"
}
