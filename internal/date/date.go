// Package date parses GEDCOM date values into structured form using a
// Participle grammar. Values that do not match the grammar are not an
// error at the browse layer; callers keep the raw text instead.
package date

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Calendar is a single calendar date. Day and Month may be absent.
type Calendar struct {
	Day   *int   `( ( @Number )?`
	Month string `  @Month )?`
	Year  int    `@Number`
}

// Between is a BET ... AND ... range.
type Between struct {
	Start *Calendar `@@ "AND"`
	End   *Calendar `@@`
}

// Period is a FROM ... [TO ...] span.
type Period struct {
	Start *Calendar `@@`
	End   *Calendar `( "TO" @@ )?`
}

// Value is a parsed GEDCOM date value.
type Value struct {
	Between   *Between  `  "BET" @@`
	From      *Period   `| "FROM" @@`
	To        *Calendar `| "TO" @@`
	Qualifier string    `| ( @( "ABT" | "CAL" | "EST" | "BEF" | "AFT" )?`
	Date      *Calendar `    @@ )`
}

// dateLexer tokenizes GEDCOM date values. Order matters: month names must
// be recognized before the approximation keywords.
var dateLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Month", Pattern: `JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC`},
	{Name: "Keyword", Pattern: `ABT|CAL|EST|BEF|AFT|BET|AND|FROM|TO`},
	{Name: "Number", Pattern: `\d+`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

var dateParser = participle.MustBuild[Value](
	participle.Lexer(dateLexer),
	participle.Elide("Whitespace"),
)

// Parse parses a GEDCOM date value. Matching is case-insensitive.
func Parse(s string) (*Value, error) {
	return dateParser.ParseString("", strings.ToUpper(strings.TrimSpace(s)))
}

// Year returns the best single year for display and sorting, or 0 when the
// value carries none.
func (v *Value) Year() int {
	switch {
	case v.Between != nil && v.Between.Start != nil:
		return v.Between.Start.Year
	case v.From != nil && v.From.Start != nil:
		return v.From.Start.Year
	case v.To != nil:
		return v.To.Year
	case v.Date != nil:
		return v.Date.Year
	default:
		return 0
	}
}

var monthNumbers = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

// MonthNumber returns the 1-based month, or 0 when absent.
func (c *Calendar) MonthNumber() int {
	return monthNumbers[c.Month]
}
