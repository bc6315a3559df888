// Package gen produces synthetic GEDCOM 5.5.5 test files. Output is
// deterministic for a fixed seed and parses cleanly in strict mode.
package gen

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/rootsline/gedcom/internal/fileutil"
	"github.com/rootsline/gedcom/internal/names"
)

// Options configures a generation run.
type Options struct {
	// Individuals is the number of INDI records to produce (minimum 2).
	Individuals int
	// Seed fixes the pseudo-random source.
	Seed int64
}

// person is one synthetic individual before emission.
type person struct {
	id        int
	given     string
	surname   string
	sex       string
	birthYear int
	deathYear int // 0 when still alive
	place     string
}

// family links two spouses and their children by individual id.
type family struct {
	id       int
	husband  int
	wife     int
	children []int
}

// Generator produces synthetic files from a seeded source.
type Generator struct {
	rng *rand.Rand
}

// New returns a Generator seeded with seed.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate builds a complete GEDCOM 5.5.5 byte stream, byte order mark
// included.
func (g *Generator) Generate(opts Options) []byte {
	n := opts.Individuals
	if n < 2 {
		n = 2
	}

	people := g.makePeople(n)
	families := g.makeFamilies(people)

	var b strings.Builder
	b.WriteString("\uFEFF")
	b.WriteString("0 HEAD\n")
	b.WriteString("1 GEDC\n")
	b.WriteString("2 VERS 5.5.5\n")
	b.WriteString("2 FORM LINEAGE-LINKED\n")
	b.WriteString("1 CHAR UTF-8\n")
	b.WriteString("1 SOUR ROOTSLINE\n")

	for _, p := range people {
		fmt.Fprintf(&b, "0 @I%d@ INDI\n", p.id)
		fmt.Fprintf(&b, "1 NAME %s /%s/\n", p.given, p.surname)
		fmt.Fprintf(&b, "2 GIVN %s\n", p.given)
		fmt.Fprintf(&b, "2 SURN %s\n", p.surname)
		fmt.Fprintf(&b, "1 SEX %s\n", p.sex)
		b.WriteString("1 BIRT\n")
		fmt.Fprintf(&b, "2 DATE %s\n", g.date(p.birthYear))
		fmt.Fprintf(&b, "2 PLAC %s\n", p.place)
		if p.deathYear > 0 {
			b.WriteString("1 DEAT\n")
			fmt.Fprintf(&b, "2 DATE %s\n", g.date(p.deathYear))
		}
	}

	for _, f := range families {
		fmt.Fprintf(&b, "0 @F%d@ FAM\n", f.id)
		fmt.Fprintf(&b, "1 HUSB @I%d@\n", f.husband)
		fmt.Fprintf(&b, "1 WIFE @I%d@\n", f.wife)
		for _, c := range f.children {
			fmt.Fprintf(&b, "1 CHIL @I%d@\n", c)
		}
	}

	b.WriteString("0 TRLR\n")
	return []byte(b.String())
}

// WriteFile generates a file and writes it atomically to path.
func (g *Generator) WriteFile(path string, opts Options) error {
	return fileutil.WriteFileAtomic(path, g.Generate(opts), 0o644)
}

func (g *Generator) makePeople(n int) []person {
	people := make([]person, n)
	for i := range people {
		p := person{id: i + 1}
		if g.rng.Intn(2) == 0 {
			p.sex = "M"
			p.given = names.Pick(g.rng, names.GivenMale)
		} else {
			p.sex = "F"
			p.given = names.Pick(g.rng, names.GivenFemale)
		}
		p.surname = names.Pick(g.rng, names.Surnames)
		p.birthYear = 1700 + g.rng.Intn(280)
		if g.rng.Intn(4) > 0 {
			p.deathYear = p.birthYear + 30 + g.rng.Intn(60)
		}
		p.place = fmt.Sprintf("%s, %s, %s",
			names.Pick(g.rng, names.Cities),
			names.Pick(g.rng, names.States),
			names.Pick(g.rng, names.Countries))
		people[i] = p
	}
	return people
}

// makeFamilies pairs the generated people into families. Children take the
// husband's surname so relationships survive anonymization consistency
// checks.
func (g *Generator) makeFamilies(people []person) []family {
	var males, females []int
	for i, p := range people {
		if p.sex == "M" {
			males = append(males, i)
		} else {
			females = append(females, i)
		}
	}

	pairs := len(males)
	if len(females) < pairs {
		pairs = len(females)
	}
	// Keep some individuals unmarried so generated trees vary in shape.
	if pairs > 2 {
		pairs -= g.rng.Intn(pairs / 2)
	}
	var families []family
	used := make(map[int]bool)
	for i := 0; i < pairs; i++ {
		h, w := males[i], females[i]
		f := family{id: i + 1, husband: people[h].id, wife: people[w].id}
		used[h], used[w] = true, true
		for j, p := range people {
			if used[j] || len(f.children) >= 3 {
				continue
			}
			if p.surname == people[h].surname && p.birthYear > people[h].birthYear+18 {
				f.children = append(f.children, p.id)
				used[j] = true
			}
		}
		families = append(families, f)
	}
	return families
}

// date renders a random calendar date within year in GEDCOM form.
func (g *Generator) date(year int) string {
	months := []string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN",
		"JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}
	day := 1 + g.rng.Intn(28)
	return fmt.Sprintf("%d %s %d", day, months[g.rng.Intn(12)], year)
}
