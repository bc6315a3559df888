package anonymize

import (
	"fmt"
	"strings"

	"github.com/rootsline/gedcom/internal/names"
)

// generate produces a fake value for a category. Draws come from a seeded
// source, so a fixed seed and input order yield identical output.
func (a *Anonymizer) generate(cat, original string) string {
	switch cat {
	case catGiven:
		if a.rng.Intn(2) == 0 {
			return names.Pick(a.rng, names.GivenMale)
		}
		return names.Pick(a.rng, names.GivenFemale)

	case catSurname:
		return names.Pick(a.rng, names.Surnames)

	case catPlace:
		return a.fakePlace(original)

	case catEmail:
		given := strings.ToLower(names.Pick(a.rng, names.GivenMale))
		surname := strings.ToLower(names.Pick(a.rng, names.Surnames))
		return fmt.Sprintf("%s.%s@example.com", given, surname)

	case catPhone:
		return fmt.Sprintf("+1-555-%03d-%04d", a.rng.Intn(1000), a.rng.Intn(10000))

	case catURL:
		return fmt.Sprintf("https://www.%s.example.com", strings.ToLower(names.Pick(a.rng, names.Surnames)))

	case catAddress:
		return fmt.Sprintf("%d %s Street", 1+a.rng.Intn(9999), names.Pick(a.rng, names.Streets))

	default:
		return names.Pick(a.rng, names.Surnames)
	}
}

// fakePlace rebuilds a comma-separated place component by component: the
// first component as a city, the last as a country, anything between as a
// state or province.
func (a *Anonymizer) fakePlace(original string) string {
	parts := strings.Split(original, ",")
	out := make([]string, len(parts))
	for i := range parts {
		switch {
		case i == 0:
			out[i] = names.Pick(a.rng, names.Cities)
		case i == len(parts)-1:
			out[i] = names.Pick(a.rng, names.Countries)
		default:
			out[i] = names.Pick(a.rng, names.States)
		}
	}
	return strings.Join(out, ", ")
}
