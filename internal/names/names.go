// Package names holds the name pools shared by the anonymizer and the
// synthetic file generator.
package names

import "math/rand"

// GivenMale are male given names drawn for replacements and test data.
var GivenMale = []string{
	"James", "Robert", "John", "Michael", "David", "William", "Richard",
	"Joseph", "Thomas", "Charles", "Henry", "George", "Edward", "Frank",
	"Walter", "Arthur", "Albert", "Samuel", "Harold", "Louis", "Ernest",
	"Carl", "Peter", "Oscar", "Theodore", "Hugh", "Leon", "Martin",
}

// GivenFemale are female given names drawn for replacements and test data.
var GivenFemale = []string{
	"Mary", "Anna", "Emma", "Elizabeth", "Margaret", "Minnie", "Ida",
	"Alice", "Bertha", "Sarah", "Clara", "Ella", "Florence", "Cora",
	"Martha", "Laura", "Nellie", "Grace", "Carrie", "Maude", "Mabel",
	"Bessie", "Jennie", "Gertrude", "Julia", "Hattie", "Edith", "Mattie",
}

// Surnames are family names drawn for replacements and test data.
var Surnames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
	"Davis", "Wilson", "Anderson", "Taylor", "Thomas", "Moore", "Jackson",
	"Martin", "Lee", "Thompson", "White", "Harris", "Clark", "Lewis",
	"Walker", "Hall", "Young", "King", "Wright", "Hill", "Green",
}

// Cities, States and Countries compose place values.
var (
	Cities = []string{
		"Springfield", "Riverton", "Fairview", "Georgetown", "Clinton",
		"Salem", "Madison", "Franklin", "Arlington", "Ashland", "Dover",
		"Oxford", "Milton", "Newport", "Clayton", "Lebanon", "Dayton",
	}
	States = []string{
		"Ohio", "Virginia", "Kentucky", "Vermont", "Maine", "Kansas",
		"Oregon", "Georgia", "Indiana", "Iowa", "Nebraska", "Montana",
	}
	Countries = []string{
		"USA", "England", "Ireland", "Scotland", "Germany", "France",
		"Norway", "Sweden", "Canada", "Wales",
	}
	Streets = []string{
		"Oak", "Maple", "Elm", "Cedar", "Pine", "Walnut", "Chestnut",
		"Willow", "Birch", "Spruce",
	}
)

// Pick returns one element of list chosen by rng.
func Pick(rng *rand.Rand, list []string) string {
	return list[rng.Intn(len(list))]
}
