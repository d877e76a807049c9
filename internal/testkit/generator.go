// Package testkit generates synthetic CSV fixtures with controllable
// defects. Tests dial in duplicate, missing, format, whitespace, and
// outlier rates to produce datasets that exercise specific checks, and a
// fixed seed keeps every run byte-identical.
package testkit

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// MessyConfig configures the messy CSV generator. Rates are probabilities
// per generated row; zero disables that defect entirely.
type MessyConfig struct {
	Rows              int     `json:"rows"`
	DuplicateRate     float64 `json:"duplicate_rate"`
	MissingRate       float64 `json:"missing_rate"`
	BadEmailRate      float64 `json:"bad_email_rate"`
	MixedPhoneFormats bool    `json:"mixed_phone_formats"`
	WhitespaceRate    float64 `json:"whitespace_rate"`
	OutlierRate       float64 `json:"outlier_rate"`
	Seed              int64   `json:"seed"`
}

// DefaultMessyConfig returns a moderately dirty dataset configuration
func DefaultMessyConfig() MessyConfig {
	return MessyConfig{
		Rows:              100,
		DuplicateRate:     0.05,
		MissingRate:       0.10,
		BadEmailRate:      0.10,
		MixedPhoneFormats: true,
		WhitespaceRate:    0.10,
		OutlierRate:       0.02,
		Seed:              42,
	}
}

// MessyGenerator produces CSV text over a fixed seven-column schema:
// id, name, email, phone, signup_date, salary, city.
type MessyGenerator struct {
	config MessyConfig
	rng    *rand.Rand
}

// NewMessyGenerator creates a generator seeded from the config
func NewMessyGenerator(config MessyConfig) *MessyGenerator {
	return &MessyGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Header returns the generated schema's header line
func (g *MessyGenerator) Header() string {
	return "id,name,email,phone,signup_date,salary,city"
}

// CSV generates the full file: header plus config.Rows data rows. Values
// never contain commas, so the output survives naive splitting.
func (g *MessyGenerator) CSV() string {
	var b strings.Builder
	b.WriteString(g.Header())
	b.WriteByte('\n')

	var prev []string
	for i := 0; i < g.config.Rows; i++ {
		row := g.row(i + 1)
		if prev != nil && g.rng.Float64() < g.config.DuplicateRate {
			row = prev
		}
		prev = row
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

var (
	firstNames = []string{
		"James", "Mary", "John", "Patricia", "Robert", "Jennifer",
		"Michael", "Linda", "David", "Elizabeth", "William", "Susan",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones",
		"Garcia", "Miller", "Davis", "Rodriguez", "Martinez",
	}
	cities = []string{
		"Seattle", "Portland", "Austin", "Denver",
		"Chicago", "Boston", "Atlanta", "Phoenix",
	}
	emailDomains  = []string{"example.com", "mail.test", "corp.example.org"}
	badEmails     = []string{"not-an-email", "user@", "@nowhere", "bob.example.com"}
	missingTokens = []string{"", "null", "N/A", "na"}
)

func (g *MessyGenerator) row(id int) []string {
	first := firstNames[g.rng.Intn(len(firstNames))]
	last := lastNames[g.rng.Intn(len(lastNames))]
	name := first + " " + last

	email := strings.ToLower(first) + "." + strings.ToLower(last) + "@" + emailDomains[g.rng.Intn(len(emailDomains))]
	if g.rng.Float64() < g.config.BadEmailRate {
		email = badEmails[g.rng.Intn(len(badEmails))]
	}

	date := fmt.Sprintf("2024-%02d-%02d", 1+g.rng.Intn(12), 1+g.rng.Intn(28))

	salary := 30000 + g.rng.Intn(90001)
	if g.rng.Float64() < g.config.OutlierRate {
		salary *= 80
	}

	city := cities[g.rng.Intn(len(cities))]

	if g.rng.Float64() < g.config.WhitespaceRate {
		name = "  " + name + " "
	}
	if g.rng.Float64() < g.config.MissingRate {
		token := missingTokens[g.rng.Intn(len(missingTokens))]
		switch g.rng.Intn(3) {
		case 0:
			name = token
		case 1:
			email = token
		default:
			city = token
		}
	}

	return []string{
		strconv.Itoa(id),
		name,
		email,
		g.phone(),
		date,
		strconv.Itoa(salary),
		city,
	}
}

// phone renders a number in the dominant dashed format, or in one of four
// formats when mixed formats are enabled
func (g *MessyGenerator) phone() string {
	area := 200 + g.rng.Intn(700)
	mid := 100 + g.rng.Intn(900)
	last := 1000 + g.rng.Intn(9000)

	style := 0
	if g.config.MixedPhoneFormats {
		style = g.rng.Intn(4)
	}
	switch style {
	case 1:
		return fmt.Sprintf("(%d) %d-%d", area, mid, last)
	case 2:
		return fmt.Sprintf("%d.%d.%d", area, mid, last)
	case 3:
		return fmt.Sprintf("%d%d%d", area, mid, last)
	default:
		return fmt.Sprintf("%d-%d-%d", area, mid, last)
	}
}
