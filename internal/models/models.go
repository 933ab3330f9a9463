package models

import "strings"

// Brand is the business identity shown across the page.
type Brand struct {
	Name    string `mapstructure:"name"`
	Tagline string `mapstructure:"tagline"`
	Primary string `mapstructure:"primary"`
	Dark    string `mapstructure:"dark"`
	Light   string `mapstructure:"light"`
	Phone   string `mapstructure:"phone"`
	Email   string `mapstructure:"email"`
	Address string `mapstructure:"address"`
	LogoURL string `mapstructure:"logo"`
}

// Initials is the text used on the fallback logo badge.
func (b Brand) Initials() string {
	var sb strings.Builder
	for _, word := range strings.Fields(b.Name) {
		r := []rune(word)
		if len(r) > 0 && r[0] >= 'A' && r[0] <= 'Z' {
			sb.WriteRune(r[0])
		}
	}
	return sb.String()
}

// NavItem is a navigation entry. ID doubles as the section anchor.
type NavItem struct {
	ID    string `mapstructure:"id"`
	Label string `mapstructure:"label"`
}

// Review is a published customer review from the seed list.
type Review struct {
	Name     string `yaml:"name"`
	Location string `yaml:"location"`
	Text     string `yaml:"text"`
	Rating   int    `yaml:"rating"`
	Date     string `yaml:"date,omitempty"`
}

// Stars returns the number of stars to draw, clamped to 0..5.
func (r Review) Stars() int {
	return min(5, max(0, r.Rating))
}

// Service is one card in the services grid.
type Service struct {
	Title string
	Icon  string
	Body  string
}

// PricePackage is one pricing option, shown as a card or a table row.
type PricePackage struct {
	Title     string
	Price     string
	Features  []string
	Highlight bool
	// Summary is the one-line description used in the table view.
	Summary string
}

// Rate is a row of the day-rate quick view under the pricing note.
type Rate struct {
	Day   string
	Price string
	Notes string
}

// Field is a single multipart form field.
type Field struct {
	Name  string
	Value string
}
