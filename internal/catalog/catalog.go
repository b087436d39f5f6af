// internal/catalog/catalog.go

// Package catalog holds the static per-theme card definitions: colors,
// values and special-card copy counts. Themes are resolved once at game
// start; the catalog itself carries no mutable state.
package catalog

import (
	"errors"
	"fmt"

	"github.com/iamnolimit/tg-uno-bot/internal/models"
)

// ErrUnknownTheme is returned when a theme name is not registered.
var ErrUnknownTheme = errors.New("unknown theme")

// Theme describes the full card composition for one rule variant.
// Every color×value pair exists twice (double deck); colorless specials
// carry their own per-game copy counts.
type Theme struct {
	Name   string
	Colors []string
	// Values are the per-color card faces: numerics plus colored specials.
	Values []string
	// Specials maps a colorless value to its copy count.
	Specials map[string]int
}

const copiesPerValue = 2

var themes = map[string]Theme{
	"classic": {
		Name:   "classic",
		Colors: []string{"r", "g", "b", "y"},
		Values: []string{
			"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
			models.ValueSkip, models.ValueReverse, models.ValueDrawTwo,
		},
		Specials: map[string]int{
			models.ValueWild:         4,
			models.ValueWildDrawFour: 4,
		},
	},
	"ocean": {
		Name:   "ocean",
		Colors: []string{"aqua", "coral", "sand", "kelp"},
		Values: []string{
			"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
			models.ValueSkip, models.ValueReverse, models.ValueDrawTwo,
		},
		Specials: map[string]int{
			models.ValueWild:         4,
			models.ValueWildDrawFour: 4,
		},
	},
}

// Lookup returns the theme definition for the given name.
func Lookup(name string) (Theme, error) {
	t, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	return t, nil
}

// Names lists the registered theme names.
func Names() []string {
	out := make([]string, 0, len(themes))
	for name := range themes {
		out = append(out, name)
	}
	return out
}

// Cards builds the complete card multiset for the theme, unshuffled.
func (t Theme) Cards() []models.Card {
	cards := make([]models.Card, 0, t.TotalCards())
	for i := 0; i < copiesPerValue; i++ {
		for _, color := range t.Colors {
			for _, value := range t.Values {
				cards = append(cards, models.Card{Color: color, Value: value})
			}
		}
	}
	for value, count := range t.Specials {
		for i := 0; i < count; i++ {
			cards = append(cards, models.Card{Color: models.ColorWild, Value: value})
		}
	}
	return cards
}

// TotalCards returns the number of physical cards one game of this theme owns.
func (t Theme) TotalCards() int {
	n := copiesPerValue * len(t.Colors) * len(t.Values)
	for _, count := range t.Specials {
		n += count
	}
	return n
}

// HasColor reports whether the color is part of the theme's palette.
// Wild is never a choosable color.
func (t Theme) HasColor(color string) bool {
	for _, c := range t.Colors {
		if c == color {
			return true
		}
	}
	return false
}
