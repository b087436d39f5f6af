// internal/models/card.go

// Package models holds the passive data types shared across the bot: cards,
// players, rule sets and chat settings. No game logic lives here beyond
// per-card predicates.
package models

// ColorWild is the color field of colorless cards.
const ColorWild = "x"

// Card face values beyond the numerics "0".."9".
const (
	ValueSkip         = "skip"
	ValueReverse      = "reverse"
	ValueDrawTwo      = "+2"
	ValueWild         = "wild"
	ValueWildDrawFour = "+4"
)

// Card is one physical card: a color from the theme palette (or ColorWild)
// and a face value. Cards are compared by value, so two copies of the same
// face are interchangeable.
type Card struct {
	Color string `json:"color"`
	Value string `json:"value"`
}

// IsWild reports whether the card is colorless.
func (c Card) IsWild() bool {
	return c.Color == ColorWild
}

// DrawAmount returns the penalty a card imposes on the next player, or 0.
func (c Card) DrawAmount() int {
	switch c.Value {
	case ValueDrawTwo:
		return 2
	case ValueWildDrawFour:
		return 4
	}
	return 0
}

// NeedsColorChoice reports whether playing the card requires naming a color.
func (c Card) NeedsColorChoice() bool {
	return c.Value == ValueWild || c.Value == ValueWildDrawFour
}

// Matches reports whether the card may be laid on top. When a wild set the
// color in play, chosen carries it and only that color (or another wild)
// qualifies; otherwise a shared color or face value is enough.
func (c Card) Matches(top Card, chosen string) bool {
	if c.IsWild() {
		return true
	}
	if chosen != "" {
		return c.Color == chosen
	}
	if top.IsWild() {
		return true
	}
	return c.Color == top.Color || c.Value == top.Value
}
