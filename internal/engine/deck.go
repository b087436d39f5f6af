// internal/engine/deck.go
package engine

import (
	"math/rand/v2"

	"github.com/iamnolimit/tg-uno-bot/internal/catalog"
	"github.com/iamnolimit/tg-uno-bot/internal/models"
)

// Deck owns the draw pile and the graveyard of previously played cards.
// The card currently showing as the discard top is held by the Game, never
// by the Deck, so an exhaustion reshuffle can never recycle it.
type Deck struct {
	theme     catalog.Theme
	drawPile  []models.Card
	graveyard []models.Card

	// OnReshuffle, if set, is invoked after the graveyard is folded back
	// into the draw pile, with the new draw-pile size.
	OnReshuffle func(size int)
}

// NewDeck builds the full, unshuffled card multiset for the theme.
func NewDeck(themeName string) (*Deck, error) {
	theme, err := catalog.Lookup(themeName)
	if err != nil {
		return nil, err
	}
	return &Deck{theme: theme, drawPile: theme.Cards()}, nil
}

// newDeckFromPiles rebuilds a deck from snapshot state.
func newDeckFromPiles(theme catalog.Theme, drawPile, graveyard []models.Card) *Deck {
	return &Deck{theme: theme, drawPile: drawPile, graveyard: graveyard}
}

// Shuffle randomizes the draw pile in place. math/rand/v2's global source is
// ChaCha8 seeded from the OS, giving a uniform, non-reproducible permutation.
func (d *Deck) Shuffle() {
	rand.Shuffle(len(d.drawPile), func(i, j int) {
		d.drawPile[i], d.drawPile[j] = d.drawPile[j], d.drawPile[i]
	})
}

// Draw removes and returns up to amount cards from the front of the draw
// pile, folding the graveyard back in when the pile runs dry. A short (or
// empty) result means no cards are available anywhere; it is not an error.
func (d *Deck) Draw(amount int) []models.Card {
	drawn := make([]models.Card, 0, amount)
	for len(drawn) < amount {
		if len(d.drawPile) == 0 {
			if len(d.graveyard) == 0 {
				break
			}
			d.drawPile = append(d.drawPile, d.graveyard...)
			d.graveyard = d.graveyard[:0]
			d.Shuffle()
			if d.OnReshuffle != nil {
				d.OnReshuffle(len(d.drawPile))
			}
		}
		drawn = append(drawn, d.drawPile[0])
		d.drawPile = d.drawPile[1:]
	}
	return drawn
}

// Discard moves a played card into the graveyard. This is the only path by
// which cards re-enter the deck's custody.
func (d *Deck) Discard(card models.Card) {
	d.graveyard = append(d.graveyard, card)
}

// DrawPileSize returns the number of undrawn cards.
func (d *Deck) DrawPileSize() int { return len(d.drawPile) }

// GraveyardSize returns the number of discarded cards awaiting reshuffle.
func (d *Deck) GraveyardSize() int { return len(d.graveyard) }

// Theme returns the resolved theme this deck was built from.
func (d *Deck) Theme() catalog.Theme { return d.theme }
