// internal/models/player.go
package models

import "errors"

// ErrCardNotInHand is returned when removing a card the player does not hold.
var ErrCardNotInHand = errors.New("card not in hand")

// Player is one seat in a game. ID is the stable chat-platform user id.
type Player struct {
	ID   int64  `json:"id"`
	Hand []Card `json:"hand"`

	// DeclaredOneCard is set once the player announced holding a single
	// card; it is cleared whenever the hand size moves away from one.
	DeclaredOneCard bool `json:"declared_one_card"`

	// Finished marks a player who emptied their hand while the game keeps
	// running (last-player-standing mode). Finished players are skipped.
	Finished bool `json:"finished"`
}

// AddCards appends the drawn cards to the hand.
func (p *Player) AddCards(cards []Card) {
	p.Hand = append(p.Hand, cards...)
	if len(p.Hand) != 1 {
		p.DeclaredOneCard = false
	}
}

// RemoveCard removes one copy of the given card from the hand.
func (p *Player) RemoveCard(card Card) error {
	for i, c := range p.Hand {
		if c == card {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			if len(p.Hand) != 1 {
				p.DeclaredOneCard = false
			}
			return nil
		}
	}
	return ErrCardNotInHand
}

// Holds reports whether at least one copy of the card is in the hand.
func (p *Player) Holds(card Card) bool {
	for _, c := range p.Hand {
		if c == card {
			return true
		}
	}
	return false
}

// HasPlayable reports whether any held card could legally be played on top.
func (p *Player) HasPlayable(top Card, chosen string) bool {
	for _, c := range p.Hand {
		if c.Matches(top, chosen) {
			return true
		}
	}
	return false
}

// HasColorMatch reports whether the hand holds a non-wild card matching the
// given color, or matching `value` when value != "". Used to judge whether a
// wild-draw-four play was a bluff.
func (p *Player) HasColorMatch(color, value string) bool {
	for _, c := range p.Hand {
		if c.IsWild() {
			continue
		}
		if c.Color == color {
			return true
		}
		if value != "" && c.Value == value {
			return true
		}
	}
	return false
}
