// internal/engine/snapshot.go
package engine

import (
	"github.com/google/uuid"

	"github.com/iamnolimit/tg-uno-bot/internal/catalog"
	"github.com/iamnolimit/tg-uno-bot/internal/models"
)

// Snapshot is the serializable projection of a full session: deck state,
// hands, rule set and turn state. The repository treats it as opaque; the
// encoding on the wire is the repository's concern.
type Snapshot struct {
	GameID uuid.UUID       `json:"game_id"`
	ChatID int64           `json:"chat_id"`
	Rules  models.RuleSet  `json:"rules"`
	Seats  []models.Player `json:"seats"`

	DrawPile  []models.Card `json:"draw_pile"`
	Graveyard []models.Card `json:"graveyard"`
	TopCard   models.Card   `json:"top_card"`

	ChosenColor        string `json:"chosen_color,omitempty"`
	CurrentPlayerIndex int    `json:"current_player_index"`
	Direction          int    `json:"direction"`
	PendingDraw        int    `json:"pending_draw"`
	PendingUnit        int    `json:"pending_unit"`
	Drawed             bool   `json:"drawed"`

	BluffPending  bool  `json:"bluff_pending"`
	BluffPlayerID int64 `json:"bluff_player_id,omitempty"`
	BluffCaught   bool  `json:"bluff_caught"`

	Started  bool  `json:"started"`
	Closed   bool  `json:"closed"`
	Winner   bool  `json:"winner"`
	WinnerID int64 `json:"winner_id,omitempty"`
}

// Snapshot captures the session state under the game lock. The copy shares
// nothing with the live game, so it can be persisted after the lock is
// released.
func (g *Game) Snapshot() Snapshot {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	snap := Snapshot{
		GameID:             g.ID,
		ChatID:             g.ChatID,
		Rules:              g.Rules,
		TopCard:            g.TopCard,
		ChosenColor:        g.ChosenColor,
		CurrentPlayerIndex: g.CurrentPlayerIndex,
		Direction:          g.Direction,
		PendingDraw:        g.PendingDraw,
		PendingUnit:        g.pendingUnit,
		Drawed:             g.Drawed,
		BluffPending:       g.bluffPending,
		BluffPlayerID:      g.bluffPlayerID,
		BluffCaught:        g.bluffCaught,
		Started:            g.Started,
		Closed:             g.Closed,
		Winner:             g.Winner,
		WinnerID:           g.WinnerID,
	}
	for _, p := range g.Players {
		seat := *p
		seat.Hand = append([]models.Card(nil), p.Hand...)
		snap.Seats = append(snap.Seats, seat)
	}
	if g.Deck != nil {
		snap.DrawPile = append([]models.Card(nil), g.Deck.drawPile...)
		snap.Graveyard = append([]models.Card(nil), g.Deck.graveyard...)
	}
	return snap
}

// Restore rebuilds a live session from a snapshot, re-resolving the theme
// catalog. The event sink must be re-attached by the caller.
func Restore(snap Snapshot) (*Game, error) {
	theme, err := catalog.Lookup(snap.Rules.Theme)
	if err != nil {
		return nil, err
	}

	g := &Game{
		ID:                 snap.GameID,
		ChatID:             snap.ChatID,
		Rules:              snap.Rules,
		TopCard:            snap.TopCard,
		ChosenColor:        snap.ChosenColor,
		CurrentPlayerIndex: snap.CurrentPlayerIndex,
		Direction:          snap.Direction,
		PendingDraw:        snap.PendingDraw,
		pendingUnit:        snap.PendingUnit,
		Drawed:             snap.Drawed,
		bluffPending:       snap.BluffPending,
		bluffPlayerID:      snap.BluffPlayerID,
		bluffCaught:        snap.BluffCaught,
		Started:            snap.Started,
		Closed:             snap.Closed,
		Winner:             snap.Winner,
		WinnerID:           snap.WinnerID,
	}
	if g.Direction == 0 {
		g.Direction = 1
	}
	for i := range snap.Seats {
		seat := snap.Seats[i]
		seat.Hand = append([]models.Card(nil), snap.Seats[i].Hand...)
		g.Players = append(g.Players, &seat)
	}
	if snap.Started {
		deck := newDeckFromPiles(theme,
			append([]models.Card(nil), snap.DrawPile...),
			append([]models.Card(nil), snap.Graveyard...))
		deck.OnReshuffle = func(size int) {
			g.emit(Event{Type: EventDeckReshuffled, Count: size})
		}
		g.Deck = deck
	}
	return g, nil
}
