// internal/engine/events.go
package engine

import "github.com/iamnolimit/tg-uno-bot/internal/models"

// EventType is an enum-like type for broadcasting game transitions.
type EventType string

const (
	EventGameStarted     EventType = "game_started"
	EventCardPlayed      EventType = "card_played"
	EventCardDrawn       EventType = "card_drawn"
	EventTurnAdvanced    EventType = "turn_advanced"
	EventDeckReshuffled  EventType = "deck_reshuffled"
	EventHandsSwapped    EventType = "hands_swapped"
	EventBluffResolved   EventType = "bluff_resolved"
	EventOneCardDeclared EventType = "one_card_declared"
	EventCaughtNoDeclare EventType = "caught_no_declare"
	EventPlayerFinished  EventType = "player_finished"
	EventPlayerLeft      EventType = "player_left"
	EventGameWon         EventType = "game_won"
	EventGameClosed      EventType = "game_closed"
)

// Event is emitted once per successful transition. The engine never formats
// user-facing text; the presentation layer renders these fields.
type Event struct {
	Type   EventType `json:"type"`
	ChatID int64     `json:"chat_id"`

	// Player is the actor; Target the other party (swap partner, accused
	// bluffer, called-out player) where one exists.
	Player int64 `json:"player,omitempty"`
	Target int64 `json:"target,omitempty"`

	Card        *models.Card `json:"card,omitempty"`
	ChosenColor string       `json:"chosen_color,omitempty"`

	// Count carries a card quantity: cards drawn, penalty size, or the
	// draw-pile size after a reshuffle.
	Count int `json:"count,omitempty"`

	// Caught reports the outcome of a bluff call.
	Caught bool `json:"caught,omitempty"`

	// HandSize is the actor's hand size after the transition, so the
	// renderer can announce "1 card left" without inspecting hands.
	HandSize int `json:"hand_size,omitempty"`
}

// emit forwards an event to the configured sink, stamping the chat id.
// Assumes the game lock is held.
func (g *Game) emit(ev Event) {
	ev.ChatID = g.ChatID
	if g.EmitFn != nil {
		g.EmitFn(ev)
	}
}
