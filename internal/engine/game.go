// internal/engine/game.go

// Package engine implements the UNO-family game core: deck handling, turn
// progression, card-effect resolution and the rule-toggle matrix. One Game
// per chat; every mutating call serializes on Game.Mu. The engine emits
// structured events through EmitFn and never touches transport or storage.
package engine

import (
	"sync"

	"github.com/google/uuid"

	"github.com/iamnolimit/tg-uno-bot/internal/catalog"
	"github.com/iamnolimit/tg-uno-bot/internal/models"
)

const (
	// StartingHandSize is dealt to every player at game start.
	StartingHandSize = 7
	// BluffPenaltySurcharge is added to the pending penalty when a bluff
	// accusation turns out to be wrong.
	BluffPenaltySurcharge = 2
	// OneCardPenalty is drawn by a player caught with one undeclared card.
	OneCardPenalty = 2
)

// PlayOptions carries the optional parameters of a play: the color choice
// for wild cards and the swap partner for the seven rule.
type PlayOptions struct {
	ChosenColor string
	SwapWith    int64
}

// Game holds the entire state of one session in memory. The chat id is the
// session identity; ID tags this particular instance for logs and events.
type Game struct {
	ID     uuid.UUID
	ChatID int64
	Rules  models.RuleSet

	Players []*models.Player
	Deck    *Deck

	// Turn state.
	TopCard            models.Card
	ChosenColor        string
	CurrentPlayerIndex int
	Direction          int
	PendingDraw        int
	Drawed             bool

	Started  bool
	Closed   bool
	Winner   bool
	WinnerID int64

	// pendingUnit is the draw amount of the card that last raised the
	// penalty; a stacking response must be equal or greater.
	pendingUnit int

	// Bluff window, open between a wild-draw-four play and the next action
	// of the player owing the penalty.
	bluffPending  bool
	bluffPlayerID int64
	bluffCaught   bool

	Mu sync.Mutex

	// EmitFn receives one event per successful transition. If nil, events
	// are dropped.
	EmitFn func(Event)
}

// NewGame creates a session in the lobby state. The theme is validated here
// so a misconfigured chat fails before any player joins.
func NewGame(chatID int64, settings models.ChatSettings) (*Game, error) {
	if _, err := catalog.Lookup(settings.Theme); err != nil {
		return nil, err
	}
	return &Game{
		ID:        uuid.New(),
		ChatID:    chatID,
		Rules:     models.RuleSetFromSettings(settings),
		Direction: 1,
	}, nil
}

// AddPlayer seats a player while the game is in the lobby.
func (g *Game) AddPlayer(playerID int64) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Closed {
		return ErrGameClosed
	}
	if g.Started {
		return ErrGameAlreadyStarted
	}
	if g.playerByID(playerID) != nil {
		return ErrAlreadyJoined
	}
	g.Players = append(g.Players, &models.Player{ID: playerID})
	return nil
}

// RemovePlayer takes a player out of the game. In the lobby the seat is
// dropped; mid-game the hand is discarded to the graveyard and the seat is
// marked finished so rotation skips it. If one active player remains the
// game closes in their favor.
func (g *Game) RemovePlayer(playerID int64) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Closed {
		return ErrGameClosed
	}
	p := g.playerByID(playerID)
	if p == nil {
		return ErrNotInGame
	}

	if !g.Started {
		for i, pl := range g.Players {
			if pl.ID == playerID {
				g.Players = append(g.Players[:i], g.Players[i+1:]...)
				break
			}
		}
		return nil
	}

	wasCurrent := g.Players[g.CurrentPlayerIndex].ID == playerID
	for _, c := range p.Hand {
		g.Deck.Discard(c)
	}
	p.Hand = nil
	p.Finished = true
	if g.bluffPending && g.bluffPlayerID == playerID {
		g.bluffPending = false
	}
	g.emit(Event{Type: EventPlayerLeft, Player: playerID})

	if g.activeCount() <= 1 {
		winnerID := g.WinnerID
		if winnerID == 0 {
			for _, pl := range g.Players {
				if !pl.Finished {
					winnerID = pl.ID
					break
				}
			}
		}
		g.close(true, winnerID)
		return nil
	}
	if wasCurrent {
		g.advanceTurn(0)
	}
	return nil
}

// Start moves the session from lobby to in-progress: builds and shuffles
// the deck, deals the starting hands and flips the initial top card,
// re-flipping while it is a wild-draw-four.
func (g *Game) Start() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Closed {
		return ErrGameClosed
	}
	if g.Started {
		return ErrGameAlreadyStarted
	}
	if len(g.Players) < 2 {
		return ErrNotEnoughPlayers
	}

	deck, err := NewDeck(g.Rules.Theme)
	if err != nil {
		return err
	}
	deck.OnReshuffle = func(size int) {
		g.emit(Event{Type: EventDeckReshuffled, Count: size})
	}
	deck.Shuffle()
	g.Deck = deck

	for _, p := range g.Players {
		p.Hand = deck.Draw(StartingHandSize)
	}
	for {
		flip := deck.Draw(1)
		if len(flip) == 0 {
			return ErrNotEnoughCards
		}
		g.TopCard = flip[0]
		if g.TopCard.Value != models.ValueWildDrawFour {
			break
		}
		deck.Discard(g.TopCard)
	}

	g.Started = true
	g.CurrentPlayerIndex = 0
	g.Direction = 1
	top := g.TopCard
	g.emit(Event{Type: EventGameStarted, Card: &top})
	g.emit(Event{Type: EventTurnAdvanced, Player: g.Players[0].ID})
	return nil
}

// PlayCard resolves the active player laying a card. All validation happens
// before any mutation; a returned error means the state is untouched.
func (g *Game) PlayCard(playerID int64, card models.Card, opts PlayOptions) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.ensureActive(playerID); err != nil {
		return err
	}
	p := g.Players[g.CurrentPlayerIndex]
	if !p.Holds(card) {
		return models.ErrCardNotInHand
	}

	if g.PendingDraw > 0 {
		if !g.Rules.Stack {
			return ErrMustDrawPenalty
		}
		if card.DrawAmount() == 0 {
			return ErrMustDrawPenalty
		}
		if card.DrawAmount() < g.pendingUnit {
			return ErrCannotStack
		}
	} else if !card.NeedsColorChoice() && !card.Matches(g.TopCard, g.ChosenColor) {
		return ErrCardMismatch
	}

	if card.NeedsColorChoice() {
		if opts.ChosenColor == "" {
			return ErrMissingColorChoice
		}
		if !g.Deck.Theme().HasColor(opts.ChosenColor) {
			return ErrInvalidColorChoice
		}
	}

	// Swap applies only when the seven is not the player's last card.
	var swapTarget *models.Player
	if g.Rules.Seven && card.Value == "7" && len(p.Hand) > 1 {
		if opts.SwapWith == 0 {
			return ErrMissingSwapTarget
		}
		swapTarget = g.playerByID(opts.SwapWith)
		if swapTarget == nil || swapTarget.ID == p.ID || swapTarget.Finished {
			return ErrInvalidSwapTarget
		}
	}

	// A wild-draw-four is a bluff when the player still holds a card of the
	// color in play. Judged against the hand as it was at play time.
	wildFour := card.Value == models.ValueWildDrawFour
	caught := false
	if wildFour {
		refColor := g.ChosenColor
		if refColor == "" {
			refColor = g.TopCard.Color
		}
		if refColor != models.ColorWild {
			caught = p.HasColorMatch(refColor, "")
		}
	}

	// Validation done; mutate. Any accepted play closes the previous bluff
	// window.
	g.bluffPending = false
	p.RemoveCard(card)
	g.Deck.Discard(g.TopCard)
	g.TopCard = card
	if card.NeedsColorChoice() {
		g.ChosenColor = opts.ChosenColor
	} else {
		g.ChosenColor = ""
	}

	extraAdvance := 0
	switch card.Value {
	case models.ValueSkip:
		extraAdvance = 1
	case models.ValueReverse:
		g.Direction = -g.Direction
		if g.activeCount() == 2 {
			extraAdvance = 1
		}
	case models.ValueDrawTwo, models.ValueWildDrawFour:
		g.PendingDraw += card.DrawAmount()
		g.pendingUnit = card.DrawAmount()
	}
	if wildFour && g.Rules.Bluff {
		g.bluffPending = true
		g.bluffPlayerID = p.ID
		g.bluffCaught = caught
	}

	played := card
	g.emit(Event{
		Type:        EventCardPlayed,
		Player:      p.ID,
		Card:        &played,
		ChosenColor: g.ChosenColor,
		HandSize:    len(p.Hand),
	})

	if swapTarget != nil {
		p.Hand, swapTarget.Hand = swapTarget.Hand, p.Hand
		p.DeclaredOneCard = false
		swapTarget.DeclaredOneCard = false
		g.emit(Event{
			Type:     EventHandsSwapped,
			Player:   p.ID,
			Target:   swapTarget.ID,
			HandSize: len(p.Hand),
		})
	}

	if len(p.Hand) == 0 {
		p.Finished = true
		g.emit(Event{Type: EventPlayerFinished, Player: p.ID})
		if g.WinnerID == 0 {
			g.WinnerID = p.ID
		}
		if g.Rules.OneWin || g.activeCount() <= 1 {
			g.close(true, g.WinnerID)
			return nil
		}
	}

	g.advanceTurn(extraAdvance)
	return nil
}

// DrawCard resolves the active player drawing. A pending penalty is taken in
// full and ends the turn; otherwise the rule set decides between a single
// forced draw and draw-until-playable, after which the player may still play.
func (g *Game) DrawCard(playerID int64) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.ensureActive(playerID); err != nil {
		return err
	}
	p := g.Players[g.CurrentPlayerIndex]

	if g.PendingDraw > 0 {
		cards := g.Deck.Draw(g.PendingDraw)
		p.AddCards(cards)
		g.PendingDraw = 0
		g.pendingUnit = 0
		g.bluffPending = false
		g.emit(Event{Type: EventCardDrawn, Player: p.ID, Count: len(cards), HandSize: len(p.Hand)})
		g.advanceTurn(0)
		return nil
	}

	if g.Drawed {
		return ErrAlreadyDrawn
	}
	g.bluffPending = false

	count := 0
	if g.Rules.DrawOne {
		cards := g.Deck.Draw(1)
		p.AddCards(cards)
		count = len(cards)
	} else {
		for {
			cards := g.Deck.Draw(1)
			if len(cards) == 0 {
				break
			}
			p.AddCards(cards)
			count++
			if cards[0].Matches(g.TopCard, g.ChosenColor) {
				break
			}
		}
	}
	g.Drawed = true
	g.emit(Event{Type: EventCardDrawn, Player: p.ID, Count: count, HandSize: len(p.Hand)})
	return nil
}

// Pass ends the active player's turn after they have drawn.
func (g *Game) Pass(playerID int64) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.ensureActive(playerID); err != nil {
		return err
	}
	if g.PendingDraw > 0 {
		return ErrMustDrawPenalty
	}
	if !g.Drawed {
		return ErrHaveNotDrawn
	}
	g.advanceTurn(0)
	return nil
}

// CallBluff lets the player owing a wild-draw-four penalty challenge the
// play. A correct call moves the whole penalty onto the accused and the
// caller keeps their turn; a wrong call costs the caller the penalty plus
// the surcharge and the turn. The accused hand is never revealed.
func (g *Game) CallBluff(playerID int64) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.ensureActive(playerID); err != nil {
		return err
	}
	if !g.Rules.Bluff {
		return ErrBluffDisabled
	}
	if !g.bluffPending || g.PendingDraw == 0 {
		return ErrNoBluffWindow
	}
	accused := g.playerByID(g.bluffPlayerID)
	if accused == nil || accused.Finished {
		return ErrNoBluffWindow
	}

	g.bluffPending = false
	accuser := g.Players[g.CurrentPlayerIndex]

	if g.bluffCaught {
		cards := g.Deck.Draw(g.PendingDraw)
		accused.AddCards(cards)
		g.PendingDraw = 0
		g.pendingUnit = 0
		g.emit(Event{
			Type:     EventBluffResolved,
			Player:   accuser.ID,
			Target:   accused.ID,
			Caught:   true,
			Count:    len(cards),
			HandSize: len(accused.Hand),
		})
		// The caller plays their turn normally now.
		return nil
	}

	cards := g.Deck.Draw(g.PendingDraw + BluffPenaltySurcharge)
	accuser.AddCards(cards)
	g.PendingDraw = 0
	g.pendingUnit = 0
	g.emit(Event{
		Type:     EventBluffResolved,
		Player:   accuser.ID,
		Target:   accused.ID,
		Caught:   false,
		Count:    len(cards),
		HandSize: len(accuser.Hand),
	})
	g.advanceTurn(0)
	return nil
}

// DeclareOneCard records the player's "one card" call. Any seated player may
// declare for themselves at any point while they hold exactly one card.
func (g *Game) DeclareOneCard(playerID int64) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Closed {
		return ErrGameClosed
	}
	if !g.Started {
		return ErrGameNotStarted
	}
	if !g.Rules.OneCard {
		return ErrOneCardDisabled
	}
	p := g.playerByID(playerID)
	if p == nil {
		return ErrNotInGame
	}
	if len(p.Hand) != 1 {
		return ErrNotOneCard
	}
	if p.DeclaredOneCard {
		return nil
	}
	p.DeclaredOneCard = true
	g.emit(Event{Type: EventOneCardDeclared, Player: playerID, HandSize: 1})
	return nil
}

// CallOutOneCard challenges a player suspected of sitting on one undeclared
// card. A valid catch makes the target draw the penalty; otherwise the
// challenge is rejected without side effects.
func (g *Game) CallOutOneCard(accuserID, targetID int64) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Closed {
		return ErrGameClosed
	}
	if !g.Started {
		return ErrGameNotStarted
	}
	if !g.Rules.OneCard {
		return ErrOneCardDisabled
	}
	if g.playerByID(accuserID) == nil {
		return ErrNotInGame
	}
	target := g.playerByID(targetID)
	if target == nil {
		return ErrNotInGame
	}
	if target.Finished || len(target.Hand) != 1 || target.DeclaredOneCard {
		return ErrNoViolation
	}

	cards := g.Deck.Draw(OneCardPenalty)
	target.AddCards(cards)
	g.emit(Event{
		Type:     EventCaughtNoDeclare,
		Player:   accuserID,
		Target:   targetID,
		Count:    len(cards),
		HandSize: len(target.Hand),
	})
	return nil
}

// Close cancels the session administratively. Winner stays false.
func (g *Game) Close() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Closed {
		return ErrGameClosed
	}
	g.close(false, 0)
	return nil
}

// close marks the terminal state and emits the final event. Lock held.
func (g *Game) close(winner bool, winnerID int64) {
	g.Closed = true
	g.Winner = winner
	g.PendingDraw = 0
	g.pendingUnit = 0
	g.bluffPending = false
	if winner {
		g.WinnerID = winnerID
		g.emit(Event{Type: EventGameWon, Player: winnerID})
		return
	}
	g.emit(Event{Type: EventGameClosed})
}

// advanceTurn moves to the next unfinished player, applying extra steps for
// skip effects, and resets the per-turn drawn flag. Lock held.
func (g *Game) advanceTurn(extra int) {
	if g.Closed {
		return
	}
	for i := 0; i < 1+extra; i++ {
		g.CurrentPlayerIndex = g.nextActiveIndex(g.CurrentPlayerIndex)
	}
	g.Drawed = false
	g.emit(Event{Type: EventTurnAdvanced, Player: g.Players[g.CurrentPlayerIndex].ID})
}

// nextActiveIndex steps once in the play direction, skipping finished seats.
// Lock held.
func (g *Game) nextActiveIndex(from int) int {
	n := len(g.Players)
	idx := from
	for i := 0; i < n; i++ {
		idx = (idx + g.Direction + n) % n
		if !g.Players[idx].Finished {
			return idx
		}
	}
	return from
}

// ensureActive validates that the game is running and playerID is the
// active player. Lock held.
func (g *Game) ensureActive(playerID int64) error {
	if g.Closed {
		return ErrGameClosed
	}
	if !g.Started {
		return ErrGameNotStarted
	}
	if g.playerByID(playerID) == nil {
		return ErrNotInGame
	}
	if g.Players[g.CurrentPlayerIndex].ID != playerID {
		return ErrNotYourTurn
	}
	return nil
}

// playerByID returns the seat for the id, or nil. Lock held.
func (g *Game) playerByID(id int64) *models.Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// activeCount returns the number of seats still holding cards. Lock held.
func (g *Game) activeCount() int {
	n := 0
	for _, p := range g.Players {
		if !p.Finished {
			n++
		}
	}
	return n
}

// CurrentPlayerID returns the active player's id, or 0 before start.
func (g *Game) CurrentPlayerID() int64 {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if !g.Started || len(g.Players) == 0 {
		return 0
	}
	return g.Players[g.CurrentPlayerIndex].ID
}

// CardCount sums every card the session owns: draw pile, graveyard, hands
// and the showing top card. Exposed for the conservation invariant.
func (g *Game) CardCount() int {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Deck == nil {
		return 0
	}
	n := g.Deck.DrawPileSize() + g.Deck.GraveyardSize() + 1
	for _, p := range g.Players {
		n += len(p.Hand)
	}
	return n
}
