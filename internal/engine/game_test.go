// internal/engine/game_test.go
package engine

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamnolimit/tg-uno-bot/internal/catalog"
	"github.com/iamnolimit/tg-uno-bot/internal/models"
)

// eventCollector gathers emitted events instead of sending them anywhere.
type eventCollector struct {
	mu     sync.Mutex
	events []Event
}

func (ec *eventCollector) collect(ev Event) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.events = append(ec.events, ev)
}

func (ec *eventCollector) ofType(t EventType) []Event {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	var out []Event
	for _, ev := range ec.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func (ec *eventCollector) last() *Event {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	if len(ec.events) == 0 {
		return nil
	}
	return &ec.events[len(ec.events)-1]
}

func c(color, value string) models.Card {
	return models.Card{Color: color, Value: value}
}

// filler returns n indistinct draw-pile cards.
func filler(n int) []models.Card {
	cards := make([]models.Card, n)
	for i := range cards {
		cards[i] = c("y", "0")
	}
	return cards
}

type seat struct {
	id   int64
	hand []models.Card
}

// newTestGame builds an in-progress game with fixed hands and a fixed draw
// order, bypassing Start for determinism.
func newTestGame(t *testing.T, rules models.RuleSet, seats []seat, drawPile []models.Card, top models.Card) (*Game, *eventCollector) {
	t.Helper()
	if rules.Theme == "" {
		rules.Theme = "classic"
	}
	theme, err := catalog.Lookup(rules.Theme)
	require.NoError(t, err)

	ec := &eventCollector{}
	g := &Game{
		ID:        uuid.New(),
		ChatID:    99,
		Rules:     rules,
		Direction: 1,
		Started:   true,
		TopCard:   top,
	}
	g.EmitFn = ec.collect
	for _, s := range seats {
		g.Players = append(g.Players, &models.Player{ID: s.id, Hand: s.hand})
	}
	g.Deck = newDeckFromPiles(theme, drawPile, nil)
	g.Deck.OnReshuffle = func(size int) {
		g.emit(Event{Type: EventDeckReshuffled, Count: size})
	}
	return g, ec
}

func TestStartDealsHandsAndFlips(t *testing.T) {
	settings := models.DefaultChatSettings(42)
	g, err := NewGame(42, settings)
	require.NoError(t, err)
	require.NoError(t, g.AddPlayer(1))
	require.NoError(t, g.AddPlayer(2))

	ec := &eventCollector{}
	g.EmitFn = ec.collect

	require.Error(t, g.Pass(1), "actions before start must fail")
	require.NoError(t, g.Start())

	assert.True(t, g.Started)
	for _, p := range g.Players {
		assert.Len(t, p.Hand, StartingHandSize)
	}
	assert.NotEqual(t, models.ValueWildDrawFour, g.TopCard.Value)
	assert.Equal(t, int64(1), g.CurrentPlayerID())
	assert.Equal(t, 112, g.CardCount(), "all cards accounted for after deal")
	require.Len(t, ec.ofType(EventGameStarted), 1)

	assert.ErrorIs(t, g.Start(), ErrGameAlreadyStarted)
	assert.ErrorIs(t, g.AddPlayer(3), ErrGameAlreadyStarted)
}

func TestStartRequiresTwoPlayers(t *testing.T) {
	g, err := NewGame(42, models.DefaultChatSettings(42))
	require.NoError(t, err)
	require.NoError(t, g.AddPlayer(1))
	assert.ErrorIs(t, g.Start(), ErrNotEnoughPlayers)
}

func TestNewGameUnknownTheme(t *testing.T) {
	settings := models.DefaultChatSettings(42)
	settings.Theme = "neon"
	_, err := NewGame(42, settings)
	assert.ErrorIs(t, err, catalog.ErrUnknownTheme)
}

func TestPlayValidation(t *testing.T) {
	g, _ := newTestGame(t, models.RuleSet{},
		[]seat{
			{id: 1, hand: []models.Card{c("r", "3"), c("g", "8")}},
			{id: 2, hand: []models.Card{c("b", "1")}},
		},
		filler(10), c("r", "5"))

	assert.ErrorIs(t, g.PlayCard(2, c("b", "1"), PlayOptions{}), ErrNotYourTurn)
	assert.ErrorIs(t, g.PlayCard(7, c("b", "1"), PlayOptions{}), ErrNotInGame)
	assert.ErrorIs(t, g.PlayCard(1, c("b", "9"), PlayOptions{}), models.ErrCardNotInHand)
	assert.ErrorIs(t, g.PlayCard(1, c("g", "8"), PlayOptions{}), ErrCardMismatch)

	// Valid color match; turn advances to player 2.
	require.NoError(t, g.PlayCard(1, c("r", "3"), PlayOptions{}))
	assert.Equal(t, int64(2), g.CurrentPlayerID())
	assert.Equal(t, c("r", "3"), g.TopCard)
}

func TestTurnMonotonicity(t *testing.T) {
	g, ec := newTestGame(t, models.RuleSet{},
		[]seat{
			{id: 1, hand: []models.Card{c("r", "1"), c("r", "9")}},
			{id: 2, hand: []models.Card{c("r", "2"), c("b", "4")}},
			{id: 3, hand: []models.Card{c("r", "3"), c("g", "6")}},
		},
		filler(10), c("r", "5"))

	require.NoError(t, g.PlayCard(1, c("r", "1"), PlayOptions{}))
	require.NoError(t, g.PlayCard(2, c("r", "2"), PlayOptions{}))
	require.NoError(t, g.PlayCard(3, c("r", "3"), PlayOptions{}))
	assert.Equal(t, int64(1), g.CurrentPlayerID(), "rotation wraps back to the first player")

	turns := ec.ofType(EventTurnAdvanced)
	require.Len(t, turns, 3)
	assert.Equal(t, int64(2), turns[0].Player)
	assert.Equal(t, int64(3), turns[1].Player)
	assert.Equal(t, int64(1), turns[2].Player)
}

func TestSkipAdvancesTwice(t *testing.T) {
	g, _ := newTestGame(t, models.RuleSet{},
		[]seat{
			{id: 1, hand: []models.Card{c("r", models.ValueSkip), c("r", "9")}},
			{id: 2, hand: []models.Card{c("b", "4")}},
			{id: 3, hand: []models.Card{c("g", "6")}},
		},
		filler(10), c("r", "5"))

	require.NoError(t, g.PlayCard(1, c("r", models.ValueSkip), PlayOptions{}))
	assert.Equal(t, int64(3), g.CurrentPlayerID())
}

func TestReverseFlipsDirection(t *testing.T) {
	g, _ := newTestGame(t, models.RuleSet{},
		[]seat{
			{id: 1, hand: []models.Card{c("r", models.ValueReverse), c("r", "9")}},
			{id: 2, hand: []models.Card{c("b", "4")}},
			{id: 3, hand: []models.Card{c("g", "6")}},
		},
		filler(10), c("r", "5"))

	require.NoError(t, g.PlayCard(1, c("r", models.ValueReverse), PlayOptions{}))
	assert.Equal(t, -1, g.Direction)
	assert.Equal(t, int64(3), g.CurrentPlayerID(), "direction -1 moves to the previous seat")
}

func TestReverseActsAsSkipHeadsUp(t *testing.T) {
	g, _ := newTestGame(t, models.RuleSet{},
		[]seat{
			{id: 1, hand: []models.Card{c("r", models.ValueReverse), c("r", "9")}},
			{id: 2, hand: []models.Card{c("b", "4")}},
		},
		filler(10), c("r", "5"))

	require.NoError(t, g.PlayCard(1, c("r", models.ValueReverse), PlayOptions{}))
	assert.Equal(t, int64(1), g.CurrentPlayerID(), "with two players reverse plays like skip")
}

func TestWildRequiresColorChoice(t *testing.T) {
	g, _ := newTestGame(t, models.RuleSet{},
		[]seat{
			{id: 1, hand: []models.Card{c("x", models.ValueWild), c("r", "9")}},
			{id: 2, hand: []models.Card{c("b", "4"), c("g", "2")}},
		},
		filler(10), c("r", "5"))

	assert.ErrorIs(t, g.PlayCard(1, c("x", models.ValueWild), PlayOptions{}), ErrMissingColorChoice)
	assert.ErrorIs(t, g.PlayCard(1, c("x", models.ValueWild), PlayOptions{ChosenColor: "purple"}), ErrInvalidColorChoice)

	require.NoError(t, g.PlayCard(1, c("x", models.ValueWild), PlayOptions{ChosenColor: "b"}))
	assert.Equal(t, "b", g.ChosenColor)

	// Player 2 must now follow the chosen color, not the wild itself.
	assert.ErrorIs(t, g.PlayCard(2, c("g", "2"), PlayOptions{}), ErrCardMismatch)
	require.NoError(t, g.PlayCard(2, c("b", "4"), PlayOptions{}))
	assert.Empty(t, g.ChosenColor, "chosen color clears on the next colored play")
}

func TestDrawTwoWithoutStacking(t *testing.T) {
	g, _ := newTestGame(t, models.RuleSet{Stack: false, DrawOne: true},
		[]seat{
			{id: 1, hand: []models.Card{c("r", models.ValueDrawTwo), c("r", "9")}},
			{id: 2, hand: []models.Card{c("b", models.ValueDrawTwo), c("g", "2")}},
			{id: 3, hand: []models.Card{c("g", "6")}},
		},
		filler(10), c("r", "5"))

	require.NoError(t, g.PlayCard(1, c("r", models.ValueDrawTwo), PlayOptions{}))
	assert.Equal(t, 2, g.PendingDraw)
	assert.Equal(t, int64(2), g.CurrentPlayerID())

	// Stacking disabled: even a draw-two response is rejected, and passing
	// is impossible until the penalty is taken.
	assert.ErrorIs(t, g.PlayCard(2, c("b", models.ValueDrawTwo), PlayOptions{}), ErrMustDrawPenalty)
	assert.ErrorIs(t, g.Pass(2), ErrMustDrawPenalty)

	handBefore := len(g.Players[1].Hand)
	require.NoError(t, g.DrawCard(2))
	assert.Equal(t, handBefore+2, len(g.Players[1].Hand))
	assert.Equal(t, 0, g.PendingDraw)
	assert.Equal(t, int64(3), g.CurrentPlayerID(), "penalty draw ends the turn")
}

// TestStackingChain is the spec scenario: A plays draw-two on B, B stacks
// their own draw-two onto C, C has none and absorbs 4, turn passes to D.
func TestStackingChain(t *testing.T) {
	g, _ := newTestGame(t, models.RuleSet{Stack: true, DrawOne: true},
		[]seat{
			{id: 1, hand: []models.Card{c("r", models.ValueDrawTwo), c("r", "9")}},
			{id: 2, hand: []models.Card{c("g", models.ValueDrawTwo), c("g", "2")}},
			{id: 3, hand: []models.Card{c("b", "6"), c("y", "1")}},
			{id: 4, hand: []models.Card{c("y", "7")}},
		},
		filler(10), c("r", "5"))

	require.NoError(t, g.PlayCard(1, c("r", models.ValueDrawTwo), PlayOptions{}))
	assert.Equal(t, 2, g.PendingDraw)

	require.NoError(t, g.PlayCard(2, c("g", models.ValueDrawTwo), PlayOptions{}))
	assert.Equal(t, 4, g.PendingDraw)
	assert.Equal(t, int64(3), g.CurrentPlayerID())

	// C cannot sneak in a numeric card.
	assert.ErrorIs(t, g.PlayCard(3, c("b", "6"), PlayOptions{}), ErrMustDrawPenalty)

	handBefore := len(g.Players[2].Hand)
	require.NoError(t, g.DrawCard(3))
	assert.Equal(t, handBefore+4, len(g.Players[2].Hand), "C's hand grows by exactly 4")
	assert.Equal(t, 0, g.PendingDraw)
	assert.Equal(t, int64(4), g.CurrentPlayerID(), "turn passes to D")
}

func TestStackRejectsSmallerPenalty(t *testing.T) {
	g, _ := newTestGame(t, models.RuleSet{Stack: true, Bluff: false, DrawOne: true},
		[]seat{
			{id: 1, hand: []models.Card{c("x", models.ValueWildDrawFour), c("r", "9")}},
			{id: 2, hand: []models.Card{c("g", models.ValueDrawTwo), c("x", models.ValueWildDrawFour)}},
		},
		filler(10), c("r", "5"))

	require.NoError(t, g.PlayCard(1, c("x", models.ValueWildDrawFour), PlayOptions{ChosenColor: "g"}))
	assert.Equal(t, 4, g.PendingDraw)

	assert.ErrorIs(t, g.PlayCard(2, c("g", models.ValueDrawTwo), PlayOptions{}), ErrCannotStack)
	require.NoError(t, g.PlayCard(2, c("x", models.ValueWildDrawFour), PlayOptions{ChosenColor: "b"}))
	assert.Equal(t, 8, g.PendingDraw)
}

func TestBluffCallCorrect(t *testing.T) {
	g, ec := newTestGame(t, models.RuleSet{Bluff: true, DrawOne: true},
		[]seat{
			{id: 1, hand: []models.Card{c("x", models.ValueWildDrawFour), c("r", "3")}},
			{id: 2, hand: []models.Card{c("b", "4")}},
			{id: 3, hand: []models.Card{c("g", "6")}},
		},
		filler(10), c("r", "5"))

	// Player 1 still holds a red card: the wild-draw-four is a bluff.
	require.NoError(t, g.PlayCard(1, c("x", models.ValueWildDrawFour), PlayOptions{ChosenColor: "b"}))
	assert.Equal(t, 4, g.PendingDraw)
	assert.Equal(t, int64(2), g.CurrentPlayerID())

	require.NoError(t, g.CallBluff(2))

	assert.Len(t, g.Players[0].Hand, 5, "accused absorbs the full penalty")
	assert.Len(t, g.Players[1].Hand, 1, "accuser draws nothing")
	assert.Equal(t, 0, g.PendingDraw)
	assert.Equal(t, int64(2), g.CurrentPlayerID(), "accuser keeps the turn")

	resolved := ec.ofType(EventBluffResolved)
	require.Len(t, resolved, 1)
	assert.True(t, resolved[0].Caught)
	assert.Equal(t, int64(2), resolved[0].Player)
	assert.Equal(t, int64(1), resolved[0].Target)

	// The window is spent.
	assert.ErrorIs(t, g.CallBluff(2), ErrNoBluffWindow)

	// Accuser plays on against the chosen color.
	require.NoError(t, g.PlayCard(2, c("b", "4"), PlayOptions{}))
}

func TestBluffCallWrong(t *testing.T) {
	g, ec := newTestGame(t, models.RuleSet{Bluff: true, DrawOne: true},
		[]seat{
			{id: 1, hand: []models.Card{c("x", models.ValueWildDrawFour), c("g", "3")}},
			{id: 2, hand: []models.Card{c("b", "4")}},
			{id: 3, hand: []models.Card{c("g", "6")}},
		},
		filler(10), c("r", "5"))

	// No red card in hand: the play was legal.
	require.NoError(t, g.PlayCard(1, c("x", models.ValueWildDrawFour), PlayOptions{ChosenColor: "b"}))
	require.NoError(t, g.CallBluff(2))

	assert.Len(t, g.Players[0].Hand, 1)
	assert.Len(t, g.Players[1].Hand, 1+4+BluffPenaltySurcharge, "accuser draws penalty plus surcharge")
	assert.Equal(t, 0, g.PendingDraw)
	assert.Equal(t, int64(3), g.CurrentPlayerID(), "wrong accuser loses the turn")

	resolved := ec.ofType(EventBluffResolved)
	require.Len(t, resolved, 1)
	assert.False(t, resolved[0].Caught)
}

func TestBluffWindowGuards(t *testing.T) {
	g, _ := newTestGame(t, models.RuleSet{Bluff: false, DrawOne: true},
		[]seat{
			{id: 1, hand: []models.Card{c("r", "3"), c("r", "9")}},
			{id: 2, hand: []models.Card{c("b", "4")}},
		},
		filler(10), c("r", "5"))

	require.NoError(t, g.PlayCard(1, c("r", "3"), PlayOptions{}))
	assert.ErrorIs(t, g.CallBluff(2), ErrBluffDisabled)

	g2, _ := newTestGame(t, models.RuleSet{Bluff: true, DrawOne: true},
		[]seat{
			{id: 1, hand: []models.Card{c("r", "3"), c("r", "9")}},
			{id: 2, hand: []models.Card{c("b", "4")}},
		},
		filler(10), c("r", "5"))

	require.NoError(t, g2.PlayCard(1, c("r", "3"), PlayOptions{}))
	assert.ErrorIs(t, g2.CallBluff(2), ErrNoBluffWindow)
}

func TestBluffWindowClosesOnDraw(t *testing.T) {
	g, _ := newTestGame(t, models.RuleSet{Bluff: true, DrawOne: true},
		[]seat{
			{id: 1, hand: []models.Card{c("x", models.ValueWildDrawFour), c("r", "3")}},
			{id: 2, hand: []models.Card{c("b", "4")}},
			{id: 3, hand: []models.Card{c("g", "6")}},
		},
		filler(10), c("r", "5"))

	require.NoError(t, g.PlayCard(1, c("x", models.ValueWildDrawFour), PlayOptions{ChosenColor: "b"}))
	require.NoError(t, g.DrawCard(2))
	assert.Equal(t, int64(3), g.CurrentPlayerID())
	assert.ErrorIs(t, g.CallBluff(3), ErrNoBluffWindow)
}

func TestSevenSwapsHands(t *testing.T) {
	g, ec := newTestGame(t, models.RuleSet{Seven: true, DrawOne: true},
		[]seat{
			{id: 1, hand: []models.Card{c("r", "7"), c("r", "9")}},
			{id: 2, hand: []models.Card{c("g", "1"), c("g", "2"), c("g", "3")}},
		},
		filler(10), c("r", "5"))

	assert.ErrorIs(t, g.PlayCard(1, c("r", "7"), PlayOptions{}), ErrMissingSwapTarget)
	assert.ErrorIs(t, g.PlayCard(1, c("r", "7"), PlayOptions{SwapWith: 1}), ErrInvalidSwapTarget)
	assert.ErrorIs(t, g.PlayCard(1, c("r", "7"), PlayOptions{SwapWith: 9}), ErrInvalidSwapTarget)

	require.NoError(t, g.PlayCard(1, c("r", "7"), PlayOptions{SwapWith: 2}))
	assert.ElementsMatch(t, []models.Card{c("g", "1"), c("g", "2"), c("g", "3")}, g.Players[0].Hand)
	assert.ElementsMatch(t, []models.Card{c("r", "9")}, g.Players[1].Hand)

	swaps := ec.ofType(EventHandsSwapped)
	require.Len(t, swaps, 1)
	assert.Equal(t, int64(1), swaps[0].Player)
	assert.Equal(t, int64(2), swaps[0].Target)
}

func TestSevenAsLastCardWinsWithoutSwap(t *testing.T) {
	g, _ := newTestGame(t, models.RuleSet{Seven: true, OneWin: true, DrawOne: true},
		[]seat{
			{id: 1, hand: []models.Card{c("r", "7")}},
			{id: 2, hand: []models.Card{c("g", "1")}},
		},
		filler(10), c("r", "5"))

	require.NoError(t, g.PlayCard(1, c("r", "7"), PlayOptions{}))
	assert.True(t, g.Closed)
	assert.True(t, g.Winner)
	assert.Equal(t, int64(1), g.WinnerID)
}

func TestDrawOneThenPlayOrPass(t *testing.T) {
	g, _ := newTestGame(t, models.RuleSet{DrawOne: true},
		[]seat{
			{id: 1, hand: []models.Card{c("g", "9")}},
			{id: 2, hand: []models.Card{c("b", "4")}},
		},
		[]models.Card{c("r", "8"), c("b", "2"), c("b", "3")}, c("r", "5"))

	assert.ErrorIs(t, g.Pass(1), ErrHaveNotDrawn)

	require.NoError(t, g.DrawCard(1))
	assert.Len(t, g.Players[0].Hand, 2)
	assert.ErrorIs(t, g.DrawCard(1), ErrAlreadyDrawn)

	// The freshly drawn card may be played the same turn.
	require.NoError(t, g.PlayCard(1, c("r", "8"), PlayOptions{}))
	assert.Equal(t, int64(2), g.CurrentPlayerID())
}

func TestDrawUntilPlayable(t *testing.T) {
	g, _ := newTestGame(t, models.RuleSet{DrawOne: false},
		[]seat{
			{id: 1, hand: []models.Card{c("g", "9")}},
			{id: 2, hand: []models.Card{c("b", "4")}},
		},
		[]models.Card{c("b", "1"), c("y", "2"), c("r", "8"), c("b", "3")}, c("r", "5"))

	require.NoError(t, g.DrawCard(1))
	assert.Len(t, g.Players[0].Hand, 4, "draws until the red 8 appears")
	assert.Equal(t, int64(1), g.CurrentPlayerID())

	require.NoError(t, g.Pass(1))
	assert.Equal(t, int64(2), g.CurrentPlayerID())
}

func TestDrawUntilPlayableStopsOnExhaustion(t *testing.T) {
	g, ec := newTestGame(t, models.RuleSet{DrawOne: false},
		[]seat{
			{id: 1, hand: []models.Card{c("g", "9")}},
			{id: 2, hand: []models.Card{c("b", "4")}},
		},
		[]models.Card{c("b", "1"), c("y", "2")}, c("r", "5"))

	require.NoError(t, g.DrawCard(1))
	assert.Len(t, g.Players[0].Hand, 3, "whole pile consumed without a match")

	drawn := ec.ofType(EventCardDrawn)
	require.Len(t, drawn, 1)
	assert.Equal(t, 2, drawn[0].Count)

	// Nothing left anywhere; the player can still pass out of the turn.
	require.NoError(t, g.Pass(1))
	assert.Equal(t, int64(2), g.CurrentPlayerID())
}

func TestOneCardDeclareAndCallOut(t *testing.T) {
	g, ec := newTestGame(t, models.RuleSet{OneCard: true, DrawOne: true},
		[]seat{
			{id: 1, hand: []models.Card{c("r", "3"), c("r", "9")}},
			{id: 2, hand: []models.Card{c("b", "4")}},
			{id: 3, hand: []models.Card{c("g", "6"), c("g", "7")}},
		},
		filler(10), c("r", "5"))

	assert.ErrorIs(t, g.DeclareOneCard(1), ErrNotOneCard)

	// Player 2 declares their single card; a call-out then has no teeth.
	require.NoError(t, g.DeclareOneCard(2))
	assert.ErrorIs(t, g.CallOutOneCard(3, 2), ErrNoViolation)
	require.Len(t, ec.ofType(EventOneCardDeclared), 1)

	// Player 1 plays down to one card without declaring and gets caught.
	require.NoError(t, g.PlayCard(1, c("r", "3"), PlayOptions{}))
	require.Len(t, g.Players[0].Hand, 1)
	require.NoError(t, g.CallOutOneCard(3, 1))
	assert.Len(t, g.Players[0].Hand, 1+OneCardPenalty)

	caught := ec.ofType(EventCaughtNoDeclare)
	require.Len(t, caught, 1)
	assert.Equal(t, int64(3), caught[0].Player)
	assert.Equal(t, int64(1), caught[0].Target)

	// Hand moved away from one card; the violation is gone.
	assert.ErrorIs(t, g.CallOutOneCard(3, 1), ErrNoViolation)
}

func TestOneCardDisabled(t *testing.T) {
	g, _ := newTestGame(t, models.RuleSet{OneCard: false},
		[]seat{
			{id: 1, hand: []models.Card{c("r", "3")}},
			{id: 2, hand: []models.Card{c("b", "4")}},
		},
		filler(10), c("r", "5"))

	assert.ErrorIs(t, g.DeclareOneCard(1), ErrOneCardDisabled)
	assert.ErrorIs(t, g.CallOutOneCard(2, 1), ErrOneCardDisabled)
}

func TestOneWinEndsImmediately(t *testing.T) {
	g, ec := newTestGame(t, models.RuleSet{OneWin: true, DrawOne: true},
		[]seat{
			{id: 1, hand: []models.Card{c("r", "3")}},
			{id: 2, hand: []models.Card{c("b", "4")}},
			{id: 3, hand: []models.Card{c("g", "6")}},
		},
		filler(10), c("r", "5"))

	require.NoError(t, g.PlayCard(1, c("r", "3"), PlayOptions{}))
	assert.True(t, g.Closed)
	assert.True(t, g.Winner)
	assert.Equal(t, int64(1), g.WinnerID)
	require.Len(t, ec.ofType(EventGameWon), 1)

	assert.ErrorIs(t, g.PlayCard(2, c("b", "4"), PlayOptions{}), ErrGameClosed)
}

func TestLastPlayerStanding(t *testing.T) {
	g, ec := newTestGame(t, models.RuleSet{OneWin: false, DrawOne: true},
		[]seat{
			{id: 1, hand: []models.Card{c("r", "3")}},
			{id: 2, hand: []models.Card{c("r", "4")}},
			{id: 3, hand: []models.Card{c("g", "6"), c("g", "8")}},
		},
		filler(10), c("r", "5"))

	require.NoError(t, g.PlayCard(1, c("r", "3"), PlayOptions{}))
	assert.False(t, g.Closed, "game continues after the first finisher")
	assert.Equal(t, int64(2), g.CurrentPlayerID())

	require.NoError(t, g.PlayCard(2, c("r", "4"), PlayOptions{}))
	assert.True(t, g.Closed, "one player left holding cards")
	assert.True(t, g.Winner)
	assert.Equal(t, int64(1), g.WinnerID, "first player out takes the win")

	assert.Len(t, ec.ofType(EventPlayerFinished), 2)
	require.Len(t, ec.ofType(EventGameWon), 1)
}

func TestFinishedPlayersAreSkipped(t *testing.T) {
	g, _ := newTestGame(t, models.RuleSet{OneWin: false, DrawOne: true},
		[]seat{
			{id: 1, hand: []models.Card{c("r", "3")}},
			{id: 2, hand: []models.Card{c("r", "4"), c("b", "2")}},
			{id: 3, hand: []models.Card{c("r", "6"), c("g", "8")}},
		},
		filler(10), c("r", "5"))

	require.NoError(t, g.PlayCard(1, c("r", "3"), PlayOptions{}))
	require.NoError(t, g.PlayCard(2, c("r", "4"), PlayOptions{}))
	require.NoError(t, g.PlayCard(3, c("r", "6"), PlayOptions{}))
	assert.Equal(t, int64(2), g.CurrentPlayerID(), "rotation skips the finished seat")
}

func TestCloseCancelsGame(t *testing.T) {
	g, ec := newTestGame(t, models.RuleSet{DrawOne: true},
		[]seat{
			{id: 1, hand: []models.Card{c("r", "3")}},
			{id: 2, hand: []models.Card{c("b", "4")}},
		},
		filler(10), c("r", "5"))

	require.NoError(t, g.Close())
	assert.True(t, g.Closed)
	assert.False(t, g.Winner)
	require.Len(t, ec.ofType(EventGameClosed), 1)

	assert.ErrorIs(t, g.Close(), ErrGameClosed)
	assert.ErrorIs(t, g.DrawCard(1), ErrGameClosed)
}

func TestRemovePlayerMidGame(t *testing.T) {
	g, ec := newTestGame(t, models.RuleSet{DrawOne: true},
		[]seat{
			{id: 1, hand: []models.Card{c("r", "3"), c("r", "9")}},
			{id: 2, hand: []models.Card{c("b", "4"), c("b", "5")}},
			{id: 3, hand: []models.Card{c("g", "6"), c("g", "8")}},
		},
		filler(10), c("r", "5"))

	total := g.CardCount()
	require.NoError(t, g.RemovePlayer(1))
	assert.Equal(t, total, g.CardCount(), "leaver's cards return to the graveyard")
	assert.Equal(t, int64(2), g.CurrentPlayerID())
	require.Len(t, ec.ofType(EventPlayerLeft), 1)

	// Second leaver ends the game in favor of the remaining player.
	require.NoError(t, g.RemovePlayer(2))
	assert.True(t, g.Closed)
	assert.True(t, g.Winner)
	assert.Equal(t, int64(3), g.WinnerID)
}

// TestCardConservation runs a mixed scenario and verifies the invariant
// |draw pile| + |graveyard| + Σ|hands| + top card stays constant.
func TestCardConservation(t *testing.T) {
	g, _ := newTestGame(t, models.RuleSet{Stack: true, Bluff: true, DrawOne: true},
		[]seat{
			{id: 1, hand: []models.Card{c("r", models.ValueDrawTwo), c("x", models.ValueWildDrawFour), c("r", "9")}},
			{id: 2, hand: []models.Card{c("g", models.ValueDrawTwo), c("b", "4")}},
			{id: 3, hand: []models.Card{c("g", "6"), c("y", "1")}},
		},
		filler(12), c("r", "5"))

	total := g.CardCount()

	require.NoError(t, g.PlayCard(1, c("r", models.ValueDrawTwo), PlayOptions{}))
	assert.Equal(t, total, g.CardCount())

	require.NoError(t, g.PlayCard(2, c("g", models.ValueDrawTwo), PlayOptions{}))
	assert.Equal(t, total, g.CardCount())

	require.NoError(t, g.DrawCard(3))
	assert.Equal(t, total, g.CardCount())

	require.NoError(t, g.PlayCard(1, c("x", models.ValueWildDrawFour), PlayOptions{ChosenColor: "g"}))
	assert.Equal(t, total, g.CardCount())

	require.NoError(t, g.CallBluff(2))
	assert.Equal(t, total, g.CardCount())
}
