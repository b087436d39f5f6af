// internal/engine/errors.go
package engine

import "errors"

// Validation errors: the action is rejected and no state is mutated.
var (
	ErrGameClosed         = errors.New("game is closed")
	ErrGameNotStarted     = errors.New("game has not started")
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrNotEnoughPlayers   = errors.New("not enough players")
	ErrNotEnoughCards     = errors.New("theme deck too small for the table")
	ErrAlreadyJoined      = errors.New("player already joined")
	ErrNotInGame          = errors.New("player is not in this game")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrCardMismatch       = errors.New("card does not match the top card")
	ErrMissingColorChoice = errors.New("wild card played without a color choice")
	ErrInvalidColorChoice = errors.New("chosen color is not in the theme")
	ErrMissingSwapTarget  = errors.New("seven played without a swap target")
	ErrInvalidSwapTarget  = errors.New("swap target is not an active player")
	ErrAlreadyDrawn       = errors.New("player already drew this turn")
	ErrHaveNotDrawn       = errors.New("player must draw before passing")
)

// Rule-violation errors: rejected per the active rule set, possibly after a
// penalty side effect.
var (
	ErrMustDrawPenalty  = errors.New("pending draw penalty must be taken")
	ErrCannotStack      = errors.New("card cannot be stacked on the pending penalty")
	ErrBluffDisabled    = errors.New("bluff calling is disabled in this chat")
	ErrNoBluffWindow    = errors.New("no wild-draw-four play to challenge")
	ErrOneCardDisabled  = errors.New("one-card calls are disabled in this chat")
	ErrNotOneCard       = errors.New("player does not hold exactly one card")
	ErrNoViolation      = errors.New("target player is not in violation")
)
