// internal/models/rules.go
package models

// RuleSet is the immutable toggle matrix resolved once at game start from
// the chat configuration. Field names mirror the chat settings columns.
type RuleSet struct {
	Theme string `json:"theme"`

	// Bluff enables calling out a wild-draw-four played over a matching card.
	Bluff bool `json:"bluff"`
	// Seven makes playing a 7 swap hands with a chosen opponent.
	Seven bool `json:"seven"`
	// OneWin ends the game as soon as the first player empties their hand;
	// otherwise play continues until a single player remains.
	OneWin bool `json:"one_win"`
	// OneCard requires players to declare when they are down to one card.
	OneCard bool `json:"one_card"`
	// Stack allows passing a pending draw penalty forward with an
	// equal-or-greater draw card.
	Stack bool `json:"satack"`
	// DrawOne forces a single draw instead of draw-until-playable.
	DrawOne bool `json:"draw_one"`
}

// ChatSettings is one row of the per-chat configuration table. The engine
// consumes it read-only; Lang and AutoPin belong to the presentation layer
// and are carried through untouched.
type ChatSettings struct {
	ChatID  int64  `json:"chat_id"`
	Theme   string `json:"theme"`
	Bluff   bool   `json:"bluff"`
	Seven   bool   `json:"seven"`
	OneWin  bool   `json:"one_win"`
	OneCard bool   `json:"one_card"`
	Stack   bool   `json:"satack"`
	DrawOne bool   `json:"draw_one"`
	Lang    string `json:"lang"`
	AutoPin bool   `json:"auto_pin"`
}

// DefaultChatSettings returns the settings used for a chat with no stored row.
func DefaultChatSettings(chatID int64) ChatSettings {
	return ChatSettings{
		ChatID:  chatID,
		Theme:   "classic",
		Bluff:   true,
		Stack:   true,
		DrawOne: true,
		Lang:    "en-US",
	}
}

// RuleSetFromSettings projects a settings row onto the engine's rule set.
func RuleSetFromSettings(s ChatSettings) RuleSet {
	return RuleSet{
		Theme:   s.Theme,
		Bluff:   s.Bluff,
		Seven:   s.Seven,
		OneWin:  s.OneWin,
		OneCard: s.OneCard,
		Stack:   s.Stack,
		DrawOne: s.DrawOne,
	}
}
