// internal/engine/store.go
package engine

import "sync"

// GameStore keeps the live games in memory, one per chat.
type GameStore struct {
	mu    sync.Mutex
	games map[int64]*Game
}

// NewGameStore returns an empty in-memory store.
func NewGameStore() *GameStore {
	return &GameStore{games: make(map[int64]*Game)}
}

// Add stores the game under its chat id.
func (s *GameStore) Add(g *Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[g.ChatID] = g
}

// Get retrieves the game for a chat if one exists.
func (s *GameStore) Get(chatID int64) (*Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[chatID]
	return g, ok
}

// Delete removes the game for a chat.
func (s *GameStore) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, chatID)
}

// ChatIDs lists the chats with a live game, for shutdown persistence.
func (s *GameStore) ChatIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	return ids
}
