// internal/session/manager.go

// Package session coordinates one game per chat: it validates that a game
// exists, drives the engine, persists a snapshot after every transition and
// fans engine events out to subscribers. Engine calls serialize on the game
// lock; persistence and event delivery happen outside it.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/iamnolimit/tg-uno-bot/internal/engine"
	"github.com/iamnolimit/tg-uno-bot/internal/models"
	"github.com/iamnolimit/tg-uno-bot/internal/repository"
)

var (
	// ErrNoGame means the chat has no game to act on.
	ErrNoGame = errors.New("no game in this chat")
	// ErrGameInProgress means the chat already has a live game.
	ErrGameInProgress = errors.New("a game is already running in this chat")
)

// SettingsProvider yields the read-only per-chat configuration.
type SettingsProvider interface {
	ChatSettings(ctx context.Context, chatID int64) (models.ChatSettings, error)
}

// Manager is the entry point for all game actions.
type Manager struct {
	store    *engine.GameStore
	repo     repository.Repository
	settings SettingsProvider
	log      *logrus.Logger

	subMu   sync.Mutex
	subs    map[int]chan engine.Event
	nextSub int
}

// NewManager wires the collaborators together.
func NewManager(repo repository.Repository, settings SettingsProvider, log *logrus.Logger) *Manager {
	return &Manager{
		store:    engine.NewGameStore(),
		repo:     repo,
		settings: settings,
		log:      log,
		subs:     make(map[int]chan engine.Event),
	}
}

// Subscribe returns a channel receiving every engine event, plus a cancel
// function. Slow subscribers lose events rather than blocking the engine.
func (m *Manager) Subscribe() (<-chan engine.Event, func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	id := m.nextSub
	m.nextSub++
	ch := make(chan engine.Event, 64)
	m.subs[id] = ch
	return ch, func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		if c, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(c)
		}
	}
}

func (m *Manager) publish(ev engine.Event) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// NewGame opens a lobby in the chat with the host as first player. Fails if
// a game already exists or the chat's theme is unknown.
func (m *Manager) NewGame(ctx context.Context, chatID, hostID int64) error {
	if _, ok := m.store.Get(chatID); ok {
		return ErrGameInProgress
	}
	settings, err := m.settings.ChatSettings(ctx, chatID)
	if err != nil {
		return err
	}
	g, err := engine.NewGame(chatID, settings)
	if err != nil {
		return err
	}
	g.EmitFn = m.publish
	if err := g.AddPlayer(hostID); err != nil {
		return err
	}
	m.store.Add(g)
	m.log.WithFields(logrus.Fields{
		"chat": chatID,
		"game": g.ID,
		"host": hostID,
	}).Info("lobby opened")
	m.persist(ctx, g)
	return nil
}

// Join seats another player in the chat's lobby.
func (m *Manager) Join(ctx context.Context, chatID, playerID int64) error {
	return m.withGame(ctx, chatID, func(g *engine.Game) error {
		return g.AddPlayer(playerID)
	})
}

// Leave removes a player; mid-game their hand is discarded.
func (m *Manager) Leave(ctx context.Context, chatID, playerID int64) error {
	return m.withGame(ctx, chatID, func(g *engine.Game) error {
		return g.RemovePlayer(playerID)
	})
}

// Start deals the hands and begins play.
func (m *Manager) Start(ctx context.Context, chatID int64) error {
	return m.withGame(ctx, chatID, func(g *engine.Game) error {
		return g.Start()
	})
}

// Play lays a card for a player.
func (m *Manager) Play(ctx context.Context, chatID, playerID int64, card models.Card, opts engine.PlayOptions) error {
	return m.withGame(ctx, chatID, func(g *engine.Game) error {
		return g.PlayCard(playerID, card, opts)
	})
}

// Draw makes the active player draw.
func (m *Manager) Draw(ctx context.Context, chatID, playerID int64) error {
	return m.withGame(ctx, chatID, func(g *engine.Game) error {
		return g.DrawCard(playerID)
	})
}

// Pass ends the active player's turn after a draw.
func (m *Manager) Pass(ctx context.Context, chatID, playerID int64) error {
	return m.withGame(ctx, chatID, func(g *engine.Game) error {
		return g.Pass(playerID)
	})
}

// CallBluff challenges the last wild-draw-four.
func (m *Manager) CallBluff(ctx context.Context, chatID, playerID int64) error {
	return m.withGame(ctx, chatID, func(g *engine.Game) error {
		return g.CallBluff(playerID)
	})
}

// DeclareOne records a player's one-card call.
func (m *Manager) DeclareOne(ctx context.Context, chatID, playerID int64) error {
	return m.withGame(ctx, chatID, func(g *engine.Game) error {
		return g.DeclareOneCard(playerID)
	})
}

// CallOut challenges a player for an undeclared single card.
func (m *Manager) CallOut(ctx context.Context, chatID, accuserID, targetID int64) error {
	return m.withGame(ctx, chatID, func(g *engine.Game) error {
		return g.CallOutOneCard(accuserID, targetID)
	})
}

// Stop cancels the chat's game administratively.
func (m *Manager) Stop(ctx context.Context, chatID int64) error {
	return m.withGame(ctx, chatID, func(g *engine.Game) error {
		return g.Close()
	})
}

// Game exposes the live game for read-mostly callers (rendering, tests).
func (m *Manager) Game(chatID int64) (*engine.Game, bool) {
	return m.store.Get(chatID)
}

// Resume restores every persisted game at startup. Closed or corrupt
// snapshots are dropped from the repository.
func (m *Manager) Resume(ctx context.Context) error {
	ids, err := m.repo.ChatIDs(ctx)
	if err != nil {
		return err
	}
	for _, chatID := range ids {
		snap, ok, err := m.repo.Load(ctx, chatID)
		if err != nil {
			m.log.WithError(err).WithField("chat", chatID).Warn("skipping unreadable snapshot")
			continue
		}
		if !ok {
			continue
		}
		g, err := engine.Restore(snap)
		if err != nil || g.Closed {
			if delErr := m.repo.Delete(ctx, chatID); delErr != nil {
				m.log.WithError(delErr).WithField("chat", chatID).Warn("delete stale snapshot")
			}
			continue
		}
		g.EmitFn = m.publish
		m.store.Add(g)
		m.log.WithFields(logrus.Fields{"chat": chatID, "game": g.ID}).Info("game resumed")
	}
	return nil
}

// withGame runs an engine action and persists the outcome. The action error
// is returned untouched so callers can match the engine's sentinel kinds;
// persistence failures are logged, not surfaced to the acting player.
func (m *Manager) withGame(ctx context.Context, chatID int64, fn func(g *engine.Game) error) error {
	g, ok := m.store.Get(chatID)
	if !ok {
		return ErrNoGame
	}
	if err := fn(g); err != nil {
		return err
	}
	m.persist(ctx, g)
	return nil
}

// persist snapshots under the game lock and writes outside of it. Closed
// games are removed from both stores.
func (m *Manager) persist(ctx context.Context, g *engine.Game) {
	snap := g.Snapshot()
	if snap.Closed {
		m.store.Delete(snap.ChatID)
		if err := m.repo.Delete(ctx, snap.ChatID); err != nil {
			m.log.WithError(err).WithField("chat", snap.ChatID).Error("delete snapshot")
		}
		return
	}
	if err := m.repo.Save(ctx, snap.ChatID, snap); err != nil {
		m.log.WithError(err).WithField("chat", snap.ChatID).Error("save snapshot")
	}
}
