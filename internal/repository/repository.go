// internal/repository/repository.go

// Package repository persists game snapshots keyed by chat id. The engine
// never touches it directly; the session manager saves a snapshot after
// every transition and deletes it when the game closes.
package repository

import (
	"context"

	"github.com/iamnolimit/tg-uno-bot/internal/engine"
)

// Repository is the persistence collaborator consumed by the session layer.
type Repository interface {
	// Load returns the stored snapshot for a chat, with ok=false when the
	// chat has no saved game.
	Load(ctx context.Context, chatID int64) (engine.Snapshot, bool, error)
	Save(ctx context.Context, chatID int64, snap engine.Snapshot) error
	Delete(ctx context.Context, chatID int64) error
	// ChatIDs lists every chat with a saved game, for resume at startup.
	ChatIDs(ctx context.Context) ([]int64, error)
}
