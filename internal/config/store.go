// internal/config/store.go

// Package config provides the per-chat settings collaborator: rule toggles
// and theme, read from Postgres with a Redis cache in front. The engine
// consumes the result read-only at game start.
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/iamnolimit/tg-uno-bot/internal/models"
)

const (
	cacheTTL       = 5 * time.Minute
	chatKeyPrefix  = "unu:chat:"
	createChatsDDL = `
		CREATE TABLE IF NOT EXISTS chats (
			id BIGINT PRIMARY KEY,
			theme TEXT NOT NULL DEFAULT 'classic',
			bluff BOOLEAN NOT NULL DEFAULT TRUE,
			seven BOOLEAN NOT NULL DEFAULT FALSE,
			one_win BOOLEAN NOT NULL DEFAULT FALSE,
			one_card BOOLEAN NOT NULL DEFAULT FALSE,
			satack BOOLEAN NOT NULL DEFAULT TRUE,
			draw_one BOOLEAN NOT NULL DEFAULT TRUE,
			lang TEXT NOT NULL DEFAULT 'en-US',
			auto_pin BOOLEAN NOT NULL DEFAULT FALSE
		)`
)

// Store reads and writes chat settings. The pool and the optional cache
// client are injected with an explicit lifecycle; there is no package-level
// connection state.
type Store struct {
	pool  *pgxpool.Pool
	cache *redis.Client
}

// New connects a pool, ensures the schema exists, and returns the store.
// cache may be nil to run without the cache layer.
func New(ctx context.Context, dsn string, cache *redis.Client) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if _, err := pool.Exec(ctx, createChatsDDL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure chats table: %w", err)
	}
	return &Store{pool: pool, cache: cache}, nil
}

// Close releases the pool. The cache client is owned by the caller.
func (s *Store) Close() {
	s.pool.Close()
}

func chatKey(chatID int64) string {
	return chatKeyPrefix + strconv.FormatInt(chatID, 10)
}

// ChatSettings returns the settings row for a chat, falling back to the
// defaults when the chat has never been configured. Cache errors degrade to
// a direct database read.
func (s *Store) ChatSettings(ctx context.Context, chatID int64) (models.ChatSettings, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, chatKey(chatID)).Bytes(); err == nil {
			var cached models.ChatSettings
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	settings := models.DefaultChatSettings(chatID)
	row := s.pool.QueryRow(ctx, `
		SELECT theme, bluff, seven, one_win, one_card, satack, draw_one, lang, auto_pin
		FROM chats WHERE id = $1`, chatID)
	err := row.Scan(
		&settings.Theme, &settings.Bluff, &settings.Seven, &settings.OneWin,
		&settings.OneCard, &settings.Stack, &settings.DrawOne,
		&settings.Lang, &settings.AutoPin,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return settings, fmt.Errorf("load chat %d: %w", chatID, err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(settings); err == nil {
			s.cache.Set(ctx, chatKey(chatID), data, cacheTTL)
		}
	}
	return settings, nil
}

// SaveChatSettings upserts the row and invalidates the cache entry.
func (s *Store) SaveChatSettings(ctx context.Context, settings models.ChatSettings) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO chats (id, theme, bluff, seven, one_win, one_card, satack, draw_one, lang, auto_pin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			theme = $2, bluff = $3, seven = $4, one_win = $5, one_card = $6,
			satack = $7, draw_one = $8, lang = $9, auto_pin = $10`,
		settings.ChatID, settings.Theme, settings.Bluff, settings.Seven,
		settings.OneWin, settings.OneCard, settings.Stack, settings.DrawOne,
		settings.Lang, settings.AutoPin,
	)
	if err != nil {
		return fmt.Errorf("save chat %d: %w", settings.ChatID, err)
	}
	s.InvalidateChat(ctx, settings.ChatID)
	return nil
}

// InvalidateChat drops the cached settings for a chat.
func (s *Store) InvalidateChat(ctx context.Context, chatID int64) {
	if s.cache != nil {
		s.cache.Del(ctx, chatKey(chatID))
	}
}
