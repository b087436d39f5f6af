// internal/repository/redis.go
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iamnolimit/tg-uno-bot/internal/engine"
)

const gameKeyPrefix = "unu:game:"

// RedisRepository stores snapshots as JSON values in Redis. It owns its
// client; callers create it once at startup and Close it on shutdown.
type RedisRepository struct {
	rdb *redis.Client
}

// NewRedisRepository connects a client and verifies the server is reachable.
func NewRedisRepository(ctx context.Context, addr string, db int) (*RedisRepository, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis at %s: %w", addr, err)
	}
	return &RedisRepository{rdb: rdb}, nil
}

// Close releases the underlying client.
func (r *RedisRepository) Close() error {
	return r.rdb.Close()
}

func gameKey(chatID int64) string {
	return gameKeyPrefix + strconv.FormatInt(chatID, 10)
}

// Load fetches and decodes the snapshot for a chat.
func (r *RedisRepository) Load(ctx context.Context, chatID int64) (engine.Snapshot, bool, error) {
	var snap engine.Snapshot
	data, err := r.rdb.Get(ctx, gameKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return snap, false, nil
	}
	if err != nil {
		return snap, false, fmt.Errorf("load game %d: %w", chatID, err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, false, fmt.Errorf("decode game %d: %w", chatID, err)
	}
	return snap, true, nil
}

// Save encodes and stores the snapshot. Snapshots have no TTL; finished
// games are removed explicitly via Delete.
func (r *RedisRepository) Save(ctx context.Context, chatID int64, snap engine.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode game %d: %w", chatID, err)
	}
	if err := r.rdb.Set(ctx, gameKey(chatID), data, 0).Err(); err != nil {
		return fmt.Errorf("save game %d: %w", chatID, err)
	}
	return nil
}

// Delete removes a chat's saved game.
func (r *RedisRepository) Delete(ctx context.Context, chatID int64) error {
	if err := r.rdb.Del(ctx, gameKey(chatID)).Err(); err != nil {
		return fmt.Errorf("delete game %d: %w", chatID, err)
	}
	return nil
}

// ChatIDs scans for every saved game key.
func (r *RedisRepository) ChatIDs(ctx context.Context) ([]int64, error) {
	var (
		ids    []int64
		cursor uint64
	)
	for {
		keys, next, err := r.rdb.Scan(ctx, cursor, gameKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scan games: %w", err)
		}
		for _, key := range keys {
			raw := strings.TrimPrefix(key, gameKeyPrefix)
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
		cursor = next
		if cursor == 0 {
			return ids, nil
		}
	}
}
