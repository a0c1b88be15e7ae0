package store

import (
	"context"
	"errors"

	"github.com/manojpracturu/first-aid/internal/model/profile"
)

// ErrNotFound is returned when a record does not exist in a tier.
var ErrNotFound = errors.New("store: not found")

// DocumentStore is the remote document tier keyed by user identifier.
// Implemented by RedisStore.
type DocumentStore interface {
	GetProfile(ctx context.Context, uid string) (*profile.Profile, error)
	SetProfile(ctx context.Context, p *profile.Profile) error
	// MergeProfile applies a partial update to an existing record and
	// returns ErrNotFound when there is nothing to merge into.
	MergeProfile(ctx context.Context, uid string, upd profile.Update) error
	Ping(ctx context.Context) error
	Close() error
}

// Cache is the local durable tier: a namespaced key-value store that survives
// restarts. Implemented by SQLiteCache.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// profileKey returns the cache key for a user's profile record.
func profileKey(uid string) string {
	return "user_" + uid
}

// transcriptKey returns the cache key for a user's chat history.
func transcriptKey(uid string) string {
	return "chat_history_" + uid
}
