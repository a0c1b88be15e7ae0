package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/manojpracturu/first-aid/internal/model/profile"
)

// RedisStore keeps profile records as JSON documents keyed by user id.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// GetProfile loads the profile document for uid.
func (s *RedisStore) GetProfile(ctx context.Context, uid string) (*profile.Profile, error) {
	data, err := s.client.Get(ctx, profileKey(uid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var p profile.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", uid, err)
	}
	return &p, nil
}

// SetProfile overwrites the profile document for p.UID.
func (s *RedisStore) SetProfile(ctx context.Context, p *profile.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", p.UID, err)
	}
	return s.client.Set(ctx, profileKey(p.UID), data, 0).Err()
}

// MergeProfile applies a partial update to the stored document. Matches the
// document-store contract: merging into a missing record is ErrNotFound so
// the gateway can route the update to the fallback tier.
func (s *RedisStore) MergeProfile(ctx context.Context, uid string, upd profile.Update) error {
	current, err := s.GetProfile(ctx, uid)
	if err != nil {
		return err
	}
	upd.Apply(current)
	return s.SetProfile(ctx, current)
}
