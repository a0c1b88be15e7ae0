package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/manojpracturu/first-aid/internal/model/chat"
	"github.com/manojpracturu/first-aid/internal/model/profile"
)

// Tier names one storage backend in fallback order.
type Tier string

const (
	TierRemote Tier = "remote"
	TierLocal  Tier = "local"
)

// TierPolicy fixes, per record class, which tiers are tried and in what
// order. Fallback is a policy decision here rather than a catch-block side
// effect.
type TierPolicy struct {
	Profile    []Tier
	Transcript []Tier
}

// DefaultTierPolicy tries the remote document store first for profiles and
// keeps transcripts local-only, matching the transcript's lower consistency
// requirement.
func DefaultTierPolicy() TierPolicy {
	return TierPolicy{
		Profile:    []Tier{TierRemote, TierLocal},
		Transcript: []Tier{TierLocal},
	}
}

// Gateway is the durable face of the session engine. Remote-tier failures
// are logged and absorbed; a caller only sees an error when every tier in
// the policy failed.
type Gateway struct {
	remote DocumentStore
	local  Cache
	policy TierPolicy
}

// NewGateway wires the two tiers under a policy. remote may be nil when the
// document store is not configured; the policy's remote entries are then
// skipped as failed.
func NewGateway(remote DocumentStore, local Cache, policy TierPolicy) *Gateway {
	return &Gateway{remote: remote, local: local, policy: policy}
}

var errRemoteUnconfigured = errors.New("store: remote tier not configured")

// SaveProfile writes the full profile record. The write lands on the first
// tier in the policy that accepts it.
func (g *Gateway) SaveProfile(ctx context.Context, p *profile.Profile) error {
	var lastErr error
	for _, tier := range g.policy.Profile {
		switch tier {
		case TierRemote:
			if g.remote == nil {
				lastErr = errRemoteUnconfigured
				continue
			}
			if err := g.remote.SetProfile(ctx, p); err != nil {
				log.Printf("[store] remote profile save failed for user=%s, falling back: %v", p.UID, err)
				lastErr = err
				continue
			}
			return nil
		case TierLocal:
			data, err := json.Marshal(p)
			if err != nil {
				lastErr = err
				continue
			}
			if err := g.local.Set(ctx, profileKey(p.UID), data); err != nil {
				lastErr = err
				continue
			}
			return nil
		}
	}
	return fmt.Errorf("save profile %s: all tiers failed: %w", p.UID, lastErr)
}

// LoadProfile returns the stored profile, or nil when no tier has a record.
// A tier that answers authoritatively (found or absent) ends the search;
// only a failing tier falls through to the next one.
func (g *Gateway) LoadProfile(ctx context.Context, uid string) (*profile.Profile, error) {
	var lastErr error
	for _, tier := range g.policy.Profile {
		switch tier {
		case TierRemote:
			if g.remote == nil {
				lastErr = errRemoteUnconfigured
				continue
			}
			p, err := g.remote.GetProfile(ctx, uid)
			if errors.Is(err, ErrNotFound) {
				return nil, nil
			}
			if err != nil {
				log.Printf("[store] remote profile load failed for user=%s, falling back: %v", uid, err)
				lastErr = err
				continue
			}
			return p, nil
		case TierLocal:
			data, err := g.local.Get(ctx, profileKey(uid))
			if errors.Is(err, ErrNotFound) {
				return nil, nil
			}
			if err != nil {
				lastErr = err
				continue
			}
			var p profile.Profile
			if err := json.Unmarshal(data, &p); err != nil {
				lastErr = err
				continue
			}
			return &p, nil
		}
	}
	return nil, fmt.Errorf("load profile %s: all tiers failed: %w", uid, lastErr)
}

// UpdateProfile merges partial fields into the stored record. When the write
// falls back to the local tier and no record exists there, the merge target
// is an empty record, so the result carries only the supplied fields.
func (g *Gateway) UpdateProfile(ctx context.Context, uid string, upd profile.Update) error {
	var lastErr error
	for _, tier := range g.policy.Profile {
		switch tier {
		case TierRemote:
			if g.remote == nil {
				lastErr = errRemoteUnconfigured
				continue
			}
			if err := g.remote.MergeProfile(ctx, uid, upd); err != nil {
				log.Printf("[store] remote profile update failed for user=%s, falling back: %v", uid, err)
				lastErr = err
				continue
			}
			return nil
		case TierLocal:
			current := profile.Profile{UID: uid}
			if data, err := g.local.Get(ctx, profileKey(uid)); err == nil {
				if err := json.Unmarshal(data, &current); err != nil {
					current = profile.Profile{UID: uid}
				}
			}
			upd.Apply(&current)
			data, err := json.Marshal(&current)
			if err != nil {
				lastErr = err
				continue
			}
			if err := g.local.Set(ctx, profileKey(uid), data); err != nil {
				lastErr = err
				continue
			}
			return nil
		}
	}
	return fmt.Errorf("update profile %s: all tiers failed: %w", uid, lastErr)
}

// SaveTranscript overwrites the stored transcript for uid. Replays of the
// same call leave the same stored state.
func (g *Gateway) SaveTranscript(ctx context.Context, uid string, messages []chat.Message) error {
	if messages == nil {
		messages = []chat.Message{}
	}
	data, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("encode transcript %s: %w", uid, err)
	}
	for _, tier := range g.policy.Transcript {
		if tier != TierLocal {
			// transcripts never touch the remote tier
			continue
		}
		if err := g.local.Set(ctx, transcriptKey(uid), data); err != nil {
			return fmt.Errorf("save transcript %s: %w", uid, err)
		}
		return nil
	}
	return nil
}

// LoadTranscript returns the stored transcript for uid, or an empty slice
// for an unknown user. Unreadable stored data is treated as absent.
func (g *Gateway) LoadTranscript(ctx context.Context, uid string) ([]chat.Message, error) {
	for _, tier := range g.policy.Transcript {
		if tier != TierLocal {
			continue
		}
		data, err := g.local.Get(ctx, transcriptKey(uid))
		if errors.Is(err, ErrNotFound) {
			return []chat.Message{}, nil
		}
		if err != nil {
			log.Printf("[store] transcript load failed for user=%s: %v", uid, err)
			return []chat.Message{}, nil
		}
		var messages []chat.Message
		if err := json.Unmarshal(data, &messages); err != nil {
			log.Printf("[store] transcript for user=%s is unreadable, starting fresh: %v", uid, err)
			return []chat.Message{}, nil
		}
		return messages, nil
	}
	return []chat.Message{}, nil
}
