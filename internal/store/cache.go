package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apierr "github.com/campusplan/timetable-engine/pkg/errors"
)

// ProposalCache mirrors generated proposals into Redis so a second process
// instance can serve GET /timetables/{id}. Adapted from the teacher's
// CacheRepository; the in-process map in internal/handler remains
// authoritative and is always consulted first.
type ProposalCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewProposalCache constructs a ProposalCache. A nil client makes every
// operation a no-op, so callers can wire this unconditionally even when
// cfg.Redis.Host is empty.
func NewProposalCache(client *redis.Client, logger *zap.Logger) *ProposalCache {
	return &ProposalCache{client: client, logger: logger}
}

// Get retrieves and unmarshals the cached proposal into dest.
func (c *ProposalCache) Get(ctx context.Context, proposalID string, dest interface{}) error {
	if c.client == nil {
		return apierr.ErrCacheMiss
	}

	raw, err := c.client.Get(ctx, proposalKey(proposalID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return apierr.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", proposalID, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal cached proposal %s: %w", proposalID, err)
	}
	return nil
}

// Set marshals value and mirrors it into Redis with the given TTL.
func (c *ProposalCache) Set(ctx context.Context, proposalID string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal proposal %s: %w", proposalID, err)
	}

	if err := c.client.Set(ctx, proposalKey(proposalID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", proposalID, err)
	}
	return nil
}

// Close releases the underlying Redis connection if present.
func (c *ProposalCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func proposalKey(proposalID string) string {
	return "timetable-engine:proposal:" + proposalID
}
