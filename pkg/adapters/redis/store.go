// Package redis provides the Redis-backed conversation store and the
// distributed locker used by multi-instance deployments.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	backend "github.com/redis/go-redis/v9"

	"github.com/refinehq/refine/pkg/domain"
)

// Store implements ports.ConversationStore on Redis. Each thread is a
// list of JSON snapshots with the newest at the head, so range reads
// come back most recent first without sorting.
type Store struct {
	client *backend.Client
	prefix string
}

// NewStore creates a Redis-backed store. The prefix namespaces all keys.
func NewStore(client *backend.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) threadKey(threadID string) string {
	return s.prefix + "thread:" + threadID
}

func (s *Store) indexKey() string {
	return s.prefix + "threads"
}

// Save appends a snapshot to the thread's history.
func (s *Store) Save(ctx context.Context, threadID string, snap *domain.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("redis: encode snapshot: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, s.threadKey(threadID), raw)
	pipe.SAdd(ctx, s.indexKey(), threadID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: save snapshot: %w", err)
	}
	return nil
}

// History returns up to limit snapshots, most recent first.
func (s *Store) History(ctx context.Context, threadID string, limit int) ([]*domain.Snapshot, error) {
	stop := int64(limit - 1)
	if limit <= 0 {
		stop = -1
	}
	raws, err := s.client.LRange(ctx, s.threadKey(threadID), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: read history: %w", err)
	}
	if len(raws) == 0 {
		return nil, domain.ErrThreadNotFound
	}
	out := make([]*domain.Snapshot, 0, len(raws))
	for _, raw := range raws {
		var snap domain.Snapshot
		if err := json.Unmarshal([]byte(raw), &snap); err != nil {
			return nil, fmt.Errorf("redis: decode snapshot: %w", err)
		}
		out = append(out, &snap)
	}
	return out, nil
}

// Clear removes all snapshots for the thread.
func (s *Store) Clear(ctx context.Context, threadID string) error {
	removed, err := s.client.Del(ctx, s.threadKey(threadID)).Result()
	if err != nil {
		return fmt.Errorf("redis: clear thread: %w", err)
	}
	if err := s.client.SRem(ctx, s.indexKey(), threadID).Err(); err != nil {
		return fmt.Errorf("redis: clear thread index: %w", err)
	}
	if removed == 0 {
		return domain.ErrThreadNotFound
	}
	return nil
}

// List returns the known thread IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list threads: %w", err)
	}
	return ids, nil
}
