package recent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	defaultMaxEntries = 10
	defaultTTL        = 30 * 24 * time.Hour
)

type listStore interface {
	Key(parts ...string) string
	LPush(ctx context.Context, key string, values ...string) error
	LRem(ctx context.Context, key, value string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	LTrim(ctx context.Context, key string, start, stop int64) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// Store keeps a per-actor list of recently viewed projects in redis, most
// recent first, deduplicated, capped at maxEntries.
type Store struct {
	redis      listStore
	maxEntries int
	ttl        time.Duration
}

// NewStore builds a recently-viewed store on the shared redis client.
// Non-positive sizing falls back to defaults.
func NewStore(redis listStore, maxEntries int, ttl time.Duration) (*Store, error) {
	if redis == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{redis: redis, maxEntries: maxEntries, ttl: ttl}, nil
}

func (s *Store) key(actorID string) string {
	return s.redis.Key("recent", "projects", actorID)
}

// Record moves a project to the front of the actor's list. Failures here
// never block the view that triggered them, so callers log and move on.
func (s *Store) Record(ctx context.Context, actorID string, projectID uuid.UUID) error {
	if actorID == "" {
		return nil
	}
	key := s.key(actorID)
	value := projectID.String()

	if err := s.redis.LRem(ctx, key, value); err != nil {
		return err
	}
	if err := s.redis.LPush(ctx, key, value); err != nil {
		return err
	}
	if err := s.redis.LTrim(ctx, key, 0, int64(s.maxEntries)-1); err != nil {
		return err
	}
	return s.redis.Expire(ctx, key, s.ttl)
}

// List returns the actor's recently viewed project ids, most recent first.
// Entries that no longer parse as UUIDs are skipped.
func (s *Store) List(ctx context.Context, actorID string) ([]uuid.UUID, error) {
	if actorID == "" {
		return nil, nil
	}
	values, err := s.redis.LRange(ctx, s.key(actorID), 0, int64(s.maxEntries)-1)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(values))
	for _, value := range values {
		id, err := uuid.Parse(value)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
