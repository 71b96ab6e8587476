package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/macrograph/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "macrograph:run:"

// Store implements ports.RunStore on Redis.
// Records are JSON strings under prefix+runID; prefix+"index" is a sorted set scored by start time.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the Store.
type Option func(*Store)

// WithTTL expires records after ttl. Index entries of expired records are removed lazily by List.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix (default "macrograph:run:").
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New connects to the Redis server at url (redis://host:port/db).
func New(url string, opts ...Option) (*Store, error) {
	o, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewFromClient(backend.NewClient(o), opts...), nil
}

// NewFromClient wraps an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{client: client, prefix: defaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Client returns the underlying client, so a Locker can share it.
func (s *Store) Client() *backend.Client { return s.client }

func (s *Store) key(runID string) string { return s.prefix + runID }
func (s *Store) index() string           { return s.prefix + "index" }

// Save persists (or replaces) rec.
func (s *Store) Save(ctx context.Context, rec domain.RunRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode run record: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(rec.ID), data, s.ttl)
	pipe.ZAdd(ctx, s.index(), backend.Z{Score: float64(rec.StartedAt.UnixNano()), Member: rec.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}
	return nil
}

// Load retrieves a record by run ID.
func (s *Store) Load(ctx context.Context, runID string) (domain.RunRecord, error) {
	data, err := s.client.Get(ctx, s.key(runID)).Bytes()
	if errors.Is(err, backend.Nil) {
		return domain.RunRecord{}, domain.ErrRunNotFound
	}
	if err != nil {
		return domain.RunRecord{}, fmt.Errorf("failed to load run record: %w", err)
	}

	var rec domain.RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.RunRecord{}, fmt.Errorf("failed to decode run record: %w", err)
	}
	return rec, nil
}

// List returns the stored records, most recent first.
func (s *Store) List(ctx context.Context) ([]domain.RunRecord, error) {
	ids, err := s.client.ZRevRange(ctx, s.index(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	if len(ids) == 0 {
		return []domain.RunRecord{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	out := make([]domain.RunRecord, 0, len(ids))
	var expired []any
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		var rec domain.RunRecord
		if err := json.Unmarshal([]byte(str), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode run record %s: %w", ids[i], err)
		}
		out = append(out, rec)
	}

	if len(expired) > 0 {
		if err := s.client.ZRem(ctx, s.index(), expired...).Err(); err != nil {
			return nil, fmt.Errorf("failed to clean run index: %w", err)
		}
	}
	return out, nil
}
