// Package transactionStream implements the polling loop that walks the ledger
// transaction stream in state version order, with exponential backoff when the
// gateway pushes back and a durable cursor so restarts resume where they left
// off.
package transactionStream

import (
	"context"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const cursorKey = "incentives:streamCursor"

// CursorStore persists the last fully processed state version. Get returns 0
// when no cursor has been written yet.
type CursorStore interface {
	Get(ctx context.Context) (uint64, error)
	Set(ctx context.Context, version uint64) error
}

type RedisCursorStore struct {
	client *redis.Client
}

func NewRedisCursorStore(client *redis.Client) *RedisCursorStore {
	return &RedisCursorStore{client: client}
}

func (s *RedisCursorStore) Get(ctx context.Context) (uint64, error) {
	val, err := s.client.Get(ctx, cursorKey).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "failed to read stream cursor")
	}
	version, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "stream cursor '%s' is not a number", val)
	}
	return version, nil
}

func (s *RedisCursorStore) Set(ctx context.Context, version uint64) error {
	if err := s.client.Set(ctx, cursorKey, strconv.FormatUint(version, 10), 0).Err(); err != nil {
		return errors.Wrap(err, "failed to persist stream cursor")
	}
	return nil
}

// InMemoryCursorStore is a CursorStore for tests.
type InMemoryCursorStore struct {
	mu      sync.Mutex
	version uint64
}

func NewInMemoryCursorStore() *InMemoryCursorStore {
	return &InMemoryCursorStore{}
}

func (s *InMemoryCursorStore) Get(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version, nil
}

func (s *InMemoryCursorStore) Set(ctx context.Context, version uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version = version
	return nil
}
