package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"lookbook/internal/domain"
)

const (
	keyPrefix = "lookbook:session:"
	// DefaultTTL is how long an untouched session survives in the store.
	DefaultTTL = 7 * 24 * time.Hour
)

// Store persists session state.
type Store interface {
	Load(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, st *State) error
	Delete(ctx context.Context, id string) error
}

// RedisStore keeps each session as a JSON document with a sliding TTL.
type RedisStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisStore wraps a go-redis client. A non-positive ttl uses DefaultTTL.
func NewRedisStore(rdb redis.Cmdable, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func key(id string) string { return keyPrefix + id }

// Load fetches a session. A missing key maps to domain.ErrNotFound.
func (s *RedisStore) Load(ctx context.Context, id string) (*State, error) {
	raw, err := s.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: load %s: %w", id, err)
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", id, err)
	}
	return &st, nil
}

// Save writes the session and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, st *State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("session: encode %s: %w", st.ID, err)
	}
	if err := s.rdb.Set(ctx, key(st.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: save %s: %w", st.ID, err)
	}
	return nil
}

// Delete removes a session.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("session: delete %s: %w", id, err)
	}
	return nil
}

// MemoryStore is a process-local Store used when Redis is not configured.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (m *MemoryStore) Load(ctx context.Context, id string) (*State, error) {
	m.mu.RLock()
	raw, ok := m.docs[id]
	m.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", id, err)
	}
	return &st, nil
}

func (m *MemoryStore) Save(ctx context.Context, st *State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("session: encode %s: %w", st.ID, err)
	}
	m.mu.Lock()
	m.docs[st.ID] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.docs, id)
	m.mu.Unlock()
	return nil
}
