package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"monollogs/internal/redis"
)

type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"

	keyPrefix  = "console:report:"
	defaultTTL = time.Hour
)

// NewStore creates an archive store of the given type. The redis store
// requires WithRedisClient.
func NewStore(kind StoreType, opts ...StoreOption) (Store, error) {
	cfg := &storeConfig{ttl: defaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.ttl <= 0 {
		cfg.ttl = defaultTTL
	}

	switch kind {
	case StoreTypeMemory:
		return &memoryStore{
			entries: make(map[string]memoryEntry),
			ttl:     cfg.ttl,
			now:     cfg.now,
		}, nil
	case StoreTypeRedis:
		if cfg.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		return &redisStore{client: cfg.redisClient, ttl: cfg.ttl}, nil
	default:
		return nil, ErrInvalidStoreType
	}
}

type memoryEntry struct {
	report    Report
	expiresAt time.Time
}

// memoryStore drops expired entries lazily: Get ignores them and Save
// prunes them, so the map only holds reports younger than ttl.
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func (s *memoryStore) Save(_ context.Context, r Report) error {
	if r.ID == "" {
		return ErrInvalidConfig
	}
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
		}
	}
	s.entries[r.ID] = memoryEntry{report: r, expiresAt: now.Add(s.ttl)}
	return nil
}

func (s *memoryStore) Get(_ context.Context, id string) (Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok || !s.now().Before(e.expiresAt) {
		return Report{}, ErrNotFound
	}
	r := e.report
	r.ExpiresAt = e.expiresAt
	return r, nil
}

func (s *memoryStore) Close() error { return nil }

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func (s *redisStore) Save(ctx context.Context, r Report) error {
	if r.ID == "" {
		return ErrInvalidConfig
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+r.ID, data, s.ttl); err != nil {
		return fmt.Errorf("save report %s: %w", r.ID, err)
	}
	return nil
}

func (s *redisStore) Get(ctx context.Context, id string) (Report, error) {
	raw, err := s.client.Get(ctx, keyPrefix+id)
	if errors.Is(err, redis.ErrCacheMiss) {
		return Report{}, ErrNotFound
	}
	if err != nil {
		return Report{}, fmt.Errorf("load report %s: %w", id, err)
	}
	var r Report
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return Report{}, fmt.Errorf("decode report %s: %w", id, err)
	}
	ttl, err := s.client.TTL(ctx, keyPrefix+id)
	if err != nil {
		return Report{}, fmt.Errorf("ttl of report %s: %w", id, err)
	}
	if ttl > 0 {
		r.ExpiresAt = time.Now().Add(ttl)
	}
	return r, nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
