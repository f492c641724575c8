package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/salusbr/admincore/pkg/panels"
	"github.com/salusbr/admincore/pkg/permissions"
)

// DefaultStoreKey is the well-known key the serialized session snapshot
// lives under.
const DefaultStoreKey = "admincore:sessao"

// Snapshot is the durable copy of the session: the user, the canonical
// permission set and the resolved panels, written on every session change
// and read back on process start or as an offline fallback when the live
// permission fetch fails.
type Snapshot struct {
	Usuario    *User                `json:"usuario,omitempty"`
	Permissoes []permissions.Record `json:"permissoes,omitempty"`
	Paineis    panels.List          `json:"paineis,omitempty"`
	SalvoEm    time.Time            `json:"salvoEm"`
}

// Store persists the session snapshot. Load returns (nil, nil) when no
// snapshot exists.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
	Clear(ctx context.Context) error
}

// redisStore keeps the snapshot in redis under a single key.
type redisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisStore creates a redis-backed Store. An empty key falls back to
// DefaultStoreKey; ttl <= 0 keeps the snapshot until logout.
func NewRedisStore(client *redis.Client, key string, ttl time.Duration) Store {
	if key == "" {
		key = DefaultStoreKey
	}
	return &redisStore{client: client, key: key, ttl: ttl}
}

func (s *redisStore) Load(ctx context.Context) (*Snapshot, error) {
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		// a corrupt snapshot is treated as absent, not fatal
		return nil, nil
	}
	return &snap, nil
}

func (s *redisStore) Save(ctx context.Context, snap *Snapshot) error {
	if snap == nil {
		return s.Clear(ctx)
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, payload, s.ttl).Err()
}

func (s *redisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

// memoryStore is an in-process Store for tests and single-binary setups.
type memoryStore struct {
	mu   sync.Mutex
	snap *Snapshot
}

// NewMemoryStore creates an in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (s *memoryStore) Load(context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return nil, nil
	}
	copied := *s.snap
	return &copied, nil
}

func (s *memoryStore) Save(_ context.Context, snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap == nil {
		s.snap = nil
		return nil
	}
	copied := *snap
	s.snap = &copied
	return nil
}

func (s *memoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = nil
	return nil
}
