package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/wahiba-atelier/atelier-backend/pkg/errors"
)

const snapshotVersion = 1

// Store persists the serialized line list of a session.
type Store interface {
	// Read returns nil lines when the session has no slot.
	Read(ctx context.Context, session string) ([]Line, error)
	Write(ctx context.Context, session string, items []Line) error
}

type slotClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CartKey(storeName, session string) string
}

// snapshot is the stored value of a cart slot.
type snapshot struct {
	Items   []Line `json:"items"`
	Version int    `json:"version"`
}

// RedisStore keeps each cart under <namespace>:<storeName>:<session>. Every
// write refreshes the TTL so active carts do not expire.
type RedisStore struct {
	client    slotClient
	storeName string
	ttl       time.Duration
}

// NewRedisStore builds a Store on top of the shared redis client.
func NewRedisStore(client slotClient, storeName string, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if storeName == "" {
		return nil, fmt.Errorf("cart store name required")
	}
	return &RedisStore{client: client, storeName: storeName, ttl: ttl}, nil
}

func (s *RedisStore) Read(ctx context.Context, session string) ([]Line, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(s.storeName, session))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read cart")
	}
	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart")
	}
	return snap.Items, nil
}

func (s *RedisStore) Write(ctx context.Context, session string, items []Line) error {
	if items == nil {
		items = []Line{}
	}
	payload, err := json.Marshal(snapshot{Items: items, Version: snapshotVersion})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.client.Set(ctx, s.client.CartKey(s.storeName, session), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write cart")
	}
	return nil
}
