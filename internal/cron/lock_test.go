package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryLockClient struct {
	values map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newMemoryLockClient() *memoryLockClient {
	return &memoryLockClient{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryLockClient) SetNX(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value.(string)
	m.ttls[key] = ttl
	return true, nil
}

func (m *memoryLockClient) Get(_ context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memoryLockClient) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *memoryLockClient) LockKey(name string) string { return "wahiba:test:lock:" + name }

func TestRedisLockExclusiveUntilReleased(t *testing.T) {
	client := newMemoryLockClient()
	first, err := NewRedisLock(client, "cron-worker", time.Minute)
	require.NoError(t, err)
	second, err := NewRedisLock(client, "cron-worker", time.Minute)
	require.NoError(t, err)

	assert.Equal(t, "wahiba:test:lock:cron-worker", first.Key())

	ok, err := first.Acquire(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Minute, client.ttls[first.Key()])

	ok, err = second.Acquire(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, second.Release(context.Background()))
	assert.Contains(t, client.values, first.Key(), "a non-holder must not release")

	require.NoError(t, first.Release(context.Background()))
	ok, err = second.Acquire(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLockLeavesForeignOwner(t *testing.T) {
	client := newMemoryLockClient()
	lock, err := NewRedisLock(client, "cron-worker", time.Minute)
	require.NoError(t, err)

	ok, err := lock.Acquire(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	// expired and re-taken elsewhere
	client.values[lock.Key()] = "another-replica"
	require.NoError(t, lock.Release(context.Background()))
	assert.Equal(t, "another-replica", client.values[lock.Key()])
}

func TestRedisLockReleaseErrors(t *testing.T) {
	client := newMemoryLockClient()
	lock, err := NewRedisLock(client, "cron-worker", time.Minute)
	require.NoError(t, err)
	require.NoError(t, lock.Release(context.Background()), "release without acquire is a no-op")

	_, err = lock.Acquire(context.Background())
	require.NoError(t, err)
	client.getErr = errors.New("connection reset")
	assert.Error(t, lock.Release(context.Background()))
}

func TestNewRedisLockValidates(t *testing.T) {
	_, err := NewRedisLock(nil, "x", time.Minute)
	assert.Error(t, err)
	_, err = NewRedisLock(newMemoryLockClient(), "", time.Minute)
	assert.Error(t, err)
	_, err = NewRedisLock(newMemoryLockClient(), "x", 0)
	assert.Error(t, err)
}
