package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/macrograph/pkg/adapters/redis"
	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/aretw0/macrograph/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunRunStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	rec := domain.RunRecord{ID: "run-ttl", StartedAt: time.Now(), Status: domain.StatusStopped}

	// 1. Save
	require.NoError(t, store.Save(ctx, rec))

	// 2. Verify List (immediately)
	runs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	// 3. Fast Forward time in miniredis (for Key Expiration)
	mr.FastForward(2 * time.Second)

	// 4. Verify Load (should fail)
	_, err = store.Load(ctx, "run-ttl")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	// 5. List drops the stale index entry
	runs, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	members, err := client.ZCard(ctx, "macrograph:run:index").Result()
	require.NoError(t, err)
	assert.Zero(t, members)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.RunRecord{ID: "my-run", StartedAt: time.Now()}))

	assert.True(t, mr.Exists("custom:app:my-run"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := redis.New("not a url")
	assert.Error(t, err)
}
