package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dharti-automation/dharti-web/internal/content/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return client, mr
}

func TestRedisCacheRepository_SetGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewRedisCacheRepository(client)
	ctx := context.Background()

	var missing []domain.Project
	err := repo.Get(ctx, "clients", &missing)
	assert.True(t, IsMiss(err))

	projects := []domain.Project{{ID: "p1", ClientName: "Acme", Rating: 4}}
	require.NoError(t, repo.Set(ctx, "clients", projects, time.Minute))
	assert.True(t, mr.Exists("content:clients"))

	var got []domain.Project
	require.NoError(t, repo.Get(ctx, "clients", &got))
	assert.Equal(t, projects, got)

	mr.FastForward(2 * time.Minute)
	err = repo.Get(ctx, "clients", &got)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCacheRepository_ClearOnlyContentKeys(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewRedisCacheRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "clients", []string{"a"}, time.Minute))
	require.NoError(t, repo.Set(ctx, "clients/p1", map[string]string{"id": "p1"}, time.Minute))
	require.NoError(t, mr.Set("unrelated", "keep"))

	removed, err := repo.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.False(t, mr.Exists("content:clients"))
	assert.True(t, mr.Exists("unrelated"))
}

func TestMemoryCacheRepository_Expiry(t *testing.T) {
	repo := NewMemoryCacheRepository()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "services", []domain.Service{{ID: "s1"}}, time.Minute))

	var got []domain.Service
	require.NoError(t, repo.Get(ctx, "services", &got))
	require.Len(t, got, 1)

	now = now.Add(time.Minute)
	assert.ErrorIs(t, repo.Get(ctx, "services", &got), domain.ErrCacheMiss)

	require.NoError(t, repo.Set(ctx, "a", 1, 0))
	require.NoError(t, repo.Set(ctx, "b", 2, 0))
	n, err := repo.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
