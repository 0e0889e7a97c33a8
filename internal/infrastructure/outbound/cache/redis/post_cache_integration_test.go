//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	"feed-service/internal/infrastructure/logger"
	"feed-service/internal/infrastructure/outbound/cache/redis"
)

func TestPostCache_Redis(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	log := logger.New("test")
	rdb := goredis.NewClient(&goredis.Options{Addr: endpoint})
	client := redis.NewClientFromRedis(rdb, log)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx))

	cache := redis.NewPostCache(client, time.Minute, log)
	post := &model.PostDetailed{
		Post:    &model.Post{ID: "p1", Title: "Cached title", Content: "Cached content", ImageURL: "images/a.png", CreatorID: "u1"},
		Creator: &model.Creator{ID: "u1", Name: "Alice"},
	}

	_, err = cache.GetPost(ctx, "p1")
	assert.ErrorIs(t, err, custom_errors.ErrCacheMiss)

	require.NoError(t, cache.SetPost(ctx, post))
	got, err := cache.GetPost(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, post.Post.Title, got.Post.Title)
	assert.Equal(t, post.Creator, got.Creator)

	require.NoError(t, cache.DeletePost(ctx, "p1"))
	_, err = cache.GetPost(ctx, "p1")
	assert.ErrorIs(t, err, custom_errors.ErrCacheMiss)

	// A fill from a read that started before the invalidation is dropped.
	require.NoError(t, cache.SetPost(ctx, post))
	_, err = cache.GetPost(ctx, "p1")
	assert.ErrorIs(t, err, custom_errors.ErrCacheMiss)

	ttl, err := rdb.TTL(ctx, "post:p1").Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, 10*time.Second)
	assert.Positive(t, ttl)
}
