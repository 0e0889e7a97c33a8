//go:build integration

package mongo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"feed-service/internal/infrastructure/config"
	"feed-service/internal/infrastructure/logger"
	"feed-service/internal/infrastructure/outbound/metrics/prometheus"
	"feed-service/internal/infrastructure/outbound/repository/contract"
	"feed-service/internal/infrastructure/outbound/repository/mongo"
	post_repository_mongo "feed-service/internal/infrastructure/outbound/repository/post/mongo"
	user_repository_mongo "feed-service/internal/infrastructure/outbound/repository/user/mongo"
)

func TestMongoStores(t *testing.T) {
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7", mongodb.WithReplicaSet("rs0"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	log := logger.New("test")
	client, err := mongo.Connect(ctx, config.Mongo{URI: uri, Timeout: 30 * time.Second}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	metrics := prometheus.NewPrometheusMetricsProvider()

	for _, transactions := range []bool{true, false} {
		t.Run(fmt.Sprintf("transactions=%t", transactions), func(t *testing.T) {
			run := 0
			contract.Run(t, func(t *testing.T) contract.Stores {
				run++
				db := client.Database(fmt.Sprintf("feed_%t_%d", transactions, run))
				require.NoError(t, mongo.EnsureIndexes(ctx, db))

				return contract.Stores{
					Posts:         post_repository_mongo.NewPostRepository(db.Collection(mongo.PostsCollection), nil, log, metrics),
					Users:         user_repository_mongo.NewUserRepository(db.Collection(mongo.UsersCollection), nil, log, metrics),
					UOW:           mongo.NewMongoUOW(client, db, transactions, log, metrics),
					Transactional: transactions,
				}
			})
		})
	}
}
