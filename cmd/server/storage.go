package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	ports "feed-service/internal/domain/ports/output"
	post_repository "feed-service/internal/domain/ports/output/post"
	user_repository "feed-service/internal/domain/ports/output/user"
	"feed-service/internal/infrastructure/config"
	delivery_grpc "feed-service/internal/infrastructure/inbound/grpc"
	"feed-service/internal/infrastructure/logger"
	"feed-service/internal/infrastructure/outbound/repository/memory"
	"feed-service/internal/infrastructure/outbound/repository/mongo"
	post_memory "feed-service/internal/infrastructure/outbound/repository/post/memory"
	post_repository_mongo "feed-service/internal/infrastructure/outbound/repository/post/mongo"
	post_repository_postgres "feed-service/internal/infrastructure/outbound/repository/post/postgres"
	"feed-service/internal/infrastructure/outbound/repository/postgres"
	user_memory "feed-service/internal/infrastructure/outbound/repository/user/memory"
	user_repository_mongo "feed-service/internal/infrastructure/outbound/repository/user/mongo"
	user_repository_postgres "feed-service/internal/infrastructure/outbound/repository/user/postgres"
)

type storage struct {
	posts post_repository.Repository
	users user_repository.Repository
	uow   ports.UnitOfWork
	probe delivery_grpc.Probe
	close func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger, metrics ports.MetricsProvider) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageMongo:
		return openMongo(ctx, cfg.Mongo, log, metrics)
	case config.StoragePostgres:
		return openPostgres(ctx, cfg.Database, log, metrics)
	case config.StorageMemory:
		posts := post_memory.NewPostRepository(log)
		users := user_memory.NewUserRepository(log)
		return &storage{
			posts: posts,
			users: users,
			uow:   memory.NewUnitOfWork(posts, users),
			close: func() {},
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func openMongo(ctx context.Context, cfg config.Mongo, log *logger.Logger, metrics ports.MetricsProvider) (*storage, error) {
	client, err := mongo.Connect(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.Database)
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &storage{
		posts: post_repository_mongo.NewPostRepository(db.Collection(mongo.PostsCollection), nil, log, metrics),
		users: user_repository_mongo.NewUserRepository(db.Collection(mongo.UsersCollection), nil, log, metrics),
		uow:   mongo.NewMongoUOW(client, db, cfg.Transactions, log, metrics),
		probe: func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close: func() { _ = client.Disconnect(context.Background()) },
	}, nil
}

func openPostgres(ctx context.Context, cfg config.Database, log *logger.Logger, metrics ports.MetricsProvider) (*storage, error) {
	dsn := postgres.DSN(cfg)
	if err := postgres.Migrate(dsn, cfg.MigrationsPath, log); err != nil {
		return nil, err
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	return &storage{
		posts: post_repository_postgres.NewPostRepository(pool, log, metrics),
		users: user_repository_postgres.NewUserRepository(pool, log, metrics),
		uow:   postgres.NewPostgresUOW(pool, log, metrics),
		probe: pool.Ping,
		close: pool.Close,
	}, nil
}
