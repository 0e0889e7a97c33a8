package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"google.golang.org/grpc/health"

	"feed-service/internal/application/identity"
	artifact_service "feed-service/internal/application/service/artifact"
	auth_service "feed-service/internal/application/service/auth"
	post_service "feed-service/internal/application/service/post"
	user_service "feed-service/internal/application/service/user"
	"feed-service/internal/domain/ports/output/cache"
	"feed-service/internal/infrastructure/config"
	delivery_graphql "feed-service/internal/infrastructure/inbound/graphql"
	delivery_grpc "feed-service/internal/infrastructure/inbound/grpc"
	delivery_http "feed-service/internal/infrastructure/inbound/http"
	metrics_server "feed-service/internal/infrastructure/inbound/metrics"
	"feed-service/internal/infrastructure/logger"
	"feed-service/internal/infrastructure/outbound/artifact/fs"
	"feed-service/internal/infrastructure/outbound/auth/bcrypt"
	"feed-service/internal/infrastructure/outbound/auth/jwt"
	redis_cache "feed-service/internal/infrastructure/outbound/cache/redis"
	prometheus_metrics "feed-service/internal/infrastructure/outbound/metrics/prometheus"
)

func main() {
	cfg := config.MustLoad()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	log := logger.New(cfg.Env)

	metrics := prometheus_metrics.NewPrometheusMetricsProvider()

	store, err := openStorage(ctx, cfg, log, metrics)
	if err != nil {
		log.Error("Failed to open storage", slog.String("driver", cfg.Storage.Driver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.close()

	probes := map[string]delivery_grpc.Probe{}
	if store.probe != nil {
		probes[cfg.Storage.Driver] = store.probe
	}

	var postCache cache.PostCache
	if cfg.Redis.Enabled {
		log.Info("Connecting to Redis",
			slog.String("address", cfg.Redis.Address),
			slog.Int("port", cfg.Redis.Port),
			slog.Int("db", cfg.Redis.DB))
		redisClient, err := redis_cache.NewClient(cfg.Redis, log)
		if err != nil {
			log.Error("Failed to create Redis client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", slog.String("error", err.Error()))
			}
		}()
		postCache = redis_cache.NewPostCache(redisClient, cfg.Redis.PostTTL, log)
		probes["redis"] = redisClient.Ping
	}

	imageStore, err := fs.NewStore(afero.NewOsFs(), cfg.Images.Dir, log)
	if err != nil {
		log.Error("Failed to prepare image directory", slog.String("dir", cfg.Images.Dir), slog.String("error", err.Error()))
		os.Exit(1)
	}
	lifecycle := artifact_service.NewLifecycle(imageStore, log, metrics)

	tokens := jwt.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	hasher := bcrypt.NewHasher(cfg.Auth.BcryptCost)
	gate := identity.NewGate(tokens, log)

	restPosts := post_service.NewPostService(store.posts, store.users, store.uow, lifecycle, imageStore, postCache, post_service.RESTPolicy(), log, metrics)
	graphqlPosts := post_service.NewPostService(store.posts, store.users, store.uow, lifecycle, imageStore, postCache, post_service.GraphQLPolicy(), log, metrics)
	authService := auth_service.NewAuthService(store.users, hasher, tokens, log, metrics)
	userService := user_service.NewUserService(store.users, log, metrics)

	graphqlHandler, err := delivery_graphql.NewHandler(delivery_graphql.NewResolver(graphqlPosts, authService, userService, log), log)
	if err != nil {
		log.Error("Failed to build GraphQL schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	httpServer := delivery_http.NewServer(cfg.HTTPServer, imageStore.Dir(), delivery_http.Handlers{
		Feed:    delivery_http.NewFeedHandler(restPosts, imageStore, lifecycle, cfg.Images.MaxUploadBytes, log),
		Auth:    delivery_http.NewAuthHandler(authService, log),
		Image:   delivery_http.NewImageHandler(imageStore, lifecycle, cfg.Images.MaxUploadBytes, log),
		GraphQL: graphqlHandler,
	}, gate, log, metrics)

	healthServer := health.NewServer()
	healthMonitor := delivery_grpc.NewHealthMonitor(healthServer, probes, 10*time.Second, log, metrics)
	grpcServer := delivery_grpc.NewServer(healthServer, cfg.GRPCServer.Address, cfg.GRPCServer.Port, log, metrics)

	metricsServer := metrics_server.NewMetricsServer(cfg.Prometheus.Address, cfg.Prometheus.Port, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	httpDone := make(chan bool, 1)
	grpcDone := make(chan bool, 1)
	metricsDone := make(chan bool, 1)

	go healthMonitor.Run(ctx)

	go func() {
		if err := httpServer.Run(); err != nil {
			log.Error("HTTP server error", slog.String("error", err.Error()))
		}
		httpDone <- true
	}()

	go func() {
		if err := grpcServer.Run(); err != nil {
			log.Error("gRPC server error", slog.String("error", err.Error()))
		}
		grpcDone <- true
	}()

	go func() {
		if err := metricsServer.Run(); err != nil {
			log.Error("Metrics server error", slog.String("error", err.Error()))
		}
		metricsDone <- true
	}()

	<-quit
	log.Info("Shutting down servers...")

	cancel()
	metrics.SetServiceHealth(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}

	if err := grpcServer.Shutdown(); err != nil {
		log.Error("gRPC server shutdown error", slog.String("error", err.Error()))
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Metrics server shutdown error", slog.String("error", err.Error()))
	}

	<-httpDone
	<-grpcDone
	<-metricsDone

	// Pending image deletions finish before the store is closed.
	lifecycle.Close()

	log.Info("Server exited")
}
