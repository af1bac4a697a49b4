package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"coursehub/backend/internal/cache"
	"coursehub/backend/internal/forum"
	"coursehub/backend/internal/graph"
	"coursehub/backend/internal/httpapi"
	"coursehub/backend/internal/recommend"
	"coursehub/backend/pkg/config"
	"coursehub/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting HTTP API server...", zap.String("env", cfg.Env))

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancelStartup()

	// Cassandra: keyspace and tables are provisioned before the session is handed out
	session, err := forum.Connect(startupCtx, cfg)
	if err != nil {
		log.Fatal("Failed to connect to Cassandra", zap.Error(err))
	}
	writeCL, _ := cfg.WriteConsistency()
	readCL, _ := cfg.ReadConsistency()
	forumStore := forum.NewStore(session, forum.Options{WriteConsistency: writeCL, ReadConsistency: readCL})
	defer forumStore.Close()

	// Neo4j
	driver, err := graph.NewDriver(startupCtx, cfg)
	if err != nil {
		log.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}
	graphRepo := graph.NewRepository(driver, cfg.Neo4jDatabase)
	defer graphRepo.Close(context.Background())

	if err := graphRepo.EnsureConstraints(startupCtx); err != nil {
		log.Fatal("Failed to create graph constraints", zap.Error(err))
	}

	// Recommendation engine, with the Redis cache when configured
	var engineOpts []recommend.Option
	if cfg.CacheEnabled() {
		redisCache, err := cache.New(startupCtx, cfg.RedisAddr, cfg.RecommendCacheTTL)
		if err != nil {
			log.Warn("Recommendation cache disabled", zap.Error(err))
		} else {
			defer redisCache.Close()
			engineOpts = append(engineOpts, recommend.WithCache(redisCache))
			log.Info("Recommendation cache enabled", zap.Duration("ttl", cfg.RecommendCacheTTL))
		}
	}
	engine := recommend.NewEngine(graphRepo, engineOpts...)

	router := httpapi.NewRouter(forumStore, graphRepo, engine, log, httpapi.Options{
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		Production:     cfg.IsProduction(),
	})

	// Start server
	srv := newHTTPServer(cfg, router)

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		// Handlers are already bounded by the request timeout
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	}
}
