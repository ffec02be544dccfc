package http

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"vidtube/internal/config"
	"vidtube/internal/database"
	"vidtube/internal/docstore"
	"vidtube/internal/handler"
	"vidtube/internal/logging"
	"vidtube/internal/queue"
	"vidtube/internal/redis"
	"vidtube/internal/repository"
	"vidtube/internal/repository/memstore"
	"vidtube/internal/service"
	"vidtube/internal/worker"
)

const (
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Run loads configuration, wires every dependency and serves HTTP until
// SIGINT or SIGTERM.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warnf("[Server] Close store: %v", err)
		}
	}()

	var publisher queue.Publisher
	var manager *worker.Manager
	if cfg.RedisURL != "" {
		rdb, err := redis.NewClient(ctx, cfg.RedisURL, connectTimeout)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer rdb.Close()
		publisher = queue.NewPublisher(rdb.Client)

		commentService := service.NewCommentService(store, nil)
		playlistService := service.NewPlaylistService(store, playlistConfig(cfg))
		mcfg := worker.DefaultManagerConfig()
		mcfg.WorkerCount = cfg.WorkerCount
		manager = worker.NewManager(queue.NewConsumer(rdb.Client),
			worker.NewHandler(commentService, playlistService), mcfg)
		if err := manager.Start(ctx); err != nil {
			return fmt.Errorf("failed to start workers: %w", err)
		}
		defer manager.Stop()
	} else {
		log.Info("[Server] REDIS_URL not set, activity events disabled")
	}

	router := NewRouter(RouterConfig{
		CommentHandler:  handler.NewCommentHandler(service.NewCommentService(store, publisher), cfg.MaxPageSize),
		PlaylistHandler: handler.NewPlaylistHandler(service.NewPlaylistService(store, playlistConfig(cfg)), cfg.MaxPageSize),
		JWTSecret:       cfg.JWTSecret,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	server := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("[Server] Listening on %s (store=%s)", server.Addr, cfg.StoreDriver)
		if err := server.ListenAndServe(); !errors.Is(err, stdhttp.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info("[Server] Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info("[Server] Stopped")
	return nil
}

func playlistConfig(cfg *config.Config) service.PlaylistServiceConfig {
	return service.PlaylistServiceConfig{EmptyMineNotFound: cfg.MyPlaylistsEmptyNotFound}
}

// openStore connects the backend selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config) (*repository.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return repository.NewPostgresStore(db), nil

	case config.DriverMongo:
		storage, err := docstore.New(ctx, cfg.MongoConnString(), cfg.MongoDBName, cfg.MongoTransactions)
		if err != nil {
			return nil, err
		}
		if err := storage.EnsureIndexes(ctx); err != nil {
			storage.Close(context.Background())
			return nil, err
		}
		return storage.Store(), nil

	case config.DriverMemory:
		log.Warn("[Server] Using in-memory store, data is lost on restart")
		return memstore.New().Store(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
