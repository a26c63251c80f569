package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/maxviazov/cricket-scoring-service/internal/commentary"
	"github.com/maxviazov/cricket-scoring-service/internal/config"
	"github.com/maxviazov/cricket-scoring-service/internal/handler"
	"github.com/maxviazov/cricket-scoring-service/internal/logger"
	"github.com/maxviazov/cricket-scoring-service/internal/model"
	"github.com/maxviazov/cricket-scoring-service/internal/publisher"
	"github.com/maxviazov/cricket-scoring-service/internal/repository"
	"github.com/maxviazov/cricket-scoring-service/internal/repository/memory"
	"github.com/maxviazov/cricket-scoring-service/internal/repository/postgres"
	"github.com/maxviazov/cricket-scoring-service/internal/service"
)

const shutdownTimeout = 10 * time.Second

// storage bundles whichever repository backend the config selected.
type storage struct {
	teams   repository.TeamRepository
	players repository.PlayerRepository
	matches repository.MatchRepository
	tx      repository.TxManager
	pinger  repository.Pinger
	close   func()
}

func main() {
	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}

	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}
	// handlers log through the global logger
	zlog.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("service stopped with error")
	}
	appLogger.Info().Msg("👋 Service stopped")
}

func configPath() string {
	if p := os.Getenv("APP_CONFIG"); p != "" {
		return p
	}
	return "config.yaml"
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	store, err := openStorage(ctx, cfg, &appLogger)
	if err != nil {
		return err
	}
	defer store.close()

	pub, closePub, err := openPublisher(ctx, cfg.Redis, appLogger)
	if err != nil {
		return err
	}
	defer closePub()

	var comm service.Commentator = commentary.Nop{}
	if cfg.Commentary.Enabled {
		comm = commentary.New(cfg.Commentary, appLogger)
		appLogger.Info().Str("url", cfg.Commentary.URL).Msg("commentary enabled")
	}

	teamSvc := service.NewTeamService(store.teams, store.players, appLogger)
	playerSvc := service.NewPlayerService(store.players, store.teams, store.matches, store.tx, appLogger)
	matchSvc := service.NewMatchService(
		store.matches, store.players, store.teams, store.tx,
		pub, comm, model.WicketPolicy(cfg.Scoring.WicketPolicy), appLogger,
	)

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestLogger(appLogger), cors.New(corsConfig(cfg.CORS)))
	handler.Register(r, store.pinger, teamSvc, playerSvc, matchSvc)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info().Int("port", cfg.App.Port).Str("storage", cfg.Storage.Driver).Msg("🚀 Service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		appLogger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func openStorage(ctx context.Context, cfg *config.Config, appLogger *zerolog.Logger) (storage, error) {
	if cfg.Storage.Driver == "memory" {
		s := memory.NewStore()
		appLogger.Warn().Msg("using in-memory storage; data is lost on restart")
		return storage{
			teams:   memory.NewTeamRepository(s),
			players: memory.NewPlayerRepository(s),
			matches: memory.NewMatchRepository(s),
			tx:      memory.NewTxManager(s),
			pinger:  memory.NewPinger(),
			close:   func() {},
		}, nil
	}

	db, err := repository.New(ctx, cfg, appLogger)
	if err != nil {
		return storage{}, fmt.Errorf("postgres: %w", err)
	}
	pool := db.Pool()
	return storage{
		teams:   postgres.NewTeamRepository(pool),
		players: postgres.NewPlayerRepository(pool),
		matches: postgres.NewMatchRepository(pool),
		tx:      postgres.NewTxManager(pool),
		pinger:  postgres.NewPinger(pool),
		close:   db.Close,
	}, nil
}

func openPublisher(ctx context.Context, cfg config.RedisConfig, appLogger zerolog.Logger) (service.Publisher, func(), error) {
	if !cfg.Enabled {
		return service.NopPublisher{}, func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	appLogger.Info().Str("addr", cfg.Addr).Str("prefix", cfg.StreamPrefix).Msg("✅ Redis connected")
	closeFn := func() {
		if err := client.Close(); err != nil {
			appLogger.Warn().Err(err).Msg("redis close")
		}
	}
	return publisher.NewStreamPublisher(client, cfg.StreamPrefix), closeFn, nil
}

func corsConfig(c config.CORSConfig) cors.Config {
	cc := cors.DefaultConfig()
	cc.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions}
	if len(c.AllowedOrigins) == 0 {
		cc.AllowAllOrigins = true
		return cc
	}
	cc.AllowOrigins = c.AllowedOrigins
	return cc
}
