package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"jeopardy/internal/app"
	"jeopardy/internal/config"
	"jeopardy/internal/content"
	"jeopardy/internal/notify"
	httpTransport "jeopardy/internal/transport/http"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := config.NewLogger(cfg.Logging)
	logger.Info().
		Str("env", cfg.Server.Env).
		Str("port", cfg.Server.Port).
		Msg("starting jeopardy game server")

	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("server error")
		os.Exit(1)
	}

	logger.Info().Msg("server stopped")
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, closeCache := newContentProvider(cfg, logger)
	defer closeCache()

	results, closeResults, err := newResultsPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closeResults()

	clock := clockwork.NewRealClock()
	hub := app.NewGameHub(app.HubConfig{
		RoomCodeLength: cfg.Game.RoomCodeLength,
		GameTTL:        cfg.Game.TTL,
		SweepInterval:  cfg.Game.SweepInterval,
		CountdownTicks: cfg.Game.CountdownTicks,
	}, app.HubDeps{
		Provider:    provider,
		Broadcaster: app.NewRoomBroadcaster(logger),
		Scheduler:   app.NewClockScheduler(clock, app.CountdownInterval),
		Results:     results,
		Clock:       clock,
		Logger:      logger,
	})

	server := httpTransport.NewServer(cfg, hub, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.Run(gctx)
	})
	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server...")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newContentProvider loads the board library and wraps it with the Redis
// cache when one is reachable
func newContentProvider(cfg *config.Config, logger zerolog.Logger) (app.ContentProvider, func()) {
	library := content.NewLibrary(logger)
	if cfg.Content.BoardDir != "" {
		n, err := library.LoadDir(cfg.Content.BoardDir)
		if err != nil {
			logger.Warn().Err(err).Str("dir", cfg.Content.BoardDir).Msg("failed to load board directory")
		} else {
			logger.Info().Int("boards", n).Strs("topics", library.Topics()).Msg("boards loaded")
		}
	}

	rdb := content.NewRedisClient(content.RedisOptions{
		Addr:     cfg.Content.RedisAddr,
		Password: cfg.Content.RedisPassword,
		DB:       cfg.Content.RedisDB,
	})
	if rdb == nil {
		if cfg.Content.RedisAddr != "" {
			logger.Warn().Str("addr", cfg.Content.RedisAddr).Msg("redis unavailable, board cache disabled")
		}
		return content.NewCachedProvider(library, nil, logger), func() {}
	}

	logger.Info().Str("addr", cfg.Content.RedisAddr).Msg("board cache enabled")
	cache := content.NewRedisCache(rdb, cfg.Content.CacheTTL)
	return content.NewCachedProvider(library, cache, logger), func() { _ = rdb.Close() }
}

// newResultsPublisher picks the broker finished games are announced on
func newResultsPublisher(cfg *config.Config, logger zerolog.Logger) (app.ResultsPublisher, func(), error) {
	switch cfg.Results.Broker {
	case "nats":
		pub, err := notify.NewNATSPublisher(notify.NATSConfig{
			URL:           cfg.Results.NATSURL,
			Subject:       cfg.Results.NATSSubject,
			MaxReconnects: -1,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return pub, func() { _ = pub.Close() }, nil
	case "amqp":
		return notify.NewAMQPPublisher(notify.AMQPConfig{
			URL:   cfg.Results.AMQPURL,
			Queue: cfg.Results.AMQPQueue,
		}, logger), func() {}, nil
	default:
		return notify.NewLogPublisher(logger), func() {}, nil
	}
}
