package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/sweatbook/sweatbook/adapters/catalog"
	"github.com/sweatbook/sweatbook/adapters/events"
	"github.com/sweatbook/sweatbook/adapters/provider"
	"github.com/sweatbook/sweatbook/adapters/store"
	"github.com/sweatbook/sweatbook/adapters/tokenizer"
	"github.com/sweatbook/sweatbook/config"
	"github.com/sweatbook/sweatbook/service"
	transport "github.com/sweatbook/sweatbook/transport/http"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Error("failed to parse Redis URL", "error", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(opts)

	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{Client: redisClient},
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		logger.Error("failed to create event publisher", "error", err)
		os.Exit(1)
	}

	// Identity provider discovery happens once here; failing to reach the
	// issuer at startup is fatal, not a per-request condition.
	idp, err := provider.New(ctx, provider.Config{
		IssuerURL:    cfg.IssuerURL,
		ClientID:     cfg.OAuthClientID,
		ClientSecret: cfg.OAuthClientSecret,
		RedirectURL:  cfg.OAuthRedirectURL,
	})
	if err != nil {
		logger.Error("failed to configure identity provider", "error", err)
		os.Exit(1)
	}

	codec := tokenizer.NewJWTCodec(cfg.ServiceKey, cfg.ProjectID)
	revocations := store.NewRedisStore(redisClient)
	eventPub := events.NewWatermillPublisher(publisher)

	authService := service.NewAuthService(idp, codec, revocations, eventPub, logger, cfg.SessionTTL)
	bookingService := service.NewBookingService()
	eventCatalog := catalog.NewFileCatalog(cfg.EventsFile)

	handlers := transport.NewHandlers(authService, bookingService, eventCatalog, idp, logger, cfg.IsDevelopment())
	router := transport.SetupRouter(handlers, authService, transport.GateConfig{
		Patterns:  cfg.ProtectedPaths,
		LoginPath: cfg.LoginPath,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening",
			"addr", cfg.ListenAddr,
			"environment", cfg.Environment,
			"project_id", cfg.ProjectID,
			"service_email", cfg.ServiceEmail)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server terminated", "error", err)
		os.Exit(1)
	}
}
