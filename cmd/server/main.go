package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rohits-web03/evently/internal/api"
	"github.com/rohits-web03/evently/internal/api/services"
	"github.com/rohits-web03/evently/internal/cache"
	"github.com/rohits-web03/evently/internal/config"
	"github.com/rohits-web03/evently/internal/logging"
	"github.com/rohits-web03/evently/internal/notify"
	"github.com/rohits-web03/evently/internal/repositories"
)

// @title Evently API
// @version 1.0
// @description Event management API: accounts, events, subscriptions and posters.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.IsProduction())

	if err := run(cfg, log); err != nil {
		log.Error(context.Background(), "server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log logging.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := repositories.ConnectDatabase(cfg.DB_URL)
	if err != nil {
		return err
	}
	log.Info(ctx, "connected to database")

	userCache, closeCache := buildUserCache(ctx, cfg, log)
	defer closeCache()

	users := repositories.NewUserRepository(db)
	events := repositories.NewEventRepository(db)
	participants := repositories.NewParticipantRepository(db)

	tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	auth := services.NewAuthService(users, tokens, buildNotifier(cfg, log), log)

	// A nil *PosterStore must not reach the interface.
	var posters services.PosterStorage
	if cfg.R2.Enabled() {
		posters = repositories.NewPosterStore(cfg.R2)
	} else {
		log.Warn(ctx, "R2 is not configured, poster uploads are disabled")
	}

	google := services.NewGoogleAuth(services.NewGoogleOAuthConfig(cfg.Google), auth, log)
	if google == nil {
		log.Warn(ctx, "Google OAuth is not configured, social login is disabled")
	}

	handler := api.SetupRouter(cfg, api.Services{
		Tokens: tokens,
		Auth:   auth,
		Google: google,
		Users:  services.NewUserService(users, events, userCache, log),
		Events: services.NewEventService(events, users, participants, posters, log),
	}, log)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: handler,
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "starting Evently server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on port %s: %w", cfg.Port, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info(shutdownCtx, "shutting down")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildUserCache falls back to no caching when Redis is unset or unreachable;
// the cache only saves database reads.
func buildUserCache(ctx context.Context, cfg config.Config, log logging.Logger) (cache.UserCache, func()) {
	if cfg.RedisURL == "" {
		log.Warn(ctx, "REDIS_URL is not set, user info is not cached")
		return cache.Noop{}, func() {}
	}
	c, err := cache.NewRedisUserCache(ctx, cfg.RedisURL, cfg.UserCacheTTL)
	if err != nil {
		log.Warn(ctx, "redis unavailable, user info is not cached", "error", err)
		return cache.Noop{}, func() {}
	}
	return c, func() { _ = c.Close() }
}

func buildNotifier(cfg config.Config, log logging.Logger) notify.Notifier {
	var n notify.Notifier = notify.NewLogNotifier(log)
	if cfg.SendGridAPIKey != "" {
		n = notify.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.AlertSender)
	}
	if cfg.AlertRatePerHour > 0 {
		n = notify.NewRateLimited(n, cfg.AlertRatePerHour)
	}
	return n
}
