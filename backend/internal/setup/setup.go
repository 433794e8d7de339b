package setup

import (
	"context"
	"errors"
	"time"

	"github.com/campusnet/campusnet/backend/internal/embedding"
	"github.com/campusnet/campusnet/backend/internal/handler"
	"github.com/campusnet/campusnet/backend/internal/markdown"
	"github.com/campusnet/campusnet/backend/internal/service"
	"github.com/campusnet/campusnet/backend/internal/storage/pg"
	"github.com/campusnet/campusnet/backend/internal/storage/vector"
	"github.com/campusnet/campusnet/backend/internal/utils"
	"github.com/campusnet/campusnet/shared/config"
	"github.com/campusnet/campusnet/shared/jwt"
	"github.com/campusnet/campusnet/shared/logger"
	mw "github.com/campusnet/campusnet/shared/middleware"
	rl "github.com/campusnet/campusnet/shared/middleware/ratelimiter"
	sharedpg "github.com/campusnet/campusnet/shared/storage/pg"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config     *config.Config
	Storage    *pg.Storage
	Index      *vector.Index
	Handler    *handler.Handler
	Auth       *mw.Auth
	Jwt        jwt.JwtService
	Reconciler *service.MirrorReconciler
	Limiters   RateLimiters
}

// RateLimiters are the per-user limiters mounted by the router.
type RateLimiters struct {
	Default *rl.UserRateLimiter // 100 RPS
	Write   *rl.UserRateLimiter // 1 RPS, bursts of 5
	Search  *rl.UserRateLimiter // 10 RPS
}

func NewRateLimiters() RateLimiters {
	return RateLimiters{
		Default: rl.New(100, 100, time.Hour),
		Write:   rl.New(1, 5, time.Hour),
		Search:  rl.New(10, 10, time.Hour),
	}
}

// Stop ends the background sweep of every limiter.
func (l RateLimiters) Stop() {
	for _, limiter := range []*rl.UserRateLimiter{l.Default, l.Write, l.Search} {
		if limiter != nil {
			limiter.Stop()
		}
	}
}

// SetupDependencies connects both stores and wires the services on top of them.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(ctx, cfg.Private.Pg, sharedpg.DefaultConnectionConfig())
	if err != nil {
		return nil, err
	}
	index, err := vector.New(ctx, cfg.Private.VectorPg, sharedpg.DefaultConnectionConfig(), cfg.Public.Embedding.Dimensions)
	if err != nil {
		storage.Cleanup()
		return nil, err
	}
	embedder := embedding.New(cfg.Public.Embedding)
	if err := embedder.Ping(ctx); err != nil {
		logger.Log.Warn("embedding endpoint unreachable, search index writes will be degraded", "url", cfg.Public.Embedding.Url, "error", err)
	}
	timeout := cfg.Public.RequestTimeout

	mirror := service.NewMirror(index, embedder)
	notifications := service.NewNotifications(storage, cfg.Public.NotificationsLimit, timeout)
	content := service.NewContent(storage, mirror, notifications, utils.NewContentValidator(cfg.Public), timeout)
	moderation := service.NewModeration(storage, timeout)
	search := service.NewSearch(storage, index, embedder, cfg.Public.SearchLimit, timeout)
	reconciler := service.NewMirrorReconciler(storage, index, mirror,
		cfg.Public.Reconcile.SafetyThreshold, cfg.Public.Reconcile.MaxAttempts)

	// the embedding endpoint is left out: writes degrade without it
	health := handler.HealthChecks{
		"document store": storage,
		"vector index":   index,
	}
	h := handler.New(content, moderation, notifications, search, markdown.New(), health)

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	logger.Log.Info("dependencies ready",
		"embedding_model", cfg.Public.Embedding.Model,
		"dimensions", cfg.Public.Embedding.Dimensions,
		"reconcile", cfg.Public.Reconcile.Enabled)

	return &Dependencies{
		Config:     cfg,
		Storage:    storage,
		Index:      index,
		Handler:    h,
		Auth:       mw.NewAuth(jwtService),
		Jwt:        jwtService,
		Reconciler: reconciler,
		Limiters:   NewRateLimiters(),
	}, nil
}

// Cleanup stops the rate limiters and closes both store connections.
func (d *Dependencies) Cleanup() error {
	d.Limiters.Stop()
	return errors.Join(d.Storage.Cleanup(), d.Index.Cleanup())
}
