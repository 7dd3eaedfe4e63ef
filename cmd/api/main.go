// @title                       Sweet Shop API
// @version                     1.0
// @description                 Inventory storefront: catalog, purchases and restocks.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sweetmart/sweetshop/internal/api"
	"github.com/sweetmart/sweetshop/internal/api/handler"
	"github.com/sweetmart/sweetshop/internal/api/middleware"
	"github.com/sweetmart/sweetshop/internal/core/ports"
	"github.com/sweetmart/sweetshop/internal/core/service"
	"github.com/sweetmart/sweetshop/internal/infrastructure/db/memory"
	"github.com/sweetmart/sweetshop/internal/infrastructure/db/mongo"
	"github.com/sweetmart/sweetshop/internal/infrastructure/db/redis"
	"github.com/sweetmart/sweetshop/internal/infrastructure/queue"
	"github.com/sweetmart/sweetshop/internal/pkg/config"
	"github.com/sweetmart/sweetshop/pkg/logger"
)

type stores struct {
	sweets    ports.SweetRepository
	users     ports.AuthRepository
	movements ports.MovementRepository
	checks    map[string]handler.Checker
	close     func(context.Context) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// the logger is not configured yet
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "sweetshop",
	})
	log := logger.Get()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open stores")
	}
	defer func() {
		if err := st.close(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close stores")
		}
	}()

	limiter, closeLimiter := newAuthLimiter(ctx, cfg, st.checks, log)
	defer closeLimiter()
	// already validated by config.Load
	proxies, _ := cfg.RateLimit.TrustedProxyNets()

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	gate := service.NewAuthGate(tokens, st.users, logger.Component("auth"))
	authService := service.NewAuthService(st.users, tokens)
	sweetService := service.NewSweetService(st.sweets, logger.Component("catalog"))

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.MovementWorkers, st.movements, logger.Component("ledger"))
	dispatcher.Start(workerCtx)
	engine := service.NewStockEngine(st.sweets, dispatcher, logger.Component("stock"))

	e := api.NewRouter(api.Deps{
		Log:            logger.Component("http"),
		Gate:           gate,
		Auth:           authService,
		Sweets:         sweetService,
		Stock:          engine,
		AuthLimiter:    limiter,
		HealthChecks:   st.checks,
		TrustedProxies: proxies,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("http server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}

	// Requests are done; flush the movements they queued.
	stopWorkers()
	dispatcher.Wait()
	log.Info().Msg("shutdown complete")
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.StoreDriver == config.StoreMemory {
		log.Warn().Msg("using in-memory store, data is lost on restart")
		return &stores{
			sweets:    memory.NewSweetRepository(),
			users:     memory.NewAuthRepository(),
			movements: memory.NewMovementRepository(),
			checks:    map[string]handler.Checker{},
			close:     func(context.Context) error { return nil },
		}, nil
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	repos := mongo.NewRepositories(db)
	if err := repos.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	return &stores{
		sweets:    repos.Sweets,
		users:     repos.Users,
		movements: repos.Movements,
		checks:    map[string]handler.Checker{"mongodb": handler.MongoCheck(db)},
		close:     client.Disconnect,
	}, nil
}

// newAuthLimiter shares the /auth budget across replicas through Redis when it
// is configured and keeps it per process otherwise.
func newAuthLimiter(ctx context.Context, cfg *config.Config, checks map[string]handler.Checker, log zerolog.Logger) (middleware.RateLimiter, func()) {
	rcfg := redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	if !rcfg.Enabled() {
		return middleware.NewMemoryLimiter(cfg.RateLimit.AuthRequests, cfg.RateLimit.AuthWindow), func() {}
	}

	client, err := redis.Connect(ctx, rcfg)
	if err != nil {
		log.Warn().Err(err).Str("addr", rcfg.Addr).Msg("redis unavailable, using in-process rate limiter")
		return middleware.NewMemoryLimiter(cfg.RateLimit.AuthRequests, cfg.RateLimit.AuthWindow), func() {}
	}
	checks["redis"] = handler.RedisCheck(client)
	log.Info().Str("addr", rcfg.Addr).Msg("connected to redis")

	return redis.NewRateLimiter(client, cfg.RateLimit.AuthRequests, cfg.RateLimit.AuthWindow), func() { closeRedis(client, log) }
}

func closeRedis(client *goredis.Client, log zerolog.Logger) {
	if err := client.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close redis")
	}
}
