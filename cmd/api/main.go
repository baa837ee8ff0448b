// @title           Storefront API
// @version         1.0
// @description     Product types, image uploads and admin authentication for the storefront.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
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

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	_ "github.com/streck/storefront-api/docs"
	"github.com/streck/storefront-api/internal/api"
	"github.com/streck/storefront-api/internal/api/middleware"
	"github.com/streck/storefront-api/internal/core/ports"
	"github.com/streck/storefront-api/internal/core/service"
	"github.com/streck/storefront-api/internal/infrastructure/db/mongo"
	"github.com/streck/storefront-api/internal/infrastructure/db/postgres"
	"github.com/streck/storefront-api/internal/infrastructure/db/redis"
	"github.com/streck/storefront-api/internal/infrastructure/http/handlers"
	"github.com/streck/storefront-api/internal/infrastructure/identity"
	"github.com/streck/storefront-api/internal/infrastructure/media"
	"github.com/streck/storefront-api/internal/infrastructure/queue"
	"github.com/streck/storefront-api/internal/pkg/config"
	"github.com/streck/storefront-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "storefront-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "storefront-api",
	})
	if cfg.UsingDevSecret {
		log.Warn().Msg("JWT_SECRET not set, signing tokens with the development secret")
	}

	// --- Relational store ---
	db, err := postgres.Connect(ctx, postgres.Config{
		URL:         cfg.Database.URL,
		AutoMigrate: cfg.Database.AutoMigrate,
	}, logger.Component("postgres"))
	if err != nil {
		return err
	}
	defer func() { _ = postgres.Close(db) }()

	// --- Redis (optional): idempotency claims ---
	var (
		idempotency ports.IdempotencyStore
		redisHealth goredis.Cmdable
	)
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB}, logger.Component("redis"))
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		idempotency = redis.NewIdempotencyStore(rdb)
		redisHealth = rdb
	}

	// --- MongoDB (optional): upload audit log ---
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	var (
		auditor     ports.UploadAuditor
		dispatcher  *queue.AuditDispatcher
		mongoHealth *mongodriver.Database
	)
	if cfg.Mongo.URI != "" {
		client, mdb, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database}, logger.Component("mongo"))
		if err != nil {
			return err
		}
		defer func() { _ = mongo.Disconnect(client) }()

		auditRepo := mongo.NewUploadAuditRepository(mdb)
		if err := auditRepo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("upload audit indexes not created")
		}
		dispatcher = queue.NewAuditDispatcher(0, auditRepo, logger.Component("audit"))
		dispatcher.Start(workerCtx)
		auditor = dispatcher
		mongoHealth = mdb
	}

	// --- Media host ---
	host, err := newMediaHost(cfg, log)
	if err != nil {
		return err
	}

	// --- Services ---
	issuer := service.NewJWTIssuer(cfg.JWTSecret, service.DefaultTokenTTL)
	admin := identity.NewStatic(identity.StaticConfig{
		Email:        cfg.Admin.Email,
		Password:     cfg.Admin.Password,
		PasswordHash: cfg.Admin.PasswordHash,
		Name:         cfg.Admin.Name,
	})

	e := api.NewRouter(api.Dependencies{
		Log: log,
		Gate: middleware.GateConfig{
			Prefix:  cfg.Gate.Prefix,
			Mode:    cfg.Gate.Mode,
			Decoder: issuer,
		},
		Auth:         service.NewAuthService(admin, issuer, logger.Component("auth")),
		ProductTypes: service.NewProductTypeService(postgres.NewProductTypeRepository(db), idempotency, logger.Component("product-types")),
		Uploads:      service.NewUploadService(host, auditor, logger.Component("upload")),
		Readiness:    handlers.NewHealthDependenciesHandler(db, redisHealth, mongoHealth),
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("gate_mode", cfg.Gate.Mode).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	stopWorkers()
	if dispatcher != nil {
		dispatcher.Wait()
	}
	return nil
}

func newMediaHost(cfg *config.Config, log zerolog.Logger) (ports.MediaHost, error) {
	host, err := media.NewCloudinaryHost(media.Config{
		URL:       cfg.Cloudinary.URL,
		CloudName: cfg.Cloudinary.CloudName,
		APIKey:    cfg.Cloudinary.APIKey,
		APISecret: cfg.Cloudinary.APISecret,
		Folder:    cfg.Cloudinary.Folder,
	})
	if err == nil {
		return host, nil
	}
	if cfg.IsProduction() {
		return nil, err
	}
	log.Warn().Err(err).Msg("media host unavailable, uploads will fail")
	return media.UnavailableHost{Err: err}, nil
}
