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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/deep1161/djMART/app/internal/config"
	"github.com/deep1161/djMART/app/internal/format"
	"github.com/deep1161/djMART/app/internal/infra/catalog"
	logx "github.com/deep1161/djMART/app/internal/infra/logging"
	"github.com/deep1161/djMART/app/internal/infra/notify"
	"github.com/deep1161/djMART/app/internal/infra/persistence/memory"
	mysqlstore "github.com/deep1161/djMART/app/internal/infra/persistence/mysql"
	pgstore "github.com/deep1161/djMART/app/internal/infra/persistence/postgres"
	redisstore "github.com/deep1161/djMART/app/internal/infra/persistence/redis"
	"github.com/deep1161/djMART/app/internal/infra/security"
	httpapi "github.com/deep1161/djMART/app/internal/interface/http"
	cartuc "github.com/deep1161/djMART/app/internal/usecase/cart"
	"github.com/deep1161/djMART/app/internal/usecase/productview"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logx.Init(logx.LoggerOpts{Environment: cfg.Environment()})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openCartStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("store", cfg.CartStore).Msg("open cart store")
	}
	defer closeStore()

	prices, err := format.NewPriceFormatter(cfg.Currency, cfg.LocaleTag())
	if err != nil {
		logger.Fatal().Err(err).Msg("price formatter")
	}

	catalogClient := catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogTimeout)
	cartSvc := cartuc.NewService(store, cartuc.WithMergeDuplicates(cfg.CartMergeDuplicates))
	flash := notify.NewFlash(cfg.LocaleTag())

	views := productview.NewRegistry(productview.RegistryDependencies{
		Catalog: catalogClient,
		Cart:    cartSvc,
		Notifiers: func(session string) productview.Notifier {
			return flash.For(session)
		},
		Logger: logger,
	}, cfg.ViewIdleTimeout)
	go views.Run(ctx, cfg.ViewIdleTimeout/2)

	api := httpapi.NewAPI(httpapi.Dependencies{
		Views:          views,
		CartService:    cartSvc,
		Photos:         catalogClient,
		Flash:          flash,
		SessionService: security.NewSessionService(cfg.SessionSecret, cfg.SessionTTL),
		Prices:         prices,
		Logger:         logger,
		SecureCookies:  cfg.Environment().IsProduction(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           otelhttp.NewHandler(api.Router(), "djmart"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	}()

	logger.Info().
		Str("addr", srv.Addr).
		Str("env", cfg.Environment().String()).
		Str("store", cfg.CartStore).
		Str("catalog", cfg.CatalogBaseURL).
		Msg("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("serve")
	}
}

func openCartStore(ctx context.Context, cfg *config.AppConfig) (cartuc.CartStore, func(), error) {
	switch cfg.CartStore {
	case config.StoreRedis:
		client, err := cfg.Redis.New(ctx)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewCartStore(client, cfg.CartTTL), func() { client.Close() }, nil

	case config.StoreMySQL:
		db, err := mysqlstore.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		store := mysqlstore.NewCartStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() { db.Close() }, nil

	case config.StorePostgres:
		pool, err := pgstore.Open(ctx, cfg.PGDSN)
		if err != nil {
			return nil, nil, err
		}
		store := pgstore.NewCartStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil

	default:
		return memory.NewCartStore(), func() {}, nil
	}
}
