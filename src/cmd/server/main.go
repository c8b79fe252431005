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

	"github.com/api-sage/account-ledger/src/internal/adapter/http/controller"
	"github.com/api-sage/account-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/account-ledger/src/internal/adapter/http/router"
	"github.com/api-sage/account-ledger/src/internal/adapter/repository/jsonfile"
	"github.com/api-sage/account-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/account-ledger/src/internal/adapter/repository/postgres"
	"github.com/api-sage/account-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/account-ledger/src/internal/config"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/metrics"
	"github.com/api-sage/account-ledger/src/internal/usecase/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", err, nil)
		os.Exit(1)
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("server exited", err, nil)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("close account store", err, nil)
		}
	}()

	manager := services.NewAccountManager(store)
	if err := manager.Load(ctx); err != nil {
		return fmt.Errorf("restore ledger: %w", err)
	}

	keyHash, err := channelKeyHash(cfg)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	accountController := controller.NewAccountController(services.NewAccountService(manager, m))
	transferController := controller.NewTransferController(services.NewTransferService(manager, m))

	mux := router.New(
		accountController,
		transferController,
		middleware.BasicAuth(cfg.ChannelID, keyHash),
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	handler := middleware.Logging(m)(limiter.Middleware(mux))

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", logger.Fields{
			"addr":  cfg.HTTPAddr,
			"store": cfg.Store,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("http server shutting down", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := manager.Flush(shutdownCtx); err != nil {
			return fmt.Errorf("flush accounts: %w", err)
		}
		logger.Info("accounts flushed", logger.Fields{"accounts": len(manager.Snapshot())})
		return nil
	})

	return g.Wait()
}

func openStore(ctx context.Context, cfg config.Config) (repo_interfaces.AccountSnapshotRepository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store {
	case config.StoreMemory:
		return memory.NewAccountRepository(), noop, nil
	case config.StorePostgres:
		openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		db, err := postgres.Open(openCtx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.RunMigrations(openCtx, db, cfg.MigrationsDir); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		return postgres.NewAccountRepository(db), db.Close, nil
	default:
		return jsonfile.NewAccountRepository(cfg.DataFile), noop, nil
	}
}

func channelKeyHash(cfg config.Config) ([]byte, error) {
	if cfg.ChannelKeyHash != "" {
		return []byte(cfg.ChannelKeyHash), nil
	}
	hash, err := middleware.HashChannelKey(cfg.ChannelKey)
	if err != nil {
		return nil, fmt.Errorf("hash channel key: %w", err)
	}
	return hash, nil
}
