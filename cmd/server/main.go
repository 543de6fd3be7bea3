package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/batchledger/api/internal/config"
	"github.com/batchledger/api/internal/database"
	"github.com/batchledger/api/internal/router"
	"github.com/batchledger/api/internal/service"
	"github.com/batchledger/api/internal/storage"
	"github.com/batchledger/api/internal/ws"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	if cfg.RunMigrations {
		if err := database.Migrate(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			logger.WithError(err).Fatal("run migrations")
		}
		logger.WithField("source", cfg.MigrationsPath).Info("migrations applied")
	}

	pool, err := pgxpool.New(sigCtx, cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("connect to database")
	}
	defer pool.Close()
	if err := pool.Ping(sigCtx); err != nil {
		logger.WithError(err).Fatal("ping database")
	}

	docs, err := storage.Open(sigCtx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("open document storage")
	}
	defer docs.Close() //nolint:errcheck

	hub := ws.NewHub(logger)
	go hub.Run()

	vouchers := service.NewVoucherService(pool, func(db database.DBTX) service.VoucherStore {
		return database.New(db)
	}, hub, logger)

	r := router.New(router.Deps{
		Config:   cfg,
		Queries:  database.New(pool),
		Pool:     pool,
		Vouchers: vouchers,
		Docs:     docs,
		Hub:      hub,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()
	logger.WithFields(logrus.Fields{
		"port":    cfg.Port,
		"storage": cfg.StorageProvider,
	}).Info("server started")

	select {
	case <-sigCtx.Done():
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("server stopped unexpectedly")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
	logger.Info("server stopped")
}
