package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"registration-payment-relay/internal/client"
	"registration-payment-relay/internal/config"
	"registration-payment-relay/internal/logger"
	"registration-payment-relay/internal/repository"
	"registration-payment-relay/internal/server"
	"registration-payment-relay/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.Log, cfg.Environment.Name)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Error("open record store", slog.String("driver", cfg.Store.Driver), slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()
	repo = repository.WithTimeout(repo, cfg.Store.Timeout)

	signer := client.NewLiqpaySigner(cfg.LiqPay.PrivateKey)
	liqpayClient := client.NewLiqpayClient(cfg, signer)

	registrationService := service.NewRegistrationService(repo, liqpayClient, log)
	paymentService := service.NewPaymentService(signer, repo, log)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(cfg, registrationService, paymentService, log)

	log.Info("starting HTTP server",
		slog.String("addr", serverAddr),
		slog.String("store", cfg.Store.Driver),
		slog.Bool("sandbox", cfg.LiqPay.Sandbox),
		slog.String("callback_url", cfg.CallbackURL()))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("signal received, starting graceful shutdown")
	case err := <-errCh:
		log.Error("HTTP server error", slog.Any("error", err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", slog.Any("error", err))
	}
}

// openStore builds the record store selected by STORE_DRIVER. The returned
// func releases its resources.
func openStore(ctx context.Context, cfg *config.Config) (repository.RegistrationRepository, func(), error) {
	noop := func() {}

	switch cfg.Store.Driver {
	case "sqlite", "mysql":
		db, err := client.InitGormClient(cfg.Store.Driver, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		return repository.NewRegistrationRepository(db), closeDB, nil

	case "xlsx":
		repo, err := repository.NewWorkbookRepository(cfg.Store.XLSXPath, cfg.Store.SheetName)
		return repo, noop, err

	case "sheets":
		if cfg.Store.SpreadsheetID == "" {
			return nil, noop, errors.New("STORE_SPREADSHEET_ID is required for the sheets store")
		}
		srv, err := client.NewSheetsClient(ctx, cfg.Store.CredentialsFile)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewSheetsRepository(srv, cfg.Store.SpreadsheetID, cfg.Store.SheetName), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
}
