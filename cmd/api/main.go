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
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/likexephinh-dev/ThuChiPro/internal/app"
	"github.com/likexephinh-dev/ThuChiPro/internal/config"
	thuchiHttp "github.com/likexephinh-dev/ThuChiPro/internal/http"
	backupHandler "github.com/likexephinh-dev/ThuChiPro/internal/http/backup"
	categoryHandler "github.com/likexephinh-dev/ThuChiPro/internal/http/category"
	syncHandler "github.com/likexephinh-dev/ThuChiPro/internal/http/cloudsync"
	dashboardHandler "github.com/likexephinh-dev/ThuChiPro/internal/http/dashboard"
	reportHandler "github.com/likexephinh-dev/ThuChiPro/internal/http/report"
	txHandler "github.com/likexephinh-dev/ThuChiPro/internal/http/transaction"
	"github.com/likexephinh-dev/ThuChiPro/internal/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.App.LogLevel)

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening app: %w", err)
	}
	defer a.Close()

	sess := a.Session

	var (
		categoryH  = categoryHandler.NewHandler(sess)
		txH        = txHandler.NewHandler(sess)
		dashboardH = dashboardHandler.NewHandler(sess)
		reportH    = reportHandler.NewHandler(sess)
		backupH    = backupHandler.NewHandler(sess)
		syncH      = syncHandler.NewHandler(sess)
	)

	router := thuchiHttp.New(cfg.Server.CORSOrigins, a.Registry, categoryH, txH, dashboardH, reportH, backupH, syncH)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
		WriteTimeout:      cfg.WriteTimeout(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "addr", server.Addr, "name", cfg.App.Name)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
