// Package app assembles a session from configuration: the local store,
// the optional sync remote and the metrics registry.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/likexephinh-dev/ThuChiPro/internal/cloudsync"
	amqpremote "github.com/likexephinh-dev/ThuChiPro/internal/cloudsync/amqp"
	pgremote "github.com/likexephinh-dev/ThuChiPro/internal/cloudsync/postgres"
	sheetsremote "github.com/likexephinh-dev/ThuChiPro/internal/cloudsync/sheets"
	"github.com/likexephinh-dev/ThuChiPro/internal/config"
	"github.com/likexephinh-dev/ThuChiPro/internal/database"
	"github.com/likexephinh-dev/ThuChiPro/internal/metrics"
	"github.com/likexephinh-dev/ThuChiPro/internal/session"
	"github.com/likexephinh-dev/ThuChiPro/internal/storage"
	"github.com/likexephinh-dev/ThuChiPro/internal/storage/memory"
	"github.com/likexephinh-dev/ThuChiPro/internal/storage/sqlite"
)

// App holds the session and the resources it depends on.
type App struct {
	Session  *session.Session
	Registry *prometheus.Registry

	closers []io.Closer
}

// Open builds the application described by cfg.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Registry: prometheus.NewRegistry()}

	kv, err := NewStorage(cfg)
	if err != nil {
		return nil, err
	}

	a.closers = append(a.closers, kv)

	remote, err := a.newRemote(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := session.Options{Metrics: metrics.New(a.Registry)}
	if remote != nil {
		opts.Syncer = cloudsync.NewSyncer(remote, cfg.Sync.Timeout)
	}

	s, err := session.Open(ctx, kv, opts)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Session = s

	slog.Info("application ready", "storage", cfg.Storage.Backend, "sync", cfg.Sync.Backend)

	return a, nil
}

// NewStorage opens the configured local store.
func NewStorage(cfg *config.Config) (storage.KV, error) {
	switch cfg.Storage.Backend {
	case config.StorageMemory:
		return memory.New(), nil
	case config.StorageSQLite:
		kv, err := sqlite.New(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}

		return kv, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func (a *App) newRemote(ctx context.Context, cfg *config.Config) (cloudsync.Remote, error) {
	switch cfg.Sync.Backend {
	case config.SyncNone, "":
		return nil, nil
	case config.SyncPostgres:
		db, err := database.New(ctx, cfg.ConnectionString())
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}

		a.closers = append(a.closers, db)

		remote := pgremote.New(db)
		if err := remote.EnsureSchema(ctx); err != nil {
			return nil, err
		}

		return remote, nil
	case config.SyncSheets:
		var creds []byte

		if path := cfg.Sheets.CredentialsFile; path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("reading sheets credentials: %w", err)
			}

			creds = data
		}

		return sheetsremote.New(ctx, sheetsremote.Config{
			SpreadsheetID:     cfg.Sheets.SpreadsheetID,
			CredentialsJSON:   creds,
			TransactionsSheet: cfg.Sheets.TransactionsSheet,
			CategoriesSheet:   cfg.Sheets.CategoriesSheet,
		})
	case config.SyncAMQP:
		remote, err := amqpremote.Dial(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
		if err != nil {
			return nil, err
		}

		a.closers = append(a.closers, remote)

		return remote, nil
	default:
		return nil, fmt.Errorf("unknown sync backend %q", cfg.Sync.Backend)
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}

	a.closers = nil

	return errors.Join(errs...)
}
