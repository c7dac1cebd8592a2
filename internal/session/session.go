// Package session owns the ledger state of a running application and is
// the only entry point for mutating it. Every operation runs under one
// mutex and completes before the next starts.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/likexephinh-dev/ThuChiPro/internal/category"
	"github.com/likexephinh-dev/ThuChiPro/internal/cloudsync"
	"github.com/likexephinh-dev/ThuChiPro/internal/filter"
	"github.com/likexephinh-dev/ThuChiPro/internal/metrics"
	"github.com/likexephinh-dev/ThuChiPro/internal/storage"
	"github.com/likexephinh-dev/ThuChiPro/internal/transaction"
)

type Options struct {
	// Syncer is optional; without it push and pull report a sync error.
	Syncer  *cloudsync.Syncer
	Metrics *metrics.Metrics
	Now     func() time.Time
}

type Session struct {
	mu        sync.Mutex
	registry  *category.Registry
	store     *transaction.Store
	selection *filter.Selection

	kv      storage.KV
	syncer  *cloudsync.Syncer
	metrics *metrics.Metrics
	now     func() time.Time
}

// Open loads persisted state from kv. Missing or unreadable keys fall back
// to an empty ledger with the default categories.
func Open(ctx context.Context, kv storage.KV, opts Options) (*Session, error) {
	defIncome, defExpense, err := category.Defaults()
	if err != nil {
		return nil, fmt.Errorf("loading default categories: %w", err)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	var (
		txs     = storage.Load(ctx, kv, storage.KeyTransactions, []transaction.Transaction{})
		income  = storage.Load(ctx, kv, storage.KeyIncomeCategories, defIncome)
		expense = storage.Load(ctx, kv, storage.KeyExpenseCategories, defExpense)
	)

	s := &Session{
		registry:  category.NewRegistry(income, expense),
		store:     transaction.NewStore(txs),
		selection: filter.NewSelection(filter.MonthRange(now())),
		kv:        kv,
		syncer:    opts.Syncer,
		metrics:   opts.Metrics,
		now:       now,
	}

	s.metrics.TransactionCount(s.store.Len())

	slog.Info("ledger loaded",
		"transactions", s.store.Len(),
		"income_categories", len(income),
		"expense_categories", len(expense))

	return s, nil
}

// Now returns the session clock.
func (s *Session) Now() time.Time {
	return s.now()
}

// persist writes the given keys. Failures are logged and counted but do
// not fail the operation; the in-memory state stays authoritative.
func (s *Session) persist(ctx context.Context, keys ...string) {
	for _, key := range keys {
		var err error

		switch key {
		case storage.KeyTransactions:
			err = storage.Save(ctx, s.kv, key, s.store.All())
		case storage.KeyIncomeCategories:
			err = storage.Save(ctx, s.kv, key, s.registry.List(category.TypeIncome))
		case storage.KeyExpenseCategories:
			err = storage.Save(ctx, s.kv, key, s.registry.List(category.TypeExpense))
		}

		if err != nil {
			slog.Error("failed to persist state", "key", key, "error", err)
			s.metrics.PersistFailure(key)
		}
	}
}

func categoryKey(t category.Type) string {
	if t == category.TypeIncome {
		return storage.KeyIncomeCategories
	}

	return storage.KeyExpenseCategories
}
