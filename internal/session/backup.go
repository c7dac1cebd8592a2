package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/likexephinh-dev/ThuChiPro/internal/backup"
	"github.com/likexephinh-dev/ThuChiPro/internal/category"
	"github.com/likexephinh-dev/ThuChiPro/internal/filter"
	"github.com/likexephinh-dev/ThuChiPro/internal/storage"
)

// Backup snapshots the full ledger.
func (s *Session) Backup() backup.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

func (s *Session) snapshot() backup.Document {
	return backup.Serialize(
		s.store.All(),
		s.registry.List(category.TypeIncome),
		s.registry.List(category.TypeExpense),
	)
}

// Restore replaces the whole ledger with doc. Callers must have validated
// doc through the backup codec and obtained user confirmation.
func (s *Session) Restore(ctx context.Context, doc backup.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.restore(ctx, doc)
	s.metrics.Mutation("ledger", "restore", nil)
}

func (s *Session) restore(ctx context.Context, doc backup.Document) {
	s.store.Replace(doc.Transactions)
	s.registry.Replace(doc.IncomeCategories, doc.ExpenseCategories)
	s.selection.SetCategory(filter.CategoryAll)

	s.persist(ctx, storage.KeyTransactions, storage.KeyIncomeCategories, storage.KeyExpenseCategories)
	s.metrics.TransactionCount(s.store.Len())

	slog.Info("ledger restored",
		"transactions", len(doc.Transactions),
		"income_categories", len(doc.IncomeCategories),
		"expense_categories", len(doc.ExpenseCategories))
}

// SyncBusy reports whether a push or pull is in flight.
func (s *Session) SyncBusy() bool {
	return s.syncer != nil && s.syncer.Busy()
}

// Push uploads a snapshot. The session lock is released before the remote
// call so the ledger stays usable while syncing.
func (s *Session) Push(ctx context.Context) error {
	doc := s.Backup()
	started := time.Now()

	err := s.syncer.Push(ctx, doc)
	s.metrics.Sync("push", started, err)

	if err != nil {
		return err
	}

	slog.Info("ledger pushed", "transactions", len(doc.Transactions))

	return nil
}

// Pull downloads the remote snapshot and replaces the local ledger with it.
func (s *Session) Pull(ctx context.Context) error {
	started := time.Now()

	doc, err := s.syncer.Pull(ctx)
	s.metrics.Sync("pull", started, err)

	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.restore(context.WithoutCancel(ctx), doc)

	return nil
}
