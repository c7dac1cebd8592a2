// Package storage persists ledger state as JSON documents under fixed keys.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

const (
	KeyTransactions      = "transactions"
	KeyIncomeCategories  = "incomeCategories"
	KeyExpenseCategories = "expenseCategories"
)

var ErrNotFound = errors.New("key not found")

//go:generate mockgen -source=storage.go -destination=storage_mock.go -package=storage
type KV interface {
	// Get returns ErrNotFound when key was never set.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Export(ctx context.Context) (map[string][]byte, error)
	Close() error
}

// Load decodes the value under key, falling back to def when the key is
// absent, unreadable or not valid JSON for T.
func Load[T any](ctx context.Context, kv KV, key string, def T) T {
	data, err := kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("failed to read stored state, using default", "key", key, "error", err)
		}

		return def
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		slog.Warn("stored state is not parsable, using default", "key", key, "error", err)
		return def
	}

	return v
}

func Save[T any](ctx context.Context, kv KV, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	if err := kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}

	return nil
}
