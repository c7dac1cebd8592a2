// Package postgres stores ledger snapshots in a Postgres table.
package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/likexephinh-dev/ThuChiPro/internal/backup"
	"github.com/likexephinh-dev/ThuChiPro/internal/cloudsync"
)

var _ cloudsync.Remote = (*Remote)(nil)

type Remote struct {
	db *sql.DB
}

func New(db *sql.DB) *Remote {
	return &Remote{db: db}
}

// EnsureSchema creates the snapshot table when it does not exist yet.
func (r *Remote) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS ledger_snapshots (
			id         BIGSERIAL PRIMARY KEY,
			document   JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("creating ledger_snapshots: %w", err)
	}

	return nil
}

func (r *Remote) Push(ctx context.Context, doc backup.Document) error {
	var buf bytes.Buffer
	if err := backup.Encode(&buf, doc); err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, `INSERT INTO ledger_snapshots (document) VALUES ($1)`, buf.String()); err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}

	return nil
}

// Pull returns the most recently pushed snapshot.
func (r *Remote) Pull(ctx context.Context) (backup.Document, error) {
	var data []byte

	err := r.db.QueryRowContext(ctx,
		`SELECT document FROM ledger_snapshots ORDER BY id DESC LIMIT 1`,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return backup.Document{}, cloudsync.ErrNoSnapshot
	}

	if err != nil {
		return backup.Document{}, fmt.Errorf("querying snapshot: %w", err)
	}

	return backup.Deserialize(data)
}
