// Package cloudsync pushes and pulls whole-ledger snapshots to a remote.
package cloudsync

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/likexephinh-dev/ThuChiPro/internal/apperr"
	"github.com/likexephinh-dev/ThuChiPro/internal/backup"
)

var (
	// ErrNoSnapshot is returned by remotes that have nothing to pull yet.
	ErrNoSnapshot = errors.New("no snapshot stored")
	// ErrNotConfigured is reported when sync is disabled.
	ErrNotConfigured = errors.New("sync backend not configured")
)

//go:generate mockgen -source=cloudsync.go -destination=remote_mock.go -package=cloudsync
type Remote interface {
	Push(ctx context.Context, doc backup.Document) error
	Pull(ctx context.Context) (backup.Document, error)
}

// Syncer runs at most one remote operation at a time. A request arriving
// while another is in flight fails with apperr.ErrSyncBusy.
type Syncer struct {
	remote  Remote
	timeout time.Duration
	busy    atomic.Bool
}

// NewSyncer wraps remote. A zero timeout leaves remote calls unbounded.
func NewSyncer(remote Remote, timeout time.Duration) *Syncer {
	return &Syncer{remote: remote, timeout: timeout}
}

// Busy reports whether a push or pull is in flight.
func (s *Syncer) Busy() bool {
	return s.busy.Load()
}

func (s *Syncer) Push(ctx context.Context, doc backup.Document) error {
	if s == nil || s.remote == nil {
		return &apperr.SyncError{Op: "push", Err: ErrNotConfigured}
	}

	if !s.busy.CompareAndSwap(false, true) {
		return apperr.ErrSyncBusy
	}
	defer s.busy.Store(false)

	ctx, cancel := s.detach(ctx)
	defer cancel()

	if err := s.remote.Push(ctx, doc); err != nil {
		return &apperr.SyncError{Op: "push", Err: err}
	}

	return nil
}

func (s *Syncer) Pull(ctx context.Context) (backup.Document, error) {
	if s == nil || s.remote == nil {
		return backup.Document{}, &apperr.SyncError{Op: "pull", Err: ErrNotConfigured}
	}

	if !s.busy.CompareAndSwap(false, true) {
		return backup.Document{}, apperr.ErrSyncBusy
	}
	defer s.busy.Store(false)

	ctx, cancel := s.detach(ctx)
	defer cancel()

	doc, err := s.remote.Pull(ctx)
	if err != nil {
		return backup.Document{}, &apperr.SyncError{Op: "pull", Err: err}
	}

	return doc, nil
}

// detach drops caller cancellation; an in-flight sync always completes.
func (s *Syncer) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}

	return ctx, func() {}
}
