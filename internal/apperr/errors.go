// Package apperr defines the error kinds shared by the ledger packages.
// Callers match kinds with errors.Is against the sentinels and extract
// details with errors.As against the typed errors.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrCategoryInUse   = errors.New("category in use")
	ErrNotFound        = errors.New("not found")
	ErrMalformedBackup = errors.New("malformed backup")
	ErrSync            = errors.New("sync failed")
	ErrSyncBusy        = errors.New("sync already in progress")
)

// ValidationError reports a rejected input field. Err, when set, is the
// underlying cause and stays reachable through errors.Is and errors.As.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Invalid is shorthand for a *ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InUseError is returned when a category cannot be deleted because
// transactions still reference it.
type InUseError struct {
	CategoryID string
	Count      int
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("category %s is used by %d transaction(s)", e.CategoryID, e.Count)
}

func (e *InUseError) Is(target error) bool {
	return target == ErrCategoryInUse
}

type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// MalformedBackupError describes why a backup document was rejected.
// Field is empty when the document itself is not a JSON object.
type MalformedBackupError struct {
	Field  string
	Reason string
}

func (e *MalformedBackupError) Error() string {
	if e.Field == "" {
		return "malformed backup: " + e.Reason
	}

	return fmt.Sprintf("malformed backup: %s: %s", e.Field, e.Reason)
}

func (e *MalformedBackupError) Is(target error) bool {
	return target == ErrMalformedBackup
}

// SyncError wraps a failure reported by a remote during push or pull.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s: %v", e.Op, e.Err)
}

func (e *SyncError) Is(target error) bool {
	return target == ErrSync
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
