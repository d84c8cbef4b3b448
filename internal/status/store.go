// Package status хранит checkpoint последней успешной синхронизации
// для каждого пользователя.
package status

import (
	"context"
	"errors"
)

//go:generate moq -out store_mock.go . Store

// Common status store errors
var (
	// ErrStatusNotFound indicates that no checkpoint exists for the user
	// (never synced, or the entry expired)
	ErrStatusNotFound = errors.New("sync status not found")
)

// SyncStatus checkpoint одного пользователя
type SyncStatus struct {
	LastSyncTimestamp int64 `json:"lastSyncTimestamp"` // LastSyncTimestamp epoch millis последней синхронизации
}

// Store defines interface for the per-user sync checkpoint store.
// Entries expire after the configured TTL; an expired entry reads
// as ErrStatusNotFound so the client falls back to a full sync.
type Store interface {
	// Get returns the checkpoint for the user.
	// Returns ErrStatusNotFound if no live entry exists.
	Get(ctx context.Context, userID string) (*SyncStatus, error)

	// Save overwrites the checkpoint for the user and resets its TTL
	Save(ctx context.Context, userID string, status *SyncStatus) error
}
