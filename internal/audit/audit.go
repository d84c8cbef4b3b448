// Package audit фиксирует историю обработанных батчей синхронизации.
// ClientID мутаций сохраняется именно здесь: в логике конфликтов
// он не участвует.
package audit

import (
	"context"
	"time"
)

//go:generate moq -out audit_mock.go . Recorder

// ItemOutcome исход одной мутации внутри батча
type ItemOutcome string

// Возможные исходы мутации
const (
	OutcomeSynced   ItemOutcome = "synced"
	OutcomeFailed   ItemOutcome = "failed"
	OutcomeConflict ItemOutcome = "conflict"
)

// ItemRecord аудит-запись одной мутации
type ItemRecord struct {
	ItemID     string
	ClientID   string
	EntityType string
	EntityID   string
	Operation  string
	Outcome    ItemOutcome
	Error      string // Error текст ошибки для outcome=failed
}

// BatchRecord аудит-запись одного батча синхронизации
type BatchRecord struct {
	ID            string // ID ULID батча
	UserID        string
	TenantID      string
	Synced        int
	Failed        int
	Conflicts     int
	ServerChanges int
	Checkpoint    int64 // Checkpoint новый lastSyncTimestamp батча
	CreatedAt     time.Time
	Items         []ItemRecord
}

// Recorder defines interface for persisting sync audit records
type Recorder interface {
	// RecordBatch persists a batch record together with its items
	RecordBatch(ctx context.Context, batch *BatchRecord) error

	// RecentBatches returns the latest batches for a user, newest first
	RecentBatches(ctx context.Context, userID string, limit int) ([]*BatchRecord, error)
}
