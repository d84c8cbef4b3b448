package audit

import (
	"context"
	"log/slog"

	"github.com/oklog/ulid/v2"

	"github.com/motahq/mota-sync/internal/events"
)

// NewSyncCompletedHandler возвращает обработчик события sync.completed,
// который пишет батч в аудит. Подписывается на шину при сборке приложения.
func NewSyncCompletedHandler(recorder Recorder, logger *slog.Logger) events.Handler {
	return func(ctx context.Context, event events.Event) {
		payload, ok := event.Payload.(events.SyncCompleted)
		if !ok {
			logger.Warn("Unexpected payload type for sync.completed event")
			return
		}

		batch := buildBatchRecord(event, payload)
		if err := recorder.RecordBatch(ctx, batch); err != nil {
			// Аудит не должен ломать синхронизацию
			logger.Error("Failed to record sync audit batch",
				"batch_id", batch.ID,
				"user_id", batch.UserID,
				"error", err)
		}
	}
}

// buildBatchRecord собирает аудит-запись из события
func buildBatchRecord(event events.Event, payload events.SyncCompleted) *BatchRecord {
	result := payload.Result

	outcomes := make(map[string]ItemOutcome, len(payload.Items))
	errorsByID := make(map[string]string)
	for _, id := range result.SyncedItems {
		outcomes[id] = OutcomeSynced
	}
	for _, f := range result.FailedItems {
		outcomes[f.ID] = OutcomeFailed
		errorsByID[f.ID] = f.Error
	}
	for _, c := range result.Conflicts {
		outcomes[c.ID] = OutcomeConflict
	}

	items := make([]ItemRecord, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, ItemRecord{
			ItemID:     item.ID,
			ClientID:   item.ClientID,
			EntityType: item.EntityType,
			EntityID:   item.EntityID,
			Operation:  string(item.Operation),
			Outcome:    outcomes[item.ID],
			Error:      errorsByID[item.ID],
		})
	}

	return &BatchRecord{
		ID:            ulid.Make().String(),
		UserID:        event.UserID,
		TenantID:      payload.TenantID,
		Synced:        len(result.SyncedItems),
		Failed:        len(result.FailedItems),
		Conflicts:     len(result.Conflicts),
		ServerChanges: len(result.ServerChanges),
		Checkpoint:    result.LastSyncTimestamp,
		CreatedAt:     event.OccurredAt,
		Items:         items,
	}
}
