package audit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motahq/mota-sync/internal/events"
	"github.com/motahq/mota-sync/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func completedEvent() events.Event {
	items := []models.SyncItem{
		{ID: "a", EntityType: "task", EntityID: "t1", Operation: models.OperationUpdate, ClientID: "device-1", Timestamp: 1000},
		{ID: "b", EntityType: "task", EntityID: "t2", Operation: models.OperationUpdate, ClientID: "device-1", Timestamp: 1000},
		{ID: "c", EntityType: "bogus", EntityID: "x", Operation: models.OperationCreate, ClientID: "device-1", Timestamp: 1000},
	}
	result := &models.SyncResult{
		Success:     true,
		SyncedItems: []string{"a"},
		FailedItems: []models.FailedItem{{ID: "c", Error: "unknown entity type: bogus"}},
		Conflicts: []models.Conflict{
			{ID: "b", ServerData: json.RawMessage(`{}`), ClientData: json.RawMessage(`{}`)},
		},
		ServerChanges:     []models.EntityChange{{Type: "task", Data: json.RawMessage(`{}`)}},
		LastSyncTimestamp: 5000,
	}

	return events.Event{
		Type:       events.TypeSyncCompleted,
		UserID:     "user-1",
		OccurredAt: time.Now(),
		Payload: events.SyncCompleted{
			TenantID: "tenant-1",
			Items:    items,
			Result:   result,
		},
	}
}

func TestSyncCompletedHandler_RecordsBatch(t *testing.T) {
	var recorded *BatchRecord
	recorder := &RecorderMock{
		RecordBatchFunc: func(ctx context.Context, batch *BatchRecord) error {
			recorded = batch
			return nil
		},
	}

	handler := NewSyncCompletedHandler(recorder, discardLogger())
	handler(context.Background(), completedEvent())

	require.NotNil(t, recorded)
	assert.NotEmpty(t, recorded.ID)
	assert.Equal(t, "user-1", recorded.UserID)
	assert.Equal(t, "tenant-1", recorded.TenantID)
	assert.Equal(t, 1, recorded.Synced)
	assert.Equal(t, 1, recorded.Failed)
	assert.Equal(t, 1, recorded.Conflicts)
	assert.Equal(t, 1, recorded.ServerChanges)
	assert.Equal(t, int64(5000), recorded.Checkpoint)
	require.Len(t, recorded.Items, 3)

	byID := make(map[string]ItemRecord)
	for _, item := range recorded.Items {
		byID[item.ItemID] = item
	}
	assert.Equal(t, OutcomeSynced, byID["a"].Outcome)
	assert.Equal(t, OutcomeConflict, byID["b"].Outcome)
	assert.Equal(t, OutcomeFailed, byID["c"].Outcome)
	assert.Equal(t, "unknown entity type: bogus", byID["c"].Error)
	assert.Equal(t, "device-1", byID["a"].ClientID)
}

func TestSyncCompletedHandler_RecorderError(t *testing.T) {
	recorder := &RecorderMock{
		RecordBatchFunc: func(ctx context.Context, batch *BatchRecord) error {
			return errors.New("disk full")
		},
	}

	handler := NewSyncCompletedHandler(recorder, discardLogger())

	// Ошибка аудита не должна приводить к panic
	assert.NotPanics(t, func() {
		handler(context.Background(), completedEvent())
	})
}

func TestSyncCompletedHandler_WrongPayload(t *testing.T) {
	recorder := &RecorderMock{
		RecordBatchFunc: func(ctx context.Context, batch *BatchRecord) error {
			t.Fatal("recorder must not be called for malformed payload")
			return nil
		},
	}

	handler := NewSyncCompletedHandler(recorder, discardLogger())
	handler(context.Background(), events.Event{
		Type:    events.TypeSyncCompleted,
		Payload: "not a payload",
	})

	assert.Empty(t, recorder.RecordBatchCalls())
}
