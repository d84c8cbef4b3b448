package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motahq/mota-sync/internal/audit"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := New(context.Background(), ":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

func testBatch(userID string, createdAt time.Time) *audit.BatchRecord {
	return &audit.BatchRecord{
		ID:            ulid.Make().String(),
		UserID:        userID,
		TenantID:      "tenant-1",
		Synced:        2,
		Failed:        1,
		Conflicts:     1,
		ServerChanges: 3,
		Checkpoint:    createdAt.UnixMilli(),
		CreatedAt:     createdAt,
		Items: []audit.ItemRecord{
			{ItemID: "a", ClientID: "device-1", EntityType: "task", EntityID: "t1", Operation: "UPDATE", Outcome: audit.OutcomeSynced},
			{ItemID: "b", ClientID: "device-1", EntityType: "task", EntityID: "t2", Operation: "UPDATE", Outcome: audit.OutcomeConflict},
			{ItemID: "c", ClientID: "device-1", EntityType: "bogus", EntityID: "x", Operation: "CREATE", Outcome: audit.OutcomeFailed, Error: "unknown entity type: bogus"},
			{ItemID: "d", ClientID: "device-2", EntityType: "project", EntityID: "p1", Operation: "DELETE", Outcome: audit.OutcomeSynced},
		},
	}
}

func TestStore_RecordAndRead(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	batch := testBatch("user-1", time.Now())
	require.NoError(t, store.RecordBatch(ctx, batch))

	batches, err := store.RecentBatches(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, batches, 1)

	got := batches[0]
	assert.Equal(t, batch.ID, got.ID)
	assert.Equal(t, "tenant-1", got.TenantID)
	assert.Equal(t, 2, got.Synced)
	assert.Equal(t, 1, got.Failed)
	assert.Equal(t, 1, got.Conflicts)
	assert.Equal(t, 3, got.ServerChanges)
	assert.Equal(t, batch.Checkpoint, got.Checkpoint)
	require.Len(t, got.Items, 4)

	byID := make(map[string]audit.ItemRecord)
	for _, item := range got.Items {
		byID[item.ItemID] = item
	}
	assert.Equal(t, audit.OutcomeConflict, byID["b"].Outcome)
	assert.Equal(t, "unknown entity type: bogus", byID["c"].Error)
	assert.Equal(t, "device-2", byID["d"].ClientID)
}

func TestStore_RecentBatches_Order(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now()
	old := testBatch("user-1", base.Add(-time.Hour))
	fresh := testBatch("user-1", base)
	require.NoError(t, store.RecordBatch(ctx, old))
	require.NoError(t, store.RecordBatch(ctx, fresh))

	batches, err := store.RecentBatches(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, fresh.ID, batches[0].ID)
	assert.Equal(t, old.ID, batches[1].ID)
}

func TestStore_RecentBatches_Limit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.RecordBatch(ctx, testBatch("user-1", time.Now().Add(time.Duration(i)*time.Second))))
	}

	batches, err := store.RecentBatches(ctx, "user-1", 3)
	require.NoError(t, err)
	assert.Len(t, batches, 3)
}

func TestStore_RecentBatches_FiltersByUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordBatch(ctx, testBatch("user-1", time.Now())))
	require.NoError(t, store.RecordBatch(ctx, testBatch("user-2", time.Now())))

	batches, err := store.RecentBatches(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "user-1", batches[0].UserID)
}

func TestStore_RecordBatch_DuplicateID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	batch := testBatch("user-1", time.Now())
	require.NoError(t, store.RecordBatch(ctx, batch))

	err := store.RecordBatch(ctx, batch)
	assert.Error(t, err)
}
