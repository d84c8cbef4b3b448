// Package boltdb реализует status.Store поверх BoltDB.
package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/motahq/mota-sync/internal/status"
)

var bucketSyncStatus = []byte("sync_status")

// DefaultTTL время жизни checkpoint'а; протухшая запись означает,
// что клиенту нужен full sync
const DefaultTTL = 24 * time.Hour

// entry формат значения в bucket: checkpoint плюс срок годности
type entry struct {
	LastSyncTimestamp int64 `json:"lastSyncTimestamp"`
	ExpiresAt         int64 `json:"expiresAt"` // epoch millis
}

// Store represents BoltDB-backed sync status store
type Store struct {
	db  *bbolt.DB
	ttl time.Duration
	now func() time.Time
}

// New creates a new BoltDB status store.
// dbPath is the path to the BoltDB database file.
// ttl <= 0 falls back to DefaultTTL.
func New(ctx context.Context, dbPath string, ttl time.Duration) (*Store, error) {
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	store := &Store{db: db, ttl: ttl, now: time.Now}

	// Инициализируем bucket
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketSyncStatus); err != nil {
			return fmt.Errorf("failed to create sync_status bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get возвращает checkpoint пользователя.
// Протухшая запись удаляется лениво и трактуется как отсутствующая.
func (s *Store) Get(ctx context.Context, userID string) (*status.SyncStatus, error) {
	var result *status.SyncStatus
	expired := false

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSyncStatus)
		if bucket == nil {
			return fmt.Errorf("sync_status bucket not found")
		}

		value := bucket.Get([]byte(userID))
		if value == nil {
			return status.ErrStatusNotFound
		}

		var e entry
		if err := json.Unmarshal(value, &e); err != nil {
			return fmt.Errorf("failed to unmarshal sync status: %w", err)
		}

		if e.ExpiresAt <= s.now().UnixMilli() {
			expired = true
			return status.ErrStatusNotFound
		}

		result = &status.SyncStatus{LastSyncTimestamp: e.LastSyncTimestamp}
		return nil
	})

	if expired {
		// Лениво подчищаем протухшую запись; ошибка здесь не критична
		_ = s.db.Update(func(tx *bbolt.Tx) error {
			bucket := tx.Bucket(bucketSyncStatus)
			if bucket == nil {
				return nil
			}
			return bucket.Delete([]byte(userID))
		})
	}

	if err != nil {
		return nil, err
	}
	return result, nil
}

// Save перезаписывает checkpoint пользователя и сбрасывает TTL
func (s *Store) Save(ctx context.Context, userID string, st *status.SyncStatus) error {
	e := entry{
		LastSyncTimestamp: st.LastSyncTimestamp,
		ExpiresAt:         s.now().Add(s.ttl).UnixMilli(),
	}

	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal sync status: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSyncStatus)
		if bucket == nil {
			return fmt.Errorf("sync_status bucket not found")
		}

		if err := bucket.Put([]byte(userID), value); err != nil {
			return fmt.Errorf("failed to save sync status: %w", err)
		}

		return nil
	})
}
