// Package sqlite реализует audit.Recorder поверх SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/motahq/mota-sync/internal/audit"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store represents SQLite-backed audit recorder
type Store struct {
	db *sql.DB
}

// New creates a new SQLite audit store.
// dbPath is the path to the SQLite database file.
// Use ":memory:" for in-memory database (useful for testing).
func New(ctx context.Context, dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite с WAL mode: несколько читателей, один писатель
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	store := &Store{db: db}

	if err := store.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// runMigrations выполняет миграции из embedded FS
func (s *Store) runMigrations() error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	goose.SetBaseFS(embedMigrations)

	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// RecordBatch сохраняет батч и его элементы в одной транзакции
func (s *Store) RecordBatch(ctx context.Context, batch *audit.BatchRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sync_batches (
			id, user_id, tenant_id, synced, failed, conflicts,
			server_changes, checkpoint, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		batch.ID,
		batch.UserID,
		batch.TenantID,
		batch.Synced,
		batch.Failed,
		batch.Conflicts,
		batch.ServerChanges,
		batch.Checkpoint,
		batch.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert batch: %w", err)
	}

	for _, item := range batch.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sync_items (
				batch_id, item_id, client_id, entity_type,
				entity_id, operation, outcome, error
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			batch.ID,
			item.ItemID,
			item.ClientID,
			item.EntityType,
			item.EntityID,
			item.Operation,
			string(item.Outcome),
			item.Error,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item %s: %w", item.ItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}

	return nil
}

// RecentBatches возвращает последние батчи пользователя, новые первыми
func (s *Store) RecentBatches(ctx context.Context, userID string, limit int) ([]*audit.BatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, tenant_id, synced, failed, conflicts,
		       server_changes, checkpoint, created_at
		FROM sync_batches
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	defer rows.Close()

	var batches []*audit.BatchRecord
	for rows.Next() {
		var batch audit.BatchRecord
		var createdAt int64
		err := rows.Scan(
			&batch.ID,
			&batch.UserID,
			&batch.TenantID,
			&batch.Synced,
			&batch.Failed,
			&batch.Conflicts,
			&batch.ServerChanges,
			&batch.Checkpoint,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batch.CreatedAt = time.UnixMilli(createdAt)
		batches = append(batches, &batch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate batches: %w", err)
	}

	// Догружаем элементы батчей
	for _, batch := range batches {
		items, err := s.batchItems(ctx, batch.ID)
		if err != nil {
			return nil, err
		}
		batch.Items = items
	}

	return batches, nil
}

// batchItems возвращает элементы одного батча
func (s *Store) batchItems(ctx context.Context, batchID string) ([]audit.ItemRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, client_id, entity_type, entity_id, operation, outcome, error
		FROM sync_items
		WHERE batch_id = ?
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []audit.ItemRecord
	for rows.Next() {
		var item audit.ItemRecord
		var outcome string
		err := rows.Scan(
			&item.ItemID,
			&item.ClientID,
			&item.EntityType,
			&item.EntityID,
			&item.Operation,
			&outcome,
			&item.Error,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.Outcome = audit.ItemOutcome(outcome)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}
