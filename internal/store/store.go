package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"go-sync-ingest/internal/model"
)

// Store is the sqlite-backed storage collaborator: it persists record chunks
// and keeps per-batch bookkeeping (status, errors, logs).
type Store struct {
	db *sql.DB
}

// Open connects to the sqlite database at dbPath and creates the schema if
// needed.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			payload TEXT,
			manual_sync INTEGER,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS batches (
			id TEXT PRIMARY KEY,
			status TEXT,
			record_count INTEGER,
			chunk_count INTEGER,
			processed INTEGER,
			skipped INTEGER,
			result TEXT,
			manual_sync INTEGER,
			provider_manual_sync INTEGER,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS batch_errors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			batch_id TEXT,
			stage TEXT,
			message TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS batch_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			batch_id TEXT,
			stage TEXT,
			level TEXT,
			message TEXT,
			created_at DATETIME
		);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Persist writes one chunk of records in a single transaction: the chunk
// lands whole or not at all. Records are upserted by id, so persisting
// overlapping or duplicate records is safe. Failures come back as typed
// processing errors (DuplicateKey for constraint violations, otherwise
// StorageSaveFailed).
func (s *Store) Persist(ctx context.Context, chunk []model.RawRecord, flags model.SyncFlags) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.NewStorageSaveFailed(err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO messages (id, payload, manual_sync, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`)
	if err != nil {
		return model.NewStorageSaveFailed(err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, rec := range chunk {
		id := rec.Get("id").Raw()
		payload, err := json.Marshal(rec)
		if err != nil {
			return model.NewStorageSaveFailed(err)
		}
		if _, err := stmt.ExecContext(ctx, id, string(payload), flags.IsManualSync, now, now); err != nil {
			return translateSQLite(err, id)
		}
	}

	if err := tx.Commit(); err != nil {
		return model.NewStorageSaveFailed(err)
	}
	return nil
}

// translateSQLite maps a sqlite write error into the processing taxonomy.
func translateSQLite(err error, key string) error {
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint {
		return model.NewDuplicateKey(key)
	}
	return model.NewStorageSaveFailed(err)
}

// SaveBatch records a newly submitted batch.
func (s *Store) SaveBatch(batchID string, recordCount, chunkCount int, flags model.SyncFlags) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(`INSERT INTO batches
		(id, status, record_count, chunk_count, processed, skipped, result, manual_sync, provider_manual_sync, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, 0, '', ?, ?, ?, ?)`,
		batchID, model.StagePending, recordCount, chunkCount,
		flags.IsManualSync, flags.IsProviderManualSync, now, now)
	return err
}

// UpdateBatchStatus moves a batch to a new lifecycle stage.
func (s *Store) UpdateBatchStatus(batchID, status string) error {
	_, err := s.db.Exec(`UPDATE batches SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), batchID)
	return err
}

// SaveBatchResult records the final aggregate for a batch.
func (s *Store) SaveBatchResult(batchID string, result model.PipelineResult) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(`UPDATE batches SET processed = ?, skipped = ?, result = ?, updated_at = ? WHERE id = ?`,
		result.Processed, result.Skipped, result.Status.String(), now, batchID)
	if err != nil {
		return err
	}
	for _, resultErr := range result.Errors {
		if err := s.SaveBatchError(batchID, stageForError(resultErr), resultErr.Error()); err != nil {
			return err
		}
	}
	return nil
}

func stageForError(err error) string {
	var verr model.ValidationError
	if errors.As(err, &verr) {
		return "validation"
	}
	return "processing"
}

// SaveBatchError appends one error row for a batch.
func (s *Store) SaveBatchError(batchID, stage, message string) error {
	_, err := s.db.Exec(`INSERT INTO batch_errors (batch_id, stage, message, created_at) VALUES (?, ?, ?, ?)`,
		batchID, stage, message, time.Now().UTC())
	return err
}

// SaveBatchLog appends one bookkeeping log line for a batch.
func (s *Store) SaveBatchLog(batchID, stage, level, message string) error {
	_, err := s.db.Exec(`INSERT INTO batch_logs (batch_id, stage, level, message, created_at) VALUES (?, ?, ?, ?, ?)`,
		batchID, stage, level, message, time.Now().UTC())
	return err
}

// ListBatches returns all batches, most recent first.
func (s *Store) ListBatches() ([]model.BatchInfo, error) {
	rows, err := s.db.Query(`SELECT id, status, record_count, chunk_count, processed, skipped, result, manual_sync, provider_manual_sync, created_at, updated_at
		FROM batches ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []model.BatchInfo
	for rows.Next() {
		var b model.BatchInfo
		if err := rows.Scan(&b.ID, &b.Status, &b.RecordCount, &b.ChunkCount, &b.Processed, &b.Skipped,
			&b.Result, &b.Flags.IsManualSync, &b.Flags.IsProviderManualSync, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// GetBatch fetches one batch's bookkeeping row.
func (s *Store) GetBatch(batchID string) (model.BatchInfo, error) {
	var b model.BatchInfo
	err := s.db.QueryRow(`SELECT id, status, record_count, chunk_count, processed, skipped, result, manual_sync, provider_manual_sync, created_at, updated_at
		FROM batches WHERE id = ?`, batchID).
		Scan(&b.ID, &b.Status, &b.RecordCount, &b.ChunkCount, &b.Processed, &b.Skipped,
			&b.Result, &b.Flags.IsManualSync, &b.Flags.IsProviderManualSync, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return model.BatchInfo{}, fmt.Errorf("batch %s: %w", batchID, err)
	}
	return b, nil
}

// GetBatchErrors returns every recorded error for a batch, in report order.
func (s *Store) GetBatchErrors(batchID string) ([]model.BatchError, error) {
	rows, err := s.db.Query(`SELECT stage, message, created_at FROM batch_errors WHERE batch_id = ? ORDER BY id`, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errs []model.BatchError
	for rows.Next() {
		var e model.BatchError
		if err := rows.Scan(&e.Stage, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		errs = append(errs, e)
	}
	return errs, rows.Err()
}

// GetBatchLogs returns a batch's bookkeeping log lines, oldest first.
func (s *Store) GetBatchLogs(batchID string) ([]model.BatchLog, error) {
	rows, err := s.db.Query(`SELECT stage, level, message, created_at FROM batch_logs WHERE batch_id = ? ORDER BY id`, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []model.BatchLog
	for rows.Next() {
		var l model.BatchLog
		if err := rows.Scan(&l.Stage, &l.Level, &l.Message, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// ListRecords returns the persisted record payloads, decoded back into loose
// values, most recently written first.
func (s *Store) ListRecords(limit int) ([]model.RawRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`SELECT payload FROM messages ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.RawRecord
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var rec model.RawRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
