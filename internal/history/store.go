// Package history persists terminal scans in SQLite so past verdicts can be
// listed and inspected. The controller works without it; a nil recorder
// simply disables persistence.
package history

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phishguard/phishguard/internal/logging"
	"github.com/phishguard/phishguard/internal/model"

	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed schema.sql
var schemaFS embed.FS

// ErrScanNotFound is returned when no record exists for an ID.
var ErrScanNotFound = errors.New("scan not found")

// Store manages scan records in SQLite. It implements controller.Recorder.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// NewStore returns a Store and runs migrations from schema.sql.
// db should typically be the SQLite DB at <storage root>/history.db.
func NewStore(db *sql.DB, logger logging.Logger) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return nil, fmt.Errorf("failed to execute schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Record inserts a terminal scan and assigns it a fresh ID.
func (s *Store) Record(ctx context.Context, rec model.ScanRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	reasons := rec.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	reasonsJSON, err := json.Marshal(reasons)
	if err != nil {
		return fmt.Errorf("marshal reasons: %w", err)
	}

	var confidence any
	if rec.Confidence != nil {
		confidence = *rec.Confidence
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scans (id, url, phase, is_phishing, confidence, reasons, error_kind, error_message, submitted_at, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.URL,
		string(rec.Phase),
		boolToInt(rec.IsPhishing),
		confidence,
		string(reasonsJSON),
		string(rec.ErrorKind),
		rec.ErrorMessage,
		rec.SubmittedAt.UTC().Format(time.RFC3339Nano),
		rec.ResolvedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}

	s.logger.Debug("recorded scan",
		logging.Field{Key: "id", Value: rec.ID},
		logging.Field{Key: "url", Value: rec.URL})
	return nil
}

// ListScans returns the most recent scans, newest first. limit <= 0 means a
// default of 50.
func (s *Store) ListScans(ctx context.Context, limit int) ([]model.ScanRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, phase, is_phishing, confidence, reasons, error_kind, error_message, submitted_at, resolved_at
		FROM scans
		ORDER BY submitted_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	var out []model.ScanRecord
	for rows.Next() {
		rec, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetScan returns a single record by ID, or ErrScanNotFound.
func (s *Store) GetScan(ctx context.Context, id string) (*model.ScanRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, phase, is_phishing, confidence, reasons, error_kind, error_message, submitted_at, resolved_at
		FROM scans
		WHERE id = ?`, id)

	rec, err := scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(row rowScanner) (model.ScanRecord, error) {
	var (
		rec          model.ScanRecord
		phase        string
		isPhishing   int
		confidence   sql.NullFloat64
		reasonsJSON  string
		errorKind    string
		submittedStr string
		resolvedStr  string
	)

	err := row.Scan(&rec.ID, &rec.URL, &phase, &isPhishing, &confidence,
		&reasonsJSON, &errorKind, &rec.ErrorMessage, &submittedStr, &resolvedStr)
	if err != nil {
		return model.ScanRecord{}, err
	}

	rec.Phase = model.Phase(phase)
	rec.IsPhishing = isPhishing != 0
	rec.ErrorKind = model.ErrorKind(errorKind)
	if confidence.Valid {
		rec.Confidence = &confidence.Float64
	}
	if err := json.Unmarshal([]byte(reasonsJSON), &rec.Reasons); err != nil {
		return model.ScanRecord{}, fmt.Errorf("unmarshal reasons: %w", err)
	}
	if rec.SubmittedAt, err = time.Parse(time.RFC3339Nano, submittedStr); err != nil {
		return model.ScanRecord{}, fmt.Errorf("parse submitted_at: %w", err)
	}
	if rec.ResolvedAt, err = time.Parse(time.RFC3339Nano, resolvedStr); err != nil {
		return model.ScanRecord{}, fmt.Errorf("parse resolved_at: %w", err)
	}
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
