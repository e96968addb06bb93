package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/JNZader/commitlint/internal/lint"
)

// Store provides SQLite-based lint history storage.
type Store struct {
	db *sql.DB
}

// StoreConfig configures the history store.
type StoreConfig struct {
	// Path is the SQLite database file path
	Path string
}

// NewStore opens or creates the database at cfg.Path.
func NewStore(cfg StoreConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uuid TEXT NOT NULL UNIQUE,
			source TEXT NOT NULL,
			strict BOOLEAN DEFAULT FALSE,
			messages INTEGER NOT NULL,
			ignored INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			warnings INTEGER NOT NULL,
			valid BOOLEAN NOT NULL,
			created_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS failures (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL,
			commit_hash TEXT,
			header TEXT NOT NULL,
			rule TEXT NOT NULL,
			severity TEXT NOT NULL,
			message TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,

		`CREATE VIRTUAL TABLE IF NOT EXISTS failures_fts USING fts5(
			header,
			message,
			content='failures',
			content_rowid='id'
		)`,

		`CREATE TRIGGER IF NOT EXISTS failures_ai AFTER INSERT ON failures BEGIN
			INSERT INTO failures_fts(rowid, header, message)
			VALUES (new.id, new.header, new.message);
		END`,

		`CREATE TRIGGER IF NOT EXISTS failures_ad AFTER DELETE ON failures BEGIN
			INSERT INTO failures_fts(failures_fts, rowid, header, message)
			VALUES ('delete', old.id, old.header, old.message);
		END`,

		`CREATE INDEX IF NOT EXISTS idx_failures_run ON failures(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_rule ON failures(rule)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_commit ON failures(commit_hash)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_created ON failures(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// NewRunRecord summarizes outcomes into a record ready to store.
func NewRunRecord(source string, strict bool, outcomes []*lint.Outcome) *RunRecord {
	summary := lint.Summarize(outcomes)
	run := &RunRecord{
		UUID:      uuid.NewString(),
		Source:    source,
		Strict:    strict,
		Messages:  summary.Messages,
		Ignored:   summary.Ignored,
		Errors:    summary.Errors,
		Warnings:  summary.Warnings,
		Valid:     !summary.Failed(strict),
		CreatedAt: time.Now().UTC(),
	}

	for _, o := range outcomes {
		for _, f := range append(append([]lint.ValidationFailure{}, o.Errors...), o.Warnings...) {
			run.Failures = append(run.Failures, FailureRecord{
				CommitHash: o.ID,
				Header:     o.Header,
				Rule:       f.Rule,
				Severity:   f.Severity.String(),
				Message:    f.Message,
				CreatedAt:  run.CreatedAt,
			})
		}
	}
	return run
}

// Record saves a run and its failures in a transaction.
func (s *Store) Record(ctx context.Context, run *RunRecord) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if run.UUID == "" {
		run.UUID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `INSERT INTO runs (
		uuid, source, strict, messages, ignored, errors, warnings, valid, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.UUID, run.Source, run.Strict, run.Messages, run.Ignored,
		run.Errors, run.Warnings, run.Valid, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	run.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO failures (
		run_id, commit_hash, header, rule, severity, message, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i := range run.Failures {
		f := &run.Failures[i]
		if f.CreatedAt.IsZero() {
			f.CreatedAt = run.CreatedAt
		}
		result, err := stmt.ExecContext(ctx,
			run.ID, f.CommitHash, f.Header, f.Rule, f.Severity, f.Message, f.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting failure: %w", err)
		}
		id, _ := result.LastInsertId()
		f.ID = id
		f.RunID = run.ID
	}

	return tx.Commit()
}

// List returns failures matching q, newest first.
func (s *Store) List(ctx context.Context, q Query) (*SearchResult, error) {
	var args []interface{}
	var conditions []string

	if q.Text != "" {
		conditions = append(conditions, "f.id IN (SELECT rowid FROM failures_fts WHERE failures_fts MATCH ?)")
		args = append(args, q.Text)
	}
	if q.Rule != "" {
		conditions = append(conditions, "f.rule = ?")
		args = append(args, q.Rule)
	}
	if q.Severity != "" {
		conditions = append(conditions, "f.severity = ?")
		args = append(args, q.Severity)
	}
	if q.CommitHash != "" {
		conditions = append(conditions, "f.commit_hash LIKE ?")
		args = append(args, q.CommitHash+"%")
	}
	if !q.Since.IsZero() {
		conditions = append(conditions, "f.created_at >= ?")
		args = append(args, q.Since.UTC())
	}
	if !q.Until.IsZero() {
		conditions = append(conditions, "f.created_at <= ?")
		args = append(args, q.Until.UTC())
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM failures f " + whereClause //nolint:gosec // Query built with parameterized args
	var totalCount int64
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("counting results: %w", err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}

	//nolint:gosec // Query built with parameterized args, whereClause uses placeholders
	selectQuery := `
		SELECT id, run_id, commit_hash, header, rule, severity, message, created_at
		FROM failures f
		` + whereClause + `
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	args = append(args, limit, q.Offset)

	rows, err := s.db.QueryContext(ctx, selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	records := make([]FailureRecord, 0)
	for rows.Next() {
		var f FailureRecord
		var hash sql.NullString
		if err := rows.Scan(
			&f.ID, &f.RunID, &hash, &f.Header, &f.Rule, &f.Severity, &f.Message, &f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		f.CommitHash = hash.String
		records = append(records, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}

	return &SearchResult{Records: records, TotalCount: totalCount}, nil
}

// Runs returns the most recent runs without their failures.
func (s *Store) Runs(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, uuid, source, strict, messages, ignored, errors, warnings, valid, created_at
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunRecord, 0)
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(
			&r.ID, &r.UUID, &r.Source, &r.Strict, &r.Messages, &r.Ignored,
			&r.Errors, &r.Warnings, &r.Valid, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Stats returns aggregate statistics.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		BySeverity: make(map[string]int64),
		ByRule:     make(map[string]int64),
	}

	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN valid THEN 0 ELSE 1 END), 0)
		FROM runs
	`).Scan(&stats.TotalRuns, &stats.FailedRuns); err != nil {
		return nil, fmt.Errorf("querying stats: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM failures`).Scan(&stats.TotalFailures); err != nil {
		return nil, fmt.Errorf("querying stats: %w", err)
	}

	if err := s.countBy(ctx, `SELECT severity, COUNT(*) FROM failures GROUP BY severity`, stats.BySeverity); err != nil {
		return nil, err
	}
	if err := s.countBy(ctx, `
		SELECT rule, COUNT(*) AS cnt
		FROM failures
		GROUP BY rule
		ORDER BY cnt DESC
		LIMIT 10
	`, stats.ByRule); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *Store) countBy(ctx context.Context, query string, into map[string]int64) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("querying stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
		into[key] = count
	}
	return rows.Err()
}

// Prune deletes runs older than maxAge and returns how many were removed.
func (s *Store) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM failures WHERE run_id IN (SELECT id FROM runs WHERE created_at < ?)
	`, cutoff); err != nil {
		return 0, fmt.Errorf("pruning failures: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
