package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"mercator-hq/ganymede/pkg/invariant"
	"mercator-hq/ganymede/pkg/runner"
)

// SQLiteConfig contains configuration for the SQLite journal backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default journal configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/journal.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// RunRecord is a stored run summary.
type RunRecord struct {
	RunID          string    `json:"run_id"`
	StartedAt      time.Time `json:"started_at"`
	DurationMillis int64     `json:"duration_ms"`
	Passed         bool      `json:"passed"`
	InvariantCount int       `json:"invariant_count"`
	FailureCount   int       `json:"failure_count"`
	RecordedAt     time.Time `json:"recorded_at"`
}

// SQLiteJournal persists runs to SQLite. It implements runner.Journal.
type SQLiteJournal struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteJournal creates a new SQLite-backed journal.
// It initializes the database schema and enables WAL mode if configured.
func NewSQLiteJournal(config *SQLiteConfig, logger *slog.Logger) (*SQLiteJournal, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "journal.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, newStorageError("open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	j := &SQLiteJournal{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := j.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("journal initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return j, nil
}

// initialize sets up the schema and pragmas.
func (j *SQLiteJournal) initialize() error {
	if j.config.WALMode {
		if _, err := j.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return newStorageError("enable_wal", err)
		}
	}

	if _, err := j.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", j.config.BusyTimeout.Milliseconds())); err != nil {
		return newStorageError("set_busy_timeout", err)
	}

	if _, err := j.db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return newStorageError("enable_foreign_keys", err)
	}

	if _, err := j.db.Exec(Schema); err != nil {
		return newStorageError("create_schema", err)
	}

	if _, err := j.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return newStorageError("insert_schema_version", err)
	}

	var version int
	err := j.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return newStorageError("get_schema_version", err)
	}
	if version != SchemaVersion {
		return newStorageError("schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// RecordRun persists a completed run and all of its results atomically.
func (j *SQLiteJournal) RecordRun(ctx context.Context, report *runner.Report) error {
	if report == nil {
		return newStorageError("record_run", fmt.Errorf("report cannot be nil"))
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return newStorageError("begin_tx", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, duration_ms, passed, invariant_count, failure_count, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.RunID,
		report.StartedAt.UTC(),
		report.Duration.Milliseconds(),
		report.Passed,
		len(report.Results),
		report.FailureCount(),
		time.Now().UTC(),
	)
	if err != nil {
		return newStorageError("insert_run", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (id, run_id, invariant_name, severity, passed, message)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return newStorageError("prepare_result", err)
	}
	defer stmt.Close()

	for _, res := range report.Results {
		_, err := stmt.ExecContext(ctx,
			uuid.NewString(),
			report.RunID,
			res.InvariantName,
			string(res.Severity),
			res.Passed,
			res.Message,
		)
		if err != nil {
			return newStorageError("insert_result", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return newStorageError("commit", err)
	}

	j.logger.Debug("run journaled",
		"run_id", report.RunID,
		"result_count", len(report.Results),
	)

	return nil
}

// RecentRuns returns up to limit run summaries, newest first.
func (j *SQLiteJournal) RecentRuns(ctx context.Context, limit int) ([]*RunRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, started_at, duration_ms, passed, invariant_count, failure_count, recorded_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, newStorageError("query_runs", err)
	}
	defer rows.Close()

	records := []*RunRecord{}
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(
			&rec.RunID, &rec.StartedAt, &rec.DurationMillis,
			&rec.Passed, &rec.InvariantCount, &rec.FailureCount, &rec.RecordedAt,
		); err != nil {
			return nil, newStorageError("scan_run", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, newStorageError("iterate_runs", err)
	}

	return records, nil
}

// ResultsForRun returns every stored result for the given run, in
// insertion order.
func (j *SQLiteJournal) ResultsForRun(ctx context.Context, runID string) ([]invariant.Result, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT invariant_name, severity, passed, message
		 FROM results WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, newStorageError("query_results", err)
	}
	defer rows.Close()

	results := []invariant.Result{}
	for rows.Next() {
		var res invariant.Result
		var severity string
		if err := rows.Scan(&res.InvariantName, &severity, &res.Passed, &res.Message); err != nil {
			return nil, newStorageError("scan_result", err)
		}
		res.Severity = invariant.Severity(severity)
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, newStorageError("iterate_results", err)
	}

	return results, nil
}

// CountRuns returns the total number of stored runs.
func (j *SQLiteJournal) CountRuns(ctx context.Context) (int64, error) {
	var count int64
	if err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&count); err != nil {
		return 0, newStorageError("count_runs", err)
	}
	return count, nil
}

// DeleteOlderThan deletes runs (and their results) that started before
// the cutoff. Returns the number of runs deleted.
func (j *SQLiteJournal) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, newStorageError("begin_tx", err)
	}
	defer tx.Rollback()

	// Results are not deleted by cascade on all sqlite builds; delete
	// them explicitly first.
	_, err = tx.ExecContext(ctx,
		`DELETE FROM results WHERE run_id IN (SELECT id FROM runs WHERE started_at < ?)`,
		cutoff.UTC())
	if err != nil {
		return 0, newStorageError("delete_results", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, newStorageError("delete_runs", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, newStorageError("rows_affected", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, newStorageError("commit", err)
	}

	return deleted, nil
}

// Close closes the underlying database.
func (j *SQLiteJournal) Close() error {
	if err := j.db.Close(); err != nil {
		return newStorageError("close", err)
	}
	return nil
}
