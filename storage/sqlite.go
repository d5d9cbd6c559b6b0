package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"golddigger/models"
)

// SQLiteStore keeps operational data (run history) separate from the
// Postgres domain store.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS enrichment_runs (
		id INTEGER PRIMARY KEY,
		run_id TEXT NOT NULL,
		started_at DATETIME,
		finished_at DATETIME,
		status TEXT,
		classified INTEGER DEFAULT 0,
		extracted INTEGER DEFAULT 0,
		valued INTEGER DEFAULT 0,
		scored INTEGER DEFAULT 0,
		failed INTEGER DEFAULT 0,
		error_message TEXT DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON enrichment_runs(started_at);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// StartRun records the beginning of a pipeline run and returns the row id.
func (s *SQLiteStore) StartRun(runID string) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO enrichment_runs (run_id, started_at, status) VALUES (?, ?, ?)`,
		runID, time.Now(), models.RunStatusRunning)
	if err != nil {
		return 0, fmt.Errorf("start run: %w", err)
	}
	return result.LastInsertId()
}

// FinishRun records the outcome of a pipeline run.
func (s *SQLiteStore) FinishRun(id int64, report *models.RunReport, errMsg string) error {
	failed := 0
	for _, stage := range report.Stages {
		failed += stage.Failed
	}

	_, err := s.db.Exec(`
		UPDATE enrichment_runs SET
			finished_at = ?, status = ?,
			classified = ?, extracted = ?, valued = ?, scored = ?,
			failed = ?, error_message = ?
		WHERE id = ?`,
		report.FinishedAt, report.Status,
		report.Stage(models.StageClassify).Processed,
		report.Stage(models.StageExtract).Processed,
		report.Stage(models.StageValuation).Processed,
		report.Stage(models.StageScoring).Processed,
		failed, errMsg, id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecentRuns returns the newest run records, most recent first.
func (s *SQLiteStore) RecentRuns(limit int) ([]models.EnrichmentRun, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, started_at, finished_at, status,
			classified, extracted, valued, scored, failed, error_message
		FROM enrichment_runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	defer rows.Close()

	var runs []models.EnrichmentRun
	for rows.Next() {
		var r models.EnrichmentRun
		err := rows.Scan(&r.ID, &r.RunID, &r.StartedAt, &r.FinishedAt, &r.Status,
			&r.Classified, &r.Extracted, &r.Valued, &r.Scored, &r.Failed, &r.ErrorMessage)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
