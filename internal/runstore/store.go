// Package runstore persists lint-fix runs and their per-issue outcomes in SQLite.
package runstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/hochfrequenz/acc/internal/domain"
)

// ErrRunNotFound is returned when no run has the requested ID
var ErrRunNotFound = errors.New("run not found")

// Store provides SQLite-backed run history
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path. The parent
// directory is created if needed.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// One connection keeps :memory: databases and write ordering consistent.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}

	// Run migrations
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// StartRun records a new run as running. An empty ID is replaced with a
// fresh UUID and a zero StartedAt with the current time.
func (s *Store) StartRun(run *domain.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.Outcome = domain.RunRunning

	_, err := s.db.Exec(`
		INSERT INTO runs (id, lint_command, work_dir, parser_model, fix_model, concurrency, outcome, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.LintCommand,
		run.WorkDir,
		run.ParserModel,
		run.FixModel,
		run.Concurrency,
		string(run.Outcome),
		run.StartedAt,
	)
	return err
}

// FinishRun stores the outcome of a run. A nil FinishedAt is set to now.
func (s *Store) FinishRun(run *domain.Run) error {
	if run.FinishedAt == nil {
		now := time.Now()
		run.FinishedAt = &now
	}

	res, err := s.db.Exec(`
		UPDATE runs SET outcome = ?, issue_count = ?, unresolved_count = ?, error_message = ?, finished_at = ?
		WHERE id = ?
	`,
		string(run.Outcome),
		run.IssueCount,
		run.UnresolvedCount,
		run.ErrorMessage,
		*run.FinishedAt,
		run.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run %s: %w", run.ID, ErrRunNotFound)
	}
	return nil
}

// SaveIssues stores the issues of a run together with their fix results,
// replacing any previously stored issues of that run.
func (s *Store) SaveIssues(runID string, result domain.RunResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM issues WHERE run_id = ?`, runID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO issues (run_id, idx, file_path, loc, col, lint_message, suggestions_text, status, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, issue := range result.Issues {
		fix, _ := result.ResultFor(i)
		if _, err := stmt.Exec(runID, i, issue.FilePath, issue.Loc, issue.Column, issue.LintMessage, issue.SuggestionsText, fix.Status, fix.Summary); err != nil {
			return fmt.Errorf("saving issue %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Complete finishes run from the outcome of a pipeline execution and stores
// its issues. runErr marks the run failed; its issues are then not stored.
func (s *Store) Complete(run *domain.Run, result domain.RunResult, runErr error) error {
	run.Finish(result, runErr, time.Now())

	if err := s.FinishRun(run); err != nil {
		return err
	}
	if runErr != nil || len(result.Issues) == 0 {
		return nil
	}
	return s.SaveIssues(run.ID, result)
}

const runColumns = `id, lint_command, work_dir, parser_model, fix_model, concurrency, outcome, issue_count, unresolved_count, error_message, started_at, finished_at`

// GetRun retrieves a run by ID
func (s *Store) GetRun(id string) (*domain.Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	return run, err
}

// ListRecentRuns returns up to limit runs, newest first. A limit of zero or
// less returns all runs.
func (s *Store) ListRecentRuns(limit int) ([]*domain.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListIssues returns the stored issues of a run in their original order
func (s *Store) ListIssues(runID string) ([]domain.IssueRecord, error) {
	rows, err := s.db.Query(`
		SELECT run_id, idx, file_path, loc, col, lint_message, suggestions_text, status, summary
		FROM issues WHERE run_id = ? ORDER BY idx
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.IssueRecord
	for rows.Next() {
		var rec domain.IssueRecord
		var suggestions, status, summary sql.NullString
		if err := rows.Scan(&rec.RunID, &rec.Index, &rec.Issue.FilePath, &rec.Issue.Loc, &rec.Issue.Column,
			&rec.Issue.LintMessage, &suggestions, &status, &summary); err != nil {
			return nil, err
		}
		rec.Issue.SuggestionsText = suggestions.String
		rec.Status = status.String
		rec.Summary = summary.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*domain.Run, error) {
	var run domain.Run
	var outcome string
	var workDir, parserModel, fixModel, errMsg sql.NullString
	var finishedAt sql.NullTime

	err := row.Scan(&run.ID, &run.LintCommand, &workDir, &parserModel, &fixModel, &run.Concurrency, &outcome,
		&run.IssueCount, &run.UnresolvedCount, &errMsg, &run.StartedAt, &finishedAt)
	if err != nil {
		return nil, err
	}

	run.Outcome = domain.RunOutcome(outcome)
	run.WorkDir = workDir.String
	run.ParserModel = parserModel.String
	run.FixModel = fixModel.String
	run.ErrorMessage = errMsg.String
	if finishedAt.Valid {
		t := finishedAt.Time
		run.FinishedAt = &t
	}
	return &run, nil
}
