// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jobstore persists a local record of every batch job handed
// to the Gemini Batch API, so a follow-on status or download step can
// find the job identifiers without scraping console output.
package jobstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paperbatch/pkg/types"
)

const dbFile = "submissions.db"

// Store manages the submissions SQLite database.
type Store struct {
	db      *sql.DB
	jobsDir string
}

// NewStore opens or creates the submissions database at
// jobsDir/submissions.db, creating the schema if needed.
func NewStore(cfg types.JobStoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.JobsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating jobs directory: %w", err)
	}

	dbPath := filepath.Join(cfg.JobsDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, jobsDir: cfg.JobsDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS submissions (
			id TEXT PRIMARY KEY,
			job_name TEXT NOT NULL,
			model TEXT,
			input_file_uri TEXT,
			manifest_path TEXT,
			request_count INTEGER,
			state TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_created
			ON submissions(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Record inserts a submission. A missing ID gets a fresh UUID and a
// zero CreatedAt gets the current time; the passed struct is updated
// in place so the caller sees the final record.
func (s *Store) Record(ctx context.Context, sub *types.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions
			(id, job_name, model, input_file_uri, manifest_path, request_count, state, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.JobName, sub.Model, sub.InputFileURI, sub.ManifestPath,
		sub.RequestCount, sub.State, sub.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting submission %s: %w", sub.JobName, err)
	}
	return nil
}

// List returns all recorded submissions, newest first.
func (s *Store) List(ctx context.Context) ([]types.Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, job_name, model, input_file_uri, manifest_path, request_count, state, created_at
		FROM submissions ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying submissions: %w", err)
	}
	defer rows.Close()

	var subs []types.Submission
	for rows.Next() {
		var sub types.Submission
		var created string
		if err := rows.Scan(&sub.ID, &sub.JobName, &sub.Model, &sub.InputFileURI,
			&sub.ManifestPath, &sub.RequestCount, &sub.State, &created); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			sub.CreatedAt = t
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
