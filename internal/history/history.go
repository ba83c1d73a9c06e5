// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history persists benchmark runs to a local SQLite database.
package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/onnxbench/internal/benchmark"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotFound      = errors.New("run not found")
	ErrDatabaseError = errors.New("database error")
)

// =============================================================================
// STORE
// =============================================================================

// Store is a SQLite-backed archive of benchmark runs.
type Store struct {
	db *sql.DB
}

// Open opens the default history database at ~/.onnxbench/history.db,
// creating it if necessary.
func Open() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not determine home directory: %w", err)
	}
	return OpenAt(filepath.Join(home, ".onnxbench", "history.db"))
}

// OpenAt opens (or creates) a history database at the given path.
func OpenAt(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// initSchema creates the database schema
func (s *Store) initSchema() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return err
	}
	_, err := s.db.Exec(InitMetadata)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// WRITE OPERATIONS
// =============================================================================

// Save records one benchmark run. The run's ID must be unique; saving the
// same ID twice returns an error.
func (s *Store) Save(r *benchmark.Result) error {
	if r == nil {
		return errors.New("result cannot be nil")
	}
	if r.ID == "" {
		return errors.New("result has no ID")
	}

	samples, err := json.Marshal(r.Samples)
	if err != nil {
		return fmt.Errorf("failed to encode samples: %w", err)
	}
	errList, err := json.Marshal(r.Errors)
	if err != nil {
		return fmt.Errorf("failed to encode errors: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO runs (
			id, model, start_time, end_time, duration_ns, concurrency,
			total_requests, successful_requests, failed_requests,
			avg_latency_ms, p50_latency_ms, p95_latency_ms, p99_latency_ms,
			throughput_rps, samples, errors
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Model,
		r.StartTime.Unix(), r.EndTime.Unix(), int64(r.Duration),
		r.Concurrency,
		r.TotalRequests, r.SuccessfulRequests, r.FailedRequests,
		r.MeanMS, r.P50MS, r.P95MS, r.P99MS,
		r.ThroughputRPS,
		string(samples), string(errList),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// Delete removes one run by ID.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear removes all recorded runs.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM runs"); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

const selectColumns = `
	id, model, start_time, end_time, duration_ns, concurrency,
	total_requests, successful_requests, failed_requests,
	avg_latency_ms, p50_latency_ms, p95_latency_ms, p99_latency_ms,
	throughput_rps, samples, errors`

// Get returns one run by ID.
func (s *Store) Get(id string) (*benchmark.Result, error) {
	row := s.db.QueryRow("SELECT"+selectColumns+" FROM runs WHERE id = ?", id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return r, nil
}

// List returns the most recent runs, newest first. A limit of 0 returns
// all runs.
func (s *Store) List(limit int) ([]*benchmark.Result, error) {
	query := "SELECT" + selectColumns + " FROM runs ORDER BY start_time DESC, id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.queryRuns(query, args...)
}

// ForModel returns the most recent runs for one model, newest first.
// A limit of 0 returns all matching runs.
func (s *Store) ForModel(model string, limit int) ([]*benchmark.Result, error) {
	query := "SELECT" + selectColumns + " FROM runs WHERE model = ? ORDER BY start_time DESC, id"
	args := []any{model}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.queryRuns(query, args...)
}

func (s *Store) queryRuns(query string, args ...any) ([]*benchmark.Result, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	results := []*benchmark.Result{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return results, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*benchmark.Result, error) {
	var (
		r          benchmark.Result
		start, end int64
		durationNS int64
		samples    sql.NullString
		errList    sql.NullString
	)
	err := row.Scan(
		&r.ID, &r.Model, &start, &end, &durationNS, &r.Concurrency,
		&r.TotalRequests, &r.SuccessfulRequests, &r.FailedRequests,
		&r.MeanMS, &r.P50MS, &r.P95MS, &r.P99MS,
		&r.ThroughputRPS, &samples, &errList,
	)
	if err != nil {
		return nil, err
	}

	r.StartTime = time.Unix(start, 0)
	r.EndTime = time.Unix(end, 0)
	r.Duration = time.Duration(durationNS)

	if samples.Valid && samples.String != "" {
		if err := json.Unmarshal([]byte(samples.String), &r.Samples); err != nil {
			return nil, fmt.Errorf("corrupt samples for run %s: %w", r.ID, err)
		}
	}
	if errList.Valid && errList.String != "" {
		if err := json.Unmarshal([]byte(errList.String), &r.Errors); err != nil {
			return nil, fmt.Errorf("corrupt errors for run %s: %w", r.ID, err)
		}
	}

	return &r, nil
}
