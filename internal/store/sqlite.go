package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/opinion-core/pkg/models"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore persists runs in a SQLite database. Reports and metric
// summaries are stored as JSON columns.
type SQLiteStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens or creates the database at dbPath
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Path returns the database file path
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

func (s *SQLiteStore) Save(ctx context.Context, run *models.Run) error {
	if err := validateRun(run); err != nil {
		return err
	}

	report, err := marshalNullable(run.Report, run.Report == nil)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	summary, err := marshalNullable(run.Metrics, run.Metrics == nil)
	if err != nil {
		return fmt.Errorf("failed to encode metrics: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, run.ID).Scan(&exists)
	if err == nil {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, run.ID)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check run existence: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, status, seed, agents_count, start_time, end_time, duration_ns, error, report, metrics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		string(run.Status),
		run.Seed,
		run.AgentsCount,
		formatTime(run.StartTime),
		nullTime(run.EndTime),
		int64(run.Duration),
		nullString(run.Error),
		report,
		summary,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, status, seed, agents_count, start_time, end_time, duration_ns, error, report, metrics
		FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]*models.Run, error) {
	limit, offset = normalizePage(limit, offset)

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, status, seed, agents_count, start_time, end_time, duration_ns, error, report, metrics
		FROM runs ORDER BY start_time DESC, id ASC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*models.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*models.Run, error) {
	var (
		run        models.Run
		status     string
		startTime  string
		endTime    sql.NullString
		durationNs int64
		errMsg     sql.NullString
		report     sql.NullString
		summary    sql.NullString
	)
	if err := row.Scan(&run.ID, &status, &run.Seed, &run.AgentsCount, &startTime, &endTime,
		&durationNs, &errMsg, &report, &summary); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.Status = models.RunStatus(status)
	run.Duration = time.Duration(durationNs)
	run.Error = errMsg.String

	var err error
	if run.StartTime, err = parseTime(startTime); err != nil {
		return nil, fmt.Errorf("invalid start_time for run %s: %w", run.ID, err)
	}
	if endTime.Valid {
		if run.EndTime, err = parseTime(endTime.String); err != nil {
			return nil, fmt.Errorf("invalid end_time for run %s: %w", run.ID, err)
		}
	}
	if report.Valid {
		run.Report = &models.Report{}
		if err := json.Unmarshal([]byte(report.String), run.Report); err != nil {
			return nil, fmt.Errorf("failed to decode report for run %s: %w", run.ID, err)
		}
	}
	if summary.Valid {
		if err := json.Unmarshal([]byte(summary.String), &run.Metrics); err != nil {
			return nil, fmt.Errorf("failed to decode metrics for run %s: %w", run.ID, err)
		}
	}
	return &run, nil
}

// Helper functions

// timeLayout is fixed width so that start_time sorts lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(t), Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func marshalNullable(v any, isNil bool) (sql.NullString, error) {
	if isNil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
