package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var ErrJobNotFound = errors.New("job not found")

func (s *Store) RecordJob(ctx context.Context, j *JobRecord) error {
	_, err := s.db.ExecContext(ctx, InsertJob,
		j.ID, j.PrinterName, j.DocumentName, j.PayloadSize, j.BytesWritten,
		j.Status, j.ErrorMessage, j.StartedAt.UTC(), j.CompletedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record job: %w", err)
	}
	return nil
}

func (s *Store) GetJob(ctx context.Context, id string) (*JobRecord, error) {
	j := &JobRecord{}
	err := s.db.QueryRowContext(ctx, GetJobByID, id).Scan(
		&j.ID, &j.PrinterName, &j.DocumentName, &j.PayloadSize, &j.BytesWritten,
		&j.Status, &j.ErrorMessage, &j.StartedAt, &j.CompletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// ListJobs returns matching jobs, newest first.
func (s *Store) ListJobs(ctx context.Context, filter JobFilter) ([]*JobRecord, error) {
	query := ListJobs
	var conditions []string
	var args []any

	if filter.PrinterName != "" {
		conditions = append(conditions, "printer_name = ?")
		args = append(args, filter.PrinterName)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY started_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*JobRecord
	for rows.Next() {
		j := &JobRecord{}
		if err := rows.Scan(
			&j.ID, &j.PrinterName, &j.DocumentName, &j.PayloadSize, &j.BytesWritten,
			&j.Status, &j.ErrorMessage, &j.StartedAt, &j.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (s *Store) CountJobs(ctx context.Context, status string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, CountJobsByStatus, status).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return n, nil
}
