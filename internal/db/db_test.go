package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{Path: filepath.Join(t.TempDir(), "history.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}

func TestOpen_MigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(Config{Path: path})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(Config{Path: path})
	require.NoError(t, err)
	defer s.Close()

	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestLoadMigrations(t *testing.T) {
	migrations, err := loadMigrations(migrationsFS)

	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, "0001_print_jobs", migrations[0].Version)
	assert.Contains(t, migrations[0].SQL, "CREATE TABLE IF NOT EXISTS print_jobs")
}

func TestStore_RecordAndGetJob(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	started := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	job := &JobRecord{
		ID:           "2f1c6f0e-2d6a-4f39-9d53-3f1f0c2b7a10",
		PrinterName:  "LabelPrinter1",
		DocumentName: "ZPL-Label",
		PayloadSize:  34,
		BytesWritten: 34,
		Status:       "completed",
		StartedAt:    started,
		CompletedAt:  started.Add(150 * time.Millisecond),
	}
	require.NoError(t, s.RecordJob(ctx, job))

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.PrinterName, got.PrinterName)
	assert.Equal(t, job.DocumentName, got.DocumentName)
	assert.Equal(t, 34, got.PayloadSize)
	assert.Equal(t, 34, got.BytesWritten)
	assert.Equal(t, "completed", got.Status)
	assert.Empty(t, got.ErrorMessage)
	assert.True(t, got.StartedAt.Equal(job.StartedAt))
	assert.True(t, got.CompletedAt.Equal(job.CompletedAt))
}

func TestStore_GetJobNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetJob(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestStore_RecordJobDuplicateID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now()
	job := &JobRecord{ID: "dup", PrinterName: "p", DocumentName: "d", Status: "completed", StartedAt: now, CompletedAt: now}

	require.NoError(t, s.RecordJob(ctx, job))
	err := s.RecordJob(ctx, job)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record job")
}

func TestStore_ListJobs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	records := []*JobRecord{
		{ID: "a", PrinterName: "LabelPrinter1", Status: "completed"},
		{ID: "b", PrinterName: "OfficeJet", Status: "failed", ErrorMessage: "WritePrinter \"OfficeJet\": paper out"},
		{ID: "c", PrinterName: "LabelPrinter1", Status: "failed"},
		{ID: "d", PrinterName: "LabelPrinter1", Status: "completed"},
	}
	for i, r := range records {
		r.DocumentName = "ZPL-Label"
		r.StartedAt = base.Add(time.Duration(i) * time.Minute)
		r.CompletedAt = r.StartedAt.Add(time.Second)
		require.NoError(t, s.RecordJob(ctx, r))
	}

	tests := []struct {
		name    string
		filter  JobFilter
		wantIDs []string
	}{
		{name: "all newest first", filter: JobFilter{}, wantIDs: []string{"d", "c", "b", "a"}},
		{name: "by printer", filter: JobFilter{PrinterName: "LabelPrinter1"}, wantIDs: []string{"d", "c", "a"}},
		{name: "by status", filter: JobFilter{Status: "failed"}, wantIDs: []string{"c", "b"}},
		{name: "printer and status", filter: JobFilter{PrinterName: "LabelPrinter1", Status: "completed"}, wantIDs: []string{"d", "a"}},
		{name: "limit", filter: JobFilter{Limit: 2}, wantIDs: []string{"d", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, err := s.ListJobs(ctx, tt.filter)
			require.NoError(t, err)

			ids := make([]string, 0, len(jobs))
			for _, j := range jobs {
				ids = append(ids, j.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}

	n, err := s.CountJobs(ctx, "failed")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
