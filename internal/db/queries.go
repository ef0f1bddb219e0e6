package db

const (
	InsertJob = `
		INSERT INTO print_jobs (id, printer_name, document_name, payload_size, bytes_written, status, error_message, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	GetJobByID = `
		SELECT id, printer_name, document_name, payload_size, bytes_written, status, error_message, started_at, completed_at
		FROM print_jobs WHERE id = ?
	`

	ListJobs = `
		SELECT id, printer_name, document_name, payload_size, bytes_written, status, error_message, started_at, completed_at
		FROM print_jobs
	`

	CountJobsByStatus = `SELECT COUNT(*) FROM print_jobs WHERE status = ?`
)
