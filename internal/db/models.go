package db

import (
	"time"
)

type JobRecord struct {
	ID           string    `json:"id"`
	PrinterName  string    `json:"printer_name"`
	DocumentName string    `json:"document_name"`
	PayloadSize  int       `json:"payload_size"`
	BytesWritten int       `json:"bytes_written"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at"`
}

type JobFilter struct {
	PrinterName string
	Status      string
	Limit       int
}
