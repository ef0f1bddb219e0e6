package core

import (
	"context"
	"time"

	"github.com/orrn/rawspool/internal/db"
)

type DeviceLister interface {
	ListDevices() []string
}

type JobSender interface {
	Send(device string, payload []byte) (int, error)
}

type JobRecorder interface {
	RecordJob(ctx context.Context, j *db.JobRecord) error
}

type JobNotifier interface {
	SendJobResult(ctx context.Context, job *Job) error
}

type JobStatus string

const (
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

type Job struct {
	ID           string
	PrinterName  string
	DocumentName string
	PayloadSize  int
	BytesWritten int
	Status       JobStatus
	ErrorMessage string
	StartedAt    time.Time
	CompletedAt  time.Time
}

func (j *Job) Duration() time.Duration {
	return j.CompletedAt.Sub(j.StartedAt)
}

func (j *Job) record() *db.JobRecord {
	return &db.JobRecord{
		ID:           j.ID,
		PrinterName:  j.PrinterName,
		DocumentName: j.DocumentName,
		PayloadSize:  j.PayloadSize,
		BytesWritten: j.BytesWritten,
		Status:       string(j.Status),
		ErrorMessage: j.ErrorMessage,
		StartedAt:    j.StartedAt,
		CompletedAt:  j.CompletedAt,
	}
}
