package core

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrPrinterNotFound = errors.New("printer not found")
	ErrInvalidPayload  = errors.New("payload is not valid UTF-8 text")
)

// PrinterManager resolves printer names and submits jobs, recording each
// attempt when a recorder or notifier is configured.
type PrinterManager struct {
	lister       DeviceLister
	sender       JobSender
	recorder     JobRecorder
	notifier     JobNotifier
	documentName string
	logger       *zap.Logger
	now          func() time.Time
}

type Option func(*PrinterManager)

func WithRecorder(r JobRecorder) Option {
	return func(pm *PrinterManager) { pm.recorder = r }
}

func WithNotifier(n JobNotifier) Option {
	return func(pm *PrinterManager) { pm.notifier = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(pm *PrinterManager) { pm.logger = l }
}

// WithDocumentName sets the name stored with each job. It does not change
// what the sender puts in the spooler.
func WithDocumentName(name string) Option {
	return func(pm *PrinterManager) { pm.documentName = name }
}

func NewPrinterManager(lister DeviceLister, sender JobSender, opts ...Option) *PrinterManager {
	pm := &PrinterManager{
		lister: lister,
		sender: sender,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(pm)
	}
	return pm
}

// ListPrinters enumerates the printers currently registered with the spooler.
func (pm *PrinterManager) ListPrinters() []string {
	return pm.lister.ListDevices()
}

// Resolve enumerates printers and checks that name is one of them. The list
// is returned in both cases so callers can show the alternatives.
func (pm *PrinterManager) Resolve(name string) ([]string, error) {
	printers := pm.ListPrinters()
	if !slices.Contains(printers, name) {
		pm.logger.Debug("printer not available",
			zap.String("printer", name),
			zap.Strings("available", printers),
		)
		return printers, ErrPrinterNotFound
	}
	return printers, nil
}

// Print sends payload to the named printer. The returned Job describes the
// attempt whether or not it succeeded; the error is the sender's.
func (pm *PrinterManager) Print(ctx context.Context, name string, payload []byte) (*Job, error) {
	job := &Job{
		ID:           uuid.NewString(),
		PrinterName:  name,
		DocumentName: pm.documentName,
		PayloadSize:  len(payload),
		StartedAt:    pm.now(),
	}

	n, err := pm.sender.Send(name, payload)
	job.CompletedAt = pm.now()
	if err != nil {
		job.Status = JobStatusFailed
		job.ErrorMessage = err.Error()
		pm.logger.Info("print job failed",
			zap.String("job_id", job.ID),
			zap.String("printer", name),
			zap.Error(err),
		)
	} else {
		job.Status = JobStatusCompleted
		job.BytesWritten = n
		pm.logger.Info("print job completed",
			zap.String("job_id", job.ID),
			zap.String("printer", name),
			zap.Int("bytes_written", n),
			zap.Duration("duration", job.Duration()),
		)
	}

	pm.record(ctx, job)
	pm.notify(ctx, job)

	return job, err
}

func (pm *PrinterManager) record(ctx context.Context, job *Job) {
	if pm.recorder == nil {
		return
	}
	if err := pm.recorder.RecordJob(ctx, job.record()); err != nil {
		pm.logger.Warn("failed to record job", zap.String("job_id", job.ID), zap.Error(err))
	}
}

func (pm *PrinterManager) notify(ctx context.Context, job *Job) {
	if pm.notifier == nil {
		return
	}
	if err := pm.notifier.SendJobResult(ctx, job); err != nil {
		pm.logger.Warn("failed to send job notification", zap.String("job_id", job.ID), zap.Error(err))
	}
}
