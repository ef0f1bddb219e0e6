package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/orrn/rawspool/internal/core"
)

type WebhookEvent string

const (
	EventJobCompleted WebhookEvent = "job_completed"
	EventJobFailed    WebhookEvent = "job_failed"
)

type WebhookPayload struct {
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
	Signature string      `json:"signature,omitempty"`
}

type JobEventData struct {
	JobID        string `json:"job_id"`
	PrinterName  string `json:"printer_name"`
	DocumentName string `json:"document_name"`
	Status       string `json:"status"`
	PayloadSize  int    `json:"payload_size"`
	BytesWritten int    `json:"bytes_written"`
	ErrorMessage string `json:"error_message,omitempty"`
	Duration     int64  `json:"duration_ms"`
}

type WebhookConfig struct {
	URL        string
	Secret     string
	RetryCount int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// Sender posts job results to a single webhook URL. Delivery is synchronous
// and retried on transport errors and 5xx responses.
type Sender struct {
	url        string
	secret     string
	httpClient *http.Client
	retryCount int
	retryDelay time.Duration
	logger     *zap.Logger
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("http error: %d", e.code)
}

func NewSender(config WebhookConfig, logger *zap.Logger) *Sender {
	if config.RetryCount <= 0 {
		config.RetryCount = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = time.Second
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Sender{
		url:    config.URL,
		secret: config.Secret,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		retryCount: config.RetryCount,
		retryDelay: config.RetryDelay,
		logger:     logger.Named("webhook"),
	}
}

// SendJobResult delivers a job_completed or job_failed event for job.
func (s *Sender) SendJobResult(ctx context.Context, job *core.Job) error {
	event := EventJobCompleted
	if job.Status != core.JobStatusCompleted {
		event = EventJobFailed
	}

	payload := &WebhookPayload{
		Event:     string(event),
		Timestamp: job.CompletedAt,
		Data: &JobEventData{
			JobID:        job.ID,
			PrinterName:  job.PrinterName,
			DocumentName: job.DocumentName,
			Status:       string(job.Status),
			PayloadSize:  job.PayloadSize,
			BytesWritten: job.BytesWritten,
			ErrorMessage: job.ErrorMessage,
			Duration:     job.Duration().Milliseconds(),
		},
	}
	return s.sendWithRetry(ctx, payload)
}

func (s *Sender) sendWithRetry(ctx context.Context, payload *WebhookPayload) error {
	var lastErr error
	for attempt := 1; attempt <= s.retryCount; attempt++ {
		err := s.sendRequest(ctx, payload)
		if err == nil {
			return nil
		}

		lastErr = err

		if isClientError(err) {
			s.logger.Warn("client error, not retrying", zap.String("event", payload.Event), zap.Error(err))
			return err
		}

		if attempt < s.retryCount {
			backoff := s.retryDelay * time.Duration(1<<(attempt-1))
			s.logger.Debug("retrying webhook",
				zap.Int("attempt", attempt),
				zap.Int("retry_count", s.retryCount),
				zap.Duration("backoff", backoff),
				zap.Error(err),
			)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (s *Sender) sendRequest(ctx context.Context, payload *WebhookPayload) error {
	dataBytes, err := json.Marshal(payload.Data)
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}

	if s.secret != "" {
		payload.Signature = signPayload(dataBytes, s.secret)
	}

	fullPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(fullPayload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Event", payload.Event)
	if payload.Signature != "" {
		req.Header.Set("X-Webhook-Signature", payload.Signature)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &statusError{code: resp.StatusCode}
	}

	return nil
}

func signPayload(payload []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

func isClientError(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 400 && se.code < 500
	}
	return false
}
