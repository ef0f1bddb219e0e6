package spooler

import (
	"go.uber.org/zap"
)

// session owns one printer handle from OpenPrinter to ClosePrinter.
type session struct {
	api    API
	device string
	handle Handle
	open   bool
	logger *zap.Logger
}

func openSession(api API, device string, logger *zap.Logger) (*session, error) {
	h, err := api.OpenPrinter(device, AccessUse)
	if err != nil {
		return nil, &OpError{Op: "OpenPrinter", Device: device, Err: err}
	}
	return &session{
		api:    api,
		device: device,
		handle: h,
		open:   true,
		logger: logger.With(zap.String("device", device)),
	}, nil
}

func (s *session) startDoc(doc *DocInfo) error {
	job, err := s.api.StartDocPrinter(s.handle, doc)
	if job == 0 {
		if err == nil {
			err = ErrNoJob
		}
		return &OpError{Op: "StartDocPrinter", Device: s.device, Err: err}
	}
	s.logger.Debug("document started",
		zap.Uint32("job_id", job),
		zap.String("document", doc.DocName),
		zap.String("datatype", doc.Datatype),
	)
	return nil
}

func (s *session) startPage() error {
	if err := s.api.StartPagePrinter(s.handle); err != nil {
		return &OpError{Op: "StartPagePrinter", Device: s.device, Err: err}
	}
	return nil
}

func (s *session) write(payload []byte) (int, error) {
	written, err := s.api.WritePrinter(s.handle, payload)
	if err != nil {
		return 0, &OpError{Op: "WritePrinter", Device: s.device, Err: err}
	}
	s.logger.Debug("payload written",
		zap.Int("payload_size", len(payload)),
		zap.Uint32("written", written),
	)
	return int(written), nil
}

func (s *session) endPage() {
	if err := s.api.EndPagePrinter(s.handle); err != nil {
		s.logger.Warn("end page failed", zap.Error(err))
	}
}

func (s *session) endDoc() {
	if err := s.api.EndDocPrinter(s.handle); err != nil {
		s.logger.Warn("end document failed", zap.Error(err))
	}
}

// close releases the handle. Later calls are no-ops.
func (s *session) close() {
	if !s.open {
		return
	}
	s.open = false
	if err := s.api.ClosePrinter(s.handle); err != nil {
		s.logger.Warn("close printer failed", zap.Error(err))
	}
}
