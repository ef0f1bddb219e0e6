package spooler

import (
	"go.uber.org/zap"
)

// Transmitter submits raw print jobs.
//
// Each Send owns its printer handle for the duration of the job. The spooler
// serializes jobs across processes; callers must not run concurrent Sends
// against the same device.
type Transmitter struct {
	api    API
	doc    DocInfo
	logger *zap.Logger
}

// NewTransmitter returns a Transmitter that labels every job with doc.
// An empty Datatype defaults to RAW.
func NewTransmitter(api API, doc DocInfo, logger *zap.Logger) *Transmitter {
	if doc.Datatype == "" {
		doc.Datatype = DatatypeRaw
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transmitter{
		api:    api,
		doc:    doc,
		logger: logger.Named("transmitter"),
	}
}

// Send writes payload to device as a single raw document and returns the
// byte count the spooler reports as written. The count is not compared with
// len(payload).
//
// The first failing step ends the job with an *OpError. Cleanup runs on every
// path once the printer is open: end-page if the page started, end-doc if the
// document started, then close. Cleanup errors are logged only.
func (t *Transmitter) Send(device string, payload []byte) (int, error) {
	s, err := openSession(t.api, device, t.logger)
	if err != nil {
		return 0, err
	}
	defer s.close()

	if err := s.startDoc(&t.doc); err != nil {
		return 0, err
	}
	defer s.endDoc()

	if err := s.startPage(); err != nil {
		return 0, err
	}
	defer s.endPage()

	n, err := s.write(payload)
	if err != nil {
		return 0, err
	}
	return n, nil
}
