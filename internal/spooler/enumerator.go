package spooler

import (
	"go.uber.org/zap"
)

// Enumerator lists the printers registered with the spooler.
type Enumerator struct {
	api    API
	flags  uint32
	logger *zap.Logger
}

// NewEnumerator returns an Enumerator querying the given EnumPrinters scope.
// A zero flags value means local printers plus connections.
func NewEnumerator(api API, flags uint32, logger *zap.Logger) *Enumerator {
	if flags == 0 {
		flags = EnumLocal | EnumConnections
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enumerator{
		api:    api,
		flags:  flags,
		logger: logger.Named("enumerator"),
	}
}

// ListDevices returns printer names in the order the spooler reports them.
// Discovery is best effort: failures are logged and yield an empty list.
func (e *Enumerator) ListDevices() []string {
	// The size query fails with ERROR_INSUFFICIENT_BUFFER whenever printers
	// exist, so only the reported size matters here.
	needed, _, err := e.api.EnumPrinters(e.flags, InfoLevel2, nil)
	if needed == 0 {
		e.logger.Warn("no printers found or failed to get buffer size", zap.Error(err))
		return []string{}
	}

	buf := make([]byte, needed)
	_, returned, err := e.api.EnumPrinters(e.flags, InfoLevel2, buf)
	if err != nil {
		e.logger.Warn("failed to enumerate printers",
			zap.Uint32("buffer_size", needed),
			zap.Error(err),
		)
		return []string{}
	}

	names := make([]string, 0, returned)
	for i := uint32(0); i < returned; i++ {
		name, ok, err := e.api.PrinterName(buf, InfoLevel2, i)
		if err != nil {
			e.logger.Warn("failed to decode printer record",
				zap.Uint32("index", i),
				zap.Uint32("returned", returned),
				zap.Error(err),
			)
			break
		}
		if !ok {
			name = UnknownPrinter
		}
		names = append(names, name)
	}

	e.logger.Debug("printers enumerated", zap.Int("count", len(names)))
	return names
}
