//go:build !windows

package spooler

type unsupported struct{}

// NewSystemAPI returns an API whose every call fails with ErrUnsupported.
func NewSystemAPI() API {
	return unsupported{}
}

func (unsupported) EnumPrinters(uint32, uint32, []byte) (uint32, uint32, error) {
	return 0, 0, ErrUnsupported
}

func (unsupported) PrinterName([]byte, uint32, uint32) (string, bool, error) {
	return "", false, ErrUnsupported
}

func (unsupported) OpenPrinter(string, uint32) (Handle, error) {
	return 0, ErrUnsupported
}

func (unsupported) StartDocPrinter(Handle, *DocInfo) (uint32, error) {
	return 0, ErrUnsupported
}

func (unsupported) StartPagePrinter(Handle) error {
	return ErrUnsupported
}

func (unsupported) WritePrinter(Handle, []byte) (uint32, error) {
	return 0, ErrUnsupported
}

func (unsupported) EndPagePrinter(Handle) error {
	return ErrUnsupported
}

func (unsupported) EndDocPrinter(Handle) error {
	return ErrUnsupported
}

func (unsupported) ClosePrinter(Handle) error {
	return ErrUnsupported
}
