// Package spooler drives the host print spooler: it enumerates the printers
// registered with the OS and submits raw print jobs to them.
//
// All OS access goes through the API interface. NewSystemAPI returns the
// winspool binding on Windows and an implementation that reports
// ErrUnsupported everywhere else.
package spooler

// Handle is an open printer handle issued by the spooler.
type Handle uintptr

// EnumPrinters flags
const (
	EnumLocal       uint32 = 0x00000002
	EnumConnections uint32 = 0x00000004
)

const (
	// InfoLevel2 selects PRINTER_INFO_2 records from EnumPrinters.
	InfoLevel2 uint32 = 2

	// AccessUse is PRINTER_ACCESS_USE.
	AccessUse uint32 = 0x00000008

	DatatypeRaw = "RAW"

	// UnknownPrinter replaces a record whose name field is null.
	UnknownPrinter = "Unknown Printer"
)

// DocInfo describes one print job (DOC_INFO_1).
type DocInfo struct {
	DocName    string
	OutputFile string
	Datatype   string
}

// API is the subset of winspool used by Enumerator and Transmitter.
//
// Session calls are only valid on a Handle returned by OpenPrinter that has
// not yet been passed to ClosePrinter.
type API interface {
	// EnumPrinters fills buf with records of the given level. With an empty
	// buf it only reports the number of bytes needed.
	EnumPrinters(flags, level uint32, buf []byte) (needed, returned uint32, err error)

	// PrinterName decodes the name field of record index in a buffer filled
	// by EnumPrinters. ok is false when the field is null.
	PrinterName(buf []byte, level, index uint32) (name string, ok bool, err error)

	OpenPrinter(name string, access uint32) (Handle, error)
	StartDocPrinter(h Handle, doc *DocInfo) (jobID uint32, err error)
	StartPagePrinter(h Handle) error
	WritePrinter(h Handle, data []byte) (written uint32, err error)
	EndPagePrinter(h Handle) error
	EndDocPrinter(h Handle) error
	ClosePrinter(h Handle) error
}
