//go:build windows

package spooler

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modwinspool = windows.NewLazySystemDLL("winspool.drv")

	procEnumPrintersW    = modwinspool.NewProc("EnumPrintersW")
	procOpenPrinterW     = modwinspool.NewProc("OpenPrinterW")
	procStartDocPrinterW = modwinspool.NewProc("StartDocPrinterW")
	procStartPagePrinter = modwinspool.NewProc("StartPagePrinter")
	procWritePrinter     = modwinspool.NewProc("WritePrinter")
	procEndPagePrinter   = modwinspool.NewProc("EndPagePrinter")
	procEndDocPrinter    = modwinspool.NewProc("EndDocPrinter")
	procClosePrinter     = modwinspool.NewProc("ClosePrinter")
)

const docInfoLevel1 = 1

type printerInfo2 struct {
	ServerName         *uint16
	PrinterName        *uint16
	ShareName          *uint16
	PortName           *uint16
	DriverName         *uint16
	Comment            *uint16
	Location           *uint16
	DevMode            uintptr
	SepFile            *uint16
	PrintProcessor     *uint16
	Datatype           *uint16
	Parameters         *uint16
	SecurityDescriptor uintptr
	Attributes         uint32
	Priority           uint32
	DefaultPriority    uint32
	StartTime          uint32
	UntilTime          uint32
	Status             uint32
	Jobs               uint32
	AveragePPM         uint32
}

type printerDefaults struct {
	Datatype      *uint16
	DevMode       uintptr
	DesiredAccess uint32
}

type docInfo1 struct {
	DocName    *uint16
	OutputFile *uint16
	Datatype   *uint16
}

type winspool struct{}

// NewSystemAPI returns the winspool.drv binding.
func NewSystemAPI() API {
	return winspool{}
}

func (winspool) EnumPrinters(flags, level uint32, buf []byte) (uint32, uint32, error) {
	var needed, returned uint32
	var p *byte
	if len(buf) > 0 {
		p = &buf[0]
	}
	r1, _, e1 := procEnumPrintersW.Call(
		uintptr(flags),
		0,
		uintptr(level),
		uintptr(unsafe.Pointer(p)),
		uintptr(len(buf)),
		uintptr(unsafe.Pointer(&needed)),
		uintptr(unsafe.Pointer(&returned)),
	)
	if r1 == 0 {
		return needed, returned, errnoErr(e1)
	}
	return needed, returned, nil
}

// PrinterName reads PRINTER_INFO_2.pPrinterName. The string pointers in a
// filled buffer point back into the same buffer.
func (winspool) PrinterName(buf []byte, level, index uint32) (string, bool, error) {
	if level != InfoLevel2 {
		return "", false, fmt.Errorf("unsupported printer info level %d", level)
	}
	size := uint64(unsafe.Sizeof(printerInfo2{}))
	if (uint64(index)+1)*size > uint64(len(buf)) {
		return "", false, fmt.Errorf("printer record %d outside %d byte buffer", index, len(buf))
	}
	records := unsafe.Slice((*printerInfo2)(unsafe.Pointer(&buf[0])), index+1)
	name := records[index].PrinterName
	if name == nil {
		return "", false, nil
	}
	return windows.UTF16PtrToString(name), true, nil
}

func (winspool) OpenPrinter(name string, access uint32) (Handle, error) {
	pname, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, err
	}
	defaults := printerDefaults{DesiredAccess: access}
	var h Handle
	r1, _, e1 := procOpenPrinterW.Call(
		uintptr(unsafe.Pointer(pname)),
		uintptr(unsafe.Pointer(&h)),
		uintptr(unsafe.Pointer(&defaults)),
	)
	if r1 == 0 {
		return 0, errnoErr(e1)
	}
	return h, nil
}

func (winspool) StartDocPrinter(h Handle, doc *DocInfo) (uint32, error) {
	info := docInfo1{}
	var err error
	if info.DocName, err = utf16PtrOrNil(doc.DocName); err != nil {
		return 0, err
	}
	if info.OutputFile, err = utf16PtrOrNil(doc.OutputFile); err != nil {
		return 0, err
	}
	if info.Datatype, err = utf16PtrOrNil(doc.Datatype); err != nil {
		return 0, err
	}
	r1, _, e1 := procStartDocPrinterW.Call(
		uintptr(h),
		docInfoLevel1,
		uintptr(unsafe.Pointer(&info)),
	)
	if r1 == 0 {
		return 0, errnoErr(e1)
	}
	return uint32(r1), nil
}

func (winspool) StartPagePrinter(h Handle) error {
	return callBool(procStartPagePrinter, uintptr(h))
}

func (winspool) WritePrinter(h Handle, data []byte) (uint32, error) {
	var p *byte
	if len(data) > 0 {
		p = &data[0]
	}
	var written uint32
	r1, _, e1 := procWritePrinter.Call(
		uintptr(h),
		uintptr(unsafe.Pointer(p)),
		uintptr(len(data)),
		uintptr(unsafe.Pointer(&written)),
	)
	if r1 == 0 {
		return 0, errnoErr(e1)
	}
	return written, nil
}

func (winspool) EndPagePrinter(h Handle) error {
	return callBool(procEndPagePrinter, uintptr(h))
}

func (winspool) EndDocPrinter(h Handle) error {
	return callBool(procEndDocPrinter, uintptr(h))
}

func (winspool) ClosePrinter(h Handle) error {
	return callBool(procClosePrinter, uintptr(h))
}

func callBool(proc *windows.LazyProc, args ...uintptr) error {
	r1, _, e1 := proc.Call(args...)
	if r1 == 0 {
		return errnoErr(e1)
	}
	return nil
}

// errnoErr keeps a failing call from surfacing ERROR_SUCCESS.
func errnoErr(e error) error {
	if errno, ok := e.(syscall.Errno); ok && errno == 0 {
		return syscall.EINVAL
	}
	return e
}

func utf16PtrOrNil(s string) (*uint16, error) {
	if s == "" {
		return nil, nil
	}
	return windows.UTF16PtrFromString(s)
}
