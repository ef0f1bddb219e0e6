// Package spoolertest provides an in-memory spooler.API with failure
// injection for tests.
package spoolertest

import (
	"errors"
	"fmt"
	"sync"
	"syscall"

	"github.com/orrn/rawspool/internal/spooler"
)

// recordSize approximates sizeof(PRINTER_INFO_2W) on amd64.
const recordSize = 136

var ErrHandle = errors.New("invalid printer handle")

// Fake is a scripted spooler. The zero value has no printers and accepts
// every job in full.
type Fake struct {
	// Printers are the enumerated records. A nil entry has a null name.
	Printers []*string

	FillErr      error
	OpenErr      error
	StartDocErr  error
	StartPageErr error
	WriteErr     error
	EndPageErr   error
	EndDocErr    error
	CloseErr     error

	// NoJob makes StartDocPrinter return job id 0 without an error.
	NoJob bool

	// WriteLimit caps the bytes WritePrinter reports; zero means no cap.
	WriteLimit int

	mu          sync.Mutex
	calls       []string
	sizeQueries int
	fills       int
	opens       int
	closes      int
	misuse      int
	nextHandle  spooler.Handle
	live        map[spooler.Handle]bool
	device      string
	access      uint32
	doc         spooler.DocInfo
	written     []byte
}

// Names builds a Printers slice from plain names.
func Names(names ...string) []*string {
	out := make([]*string, len(names))
	for i := range names {
		out[i] = &names[i]
	}
	return out
}

func (f *Fake) required() uint32 {
	if len(f.Printers) == 0 {
		return 0
	}
	n := len(f.Printers) * recordSize
	for _, p := range f.Printers {
		if p != nil {
			n += 2 * (len(*p) + 1)
		}
	}
	return uint32(n)
}

func (f *Fake) EnumPrinters(flags, level uint32, buf []byte) (uint32, uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, "EnumPrinters")
	needed := f.required()
	if len(buf) == 0 {
		f.sizeQueries++
		if needed > 0 {
			return needed, 0, syscall.Errno(122) // ERROR_INSUFFICIENT_BUFFER
		}
		return 0, 0, nil
	}

	f.fills++
	if f.FillErr != nil {
		return needed, 0, f.FillErr
	}
	if uint32(len(buf)) < needed {
		return needed, 0, syscall.Errno(122)
	}
	return needed, uint32(len(f.Printers)), nil
}

func (f *Fake) PrinterName(buf []byte, level, index uint32) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if int(index) >= len(f.Printers) {
		return "", false, fmt.Errorf("printer record %d out of range", index)
	}
	p := f.Printers[index]
	if p == nil {
		return "", false, nil
	}
	return *p, true, nil
}

func (f *Fake) OpenPrinter(name string, access uint32) (spooler.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, "OpenPrinter")
	f.device = name
	f.access = access
	if f.OpenErr != nil {
		return 0, f.OpenErr
	}
	if f.live == nil {
		f.live = make(map[spooler.Handle]bool)
	}
	f.nextHandle++
	f.live[f.nextHandle] = true
	f.opens++
	return f.nextHandle, nil
}

func (f *Fake) StartDocPrinter(h spooler.Handle, doc *spooler.DocInfo) (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.use(h, "StartDocPrinter"); err != nil {
		return 0, err
	}
	f.doc = *doc
	if f.StartDocErr != nil {
		return 0, f.StartDocErr
	}
	if f.NoJob {
		return 0, nil
	}
	return 7, nil
}

func (f *Fake) StartPagePrinter(h spooler.Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.use(h, "StartPagePrinter"); err != nil {
		return err
	}
	return f.StartPageErr
}

func (f *Fake) WritePrinter(h spooler.Handle, data []byte) (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.use(h, "WritePrinter"); err != nil {
		return 0, err
	}
	if f.WriteErr != nil {
		return 0, f.WriteErr
	}
	n := len(data)
	if f.WriteLimit > 0 && n > f.WriteLimit {
		n = f.WriteLimit
	}
	f.written = append(f.written, data[:n]...)
	return uint32(n), nil
}

func (f *Fake) EndPagePrinter(h spooler.Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.use(h, "EndPagePrinter"); err != nil {
		return err
	}
	return f.EndPageErr
}

func (f *Fake) EndDocPrinter(h spooler.Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.use(h, "EndDocPrinter"); err != nil {
		return err
	}
	return f.EndDocErr
}

func (f *Fake) ClosePrinter(h spooler.Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.use(h, "ClosePrinter"); err != nil {
		return err
	}
	delete(f.live, h)
	f.closes++
	return f.CloseErr
}

// use records a session call and checks that h is open.
func (f *Fake) use(h spooler.Handle, op string) error {
	f.calls = append(f.calls, op)
	if !f.live[h] {
		f.misuse++
		return ErrHandle
	}
	return nil
}

// Calls returns the API calls in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *Fake) SizeQueries() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sizeQueries
}

func (f *Fake) Fills() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fills
}

func (f *Fake) Opens() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens
}

func (f *Fake) Closes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

// Misuse counts session calls made on a handle that was not open.
func (f *Fake) Misuse() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.misuse
}

// OpenHandles counts handles opened and not yet closed.
func (f *Fake) OpenHandles() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.live)
}

func (f *Fake) Device() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.device
}

func (f *Fake) Access() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.access
}

func (f *Fake) Doc() spooler.DocInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doc
}

// Written returns the bytes accepted by WritePrinter.
func (f *Fake) Written() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]byte(nil), f.written...)
}

var _ spooler.API = (*Fake)(nil)
