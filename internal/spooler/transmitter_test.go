package spooler_test

import (
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/orrn/rawspool/internal/spooler"
	"github.com/orrn/rawspool/internal/spooler/spoolertest"
)

var zplPayload = []byte("^XA^FO50,50^A0N,50,50^FDTEST^FS^XZ")

func newTransmitter(f *spoolertest.Fake) *spooler.Transmitter {
	return spooler.NewTransmitter(f, spooler.DocInfo{DocName: "ZPL-Label"}, nil)
}

func TestTransmitter_Send(t *testing.T) {
	fake := &spoolertest.Fake{}

	n, err := newTransmitter(fake).Send("LabelPrinter1", zplPayload)

	require.NoError(t, err)
	assert.Equal(t, len(zplPayload), n)
	assert.Equal(t, zplPayload, fake.Written())
	assert.Equal(t, "LabelPrinter1", fake.Device())
	assert.Equal(t, spooler.AccessUse, fake.Access())
	assert.Equal(t, spooler.DocInfo{DocName: "ZPL-Label", Datatype: "RAW"}, fake.Doc())
	assert.Equal(t, []string{
		"OpenPrinter",
		"StartDocPrinter",
		"StartPagePrinter",
		"WritePrinter",
		"EndPagePrinter",
		"EndDocPrinter",
		"ClosePrinter",
	}, fake.Calls())
	assert.Equal(t, 1, fake.Closes())
	assert.Zero(t, fake.Misuse())
}

func TestTransmitter_SendReturnsReportedCount(t *testing.T) {
	payload := make([]byte, 37)
	for i := range payload {
		payload[i] = byte('A' + i%26)
	}

	n, err := newTransmitter(&spoolertest.Fake{}).Send("LabelPrinter1", payload)
	require.NoError(t, err)
	assert.Equal(t, 37, n)

	short := &spoolertest.Fake{WriteLimit: 10}
	n, err = newTransmitter(short).Send("LabelPrinter1", payload)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestTransmitter_PayloadUntouched(t *testing.T) {
	payload := []byte("line one\nline two")
	orig := append([]byte(nil), payload...)
	fake := &spoolertest.Fake{}

	_, err := newTransmitter(fake).Send("LabelPrinter1", payload)

	require.NoError(t, err)
	assert.Equal(t, orig, payload)
	assert.Equal(t, orig, fake.Written())
}

func TestTransmitter_SendFailures(t *testing.T) {
	errOffline := syscall.Errno(1804)

	tests := []struct {
		name       string
		fake       *spoolertest.Fake
		wantOp     string
		wantErr    error
		wantCalls  []string
		wantCloses int
	}{
		{
			name:       "open fails",
			fake:       &spoolertest.Fake{OpenErr: errOffline},
			wantOp:     "OpenPrinter",
			wantErr:    errOffline,
			wantCalls:  []string{"OpenPrinter"},
			wantCloses: 0,
		},
		{
			name:       "start document fails",
			fake:       &spoolertest.Fake{StartDocErr: errOffline},
			wantOp:     "StartDocPrinter",
			wantErr:    errOffline,
			wantCalls:  []string{"OpenPrinter", "StartDocPrinter", "ClosePrinter"},
			wantCloses: 1,
		},
		{
			name:       "start document returns no job",
			fake:       &spoolertest.Fake{NoJob: true},
			wantOp:     "StartDocPrinter",
			wantErr:    spooler.ErrNoJob,
			wantCalls:  []string{"OpenPrinter", "StartDocPrinter", "ClosePrinter"},
			wantCloses: 1,
		},
		{
			name:       "start page fails",
			fake:       &spoolertest.Fake{StartPageErr: errOffline},
			wantOp:     "StartPagePrinter",
			wantErr:    errOffline,
			wantCalls:  []string{"OpenPrinter", "StartDocPrinter", "StartPagePrinter", "EndDocPrinter", "ClosePrinter"},
			wantCloses: 1,
		},
		{
			name:    "write fails",
			fake:    &spoolertest.Fake{WriteErr: errOffline},
			wantOp:  "WritePrinter",
			wantErr: errOffline,
			wantCalls: []string{
				"OpenPrinter", "StartDocPrinter", "StartPagePrinter", "WritePrinter",
				"EndPagePrinter", "EndDocPrinter", "ClosePrinter",
			},
			wantCloses: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := newTransmitter(tt.fake).Send("LabelPrinter1", zplPayload)

			require.Error(t, err)
			assert.Zero(t, n)
			assert.ErrorIs(t, err, tt.wantErr)

			var opErr *spooler.OpError
			require.True(t, errors.As(err, &opErr))
			assert.Equal(t, tt.wantOp, opErr.Op)
			assert.Equal(t, "LabelPrinter1", opErr.Device)

			assert.Equal(t, tt.wantCalls, tt.fake.Calls())
			assert.Equal(t, tt.wantCloses, tt.fake.Closes())
			assert.Zero(t, tt.fake.OpenHandles())
			assert.Zero(t, tt.fake.Misuse())
		})
	}
}

func TestTransmitter_CleanupErrorsSuppressed(t *testing.T) {
	fake := &spoolertest.Fake{
		EndPageErr: errors.New("end page"),
		EndDocErr:  errors.New("end doc"),
		CloseErr:   errors.New("close"),
	}
	core, logs := observer.New(zap.WarnLevel)
	tr := spooler.NewTransmitter(fake, spooler.DocInfo{DocName: "ZPL-Label"}, zap.New(core))

	n, err := tr.Send("LabelPrinter1", zplPayload)

	require.NoError(t, err)
	assert.Equal(t, len(zplPayload), n)
	assert.Equal(t, 3, logs.Len())
	assert.Equal(t, 1, fake.Closes())
}

func TestTransmitter_CleanupDoesNotMaskFailure(t *testing.T) {
	writeErr := errors.New("paper out")
	fake := &spoolertest.Fake{
		WriteErr:  writeErr,
		EndDocErr: errors.New("end doc"),
		CloseErr:  errors.New("close"),
	}

	_, err := newTransmitter(fake).Send("LabelPrinter1", zplPayload)

	assert.ErrorIs(t, err, writeErr)
	assert.Contains(t, err.Error(), "WritePrinter")
}

func TestTransmitter_HandlePerJob(t *testing.T) {
	fake := &spoolertest.Fake{}
	tr := newTransmitter(fake)

	for i := 0; i < 3; i++ {
		_, err := tr.Send("LabelPrinter1", zplPayload)
		require.NoError(t, err)
	}

	assert.Equal(t, 3, fake.Opens())
	assert.Equal(t, 3, fake.Closes())
	assert.Zero(t, fake.OpenHandles())
}
