package spooler_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/orrn/rawspool/internal/spooler"
	"github.com/orrn/rawspool/internal/spooler/spoolertest"
)

func TestEnumerator_ListDevices(t *testing.T) {
	tests := []struct {
		name      string
		fake      *spoolertest.Fake
		want      []string
		wantFills int
		wantWarn  string
	}{
		{
			name:      "local and connected printers in spooler order",
			fake:      &spoolertest.Fake{Printers: spoolertest.Names("OfficeJet", "LabelPrinter1", "\\\\srv\\Zebra")},
			want:      []string{"OfficeJet", "LabelPrinter1", "\\\\srv\\Zebra"},
			wantFills: 1,
		},
		{
			name:      "no printers skips the fill call",
			fake:      &spoolertest.Fake{},
			want:      []string{},
			wantFills: 0,
			wantWarn:  "no printers found or failed to get buffer size",
		},
		{
			name:      "null name is replaced",
			fake:      &spoolertest.Fake{Printers: []*string{nil, spoolertest.Names("Zebra")[0]}},
			want:      []string{spooler.UnknownPrinter, "Zebra"},
			wantFills: 1,
		},
		{
			name: "fill failure discards the buffer",
			fake: &spoolertest.Fake{
				Printers: spoolertest.Names("OfficeJet"),
				FillErr:  errors.New("access denied"),
			},
			want:      []string{},
			wantFills: 1,
			wantWarn:  "failed to enumerate printers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			e := spooler.NewEnumerator(tt.fake, 0, zap.New(core))

			got := e.ListDevices()

			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, tt.fake.SizeQueries())
			assert.Equal(t, tt.wantFills, tt.fake.Fills())
			if tt.wantWarn != "" {
				assert.Equal(t, 1, logs.FilterMessage(tt.wantWarn).Len())
			}
		})
	}
}

func TestEnumerator_CountMatchesReturned(t *testing.T) {
	names := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		names = append(names, "printer-"+string(rune('a'+i)))
	}
	fake := &spoolertest.Fake{Printers: spoolertest.Names(names...)}

	got := spooler.NewEnumerator(fake, 0, nil).ListDevices()

	assert.Len(t, got, 25)
	assert.Equal(t, names, got)
}

func TestEnumerator_SizeQueryIsStable(t *testing.T) {
	fake := &spoolertest.Fake{Printers: spoolertest.Names("LabelPrinter1", "OfficeJet")}

	first, _, err1 := fake.EnumPrinters(spooler.EnumLocal|spooler.EnumConnections, spooler.InfoLevel2, nil)
	second, _, err2 := fake.EnumPrinters(spooler.EnumLocal|spooler.EnumConnections, spooler.InfoLevel2, nil)

	assert.NotZero(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, err1, err2)
}

func TestEnumerator_Unsupported(t *testing.T) {
	got := spooler.NewEnumerator(&unsupportedAPI{}, 0, nil).ListDevices()
	assert.Empty(t, got)
}

// unsupportedAPI fails every call like the non-Windows binding.
type unsupportedAPI struct{ spoolertest.Fake }

func (*unsupportedAPI) EnumPrinters(uint32, uint32, []byte) (uint32, uint32, error) {
	return 0, 0, spooler.ErrUnsupported
}
