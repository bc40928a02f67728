package link

import (
	"testing"
	"time"

	"github.com/itohio/goldr/pkg/ldr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantCh  ldr.Channel
		wantV   ldr.Fixed2
		wantErr bool
	}{
		{name: "valid ldr1", line: "LDR1: 0.73", wantCh: ldr.LDR1, wantV: 73},
		{name: "valid ldr2 full scale", line: "LDR2: 1.00", wantCh: ldr.LDR2, wantV: 100},
		{name: "valid zero", line: "LDR1: 0.00", wantCh: ldr.LDR1, wantV: 0},
		{name: "valid leading zero fraction", line: "LDR2: 0.07", wantCh: ldr.LDR2, wantV: 7},
		{name: "invalid - unknown label", line: "LDR3: 0.50", wantErr: true},
		{name: "invalid - no separator", line: "LDR1 0.50", wantErr: true},
		{name: "invalid - no decimal point", line: "LDR1: 1", wantErr: true},
		{name: "invalid - one fractional digit", line: "LDR1: 0.5", wantErr: true},
		{name: "invalid - three fractional digits", line: "LDR1: 0.500", wantErr: true},
		{name: "invalid - non-numeric", line: "LDR1: a.bc", wantErr: true},
		{name: "invalid - signed fraction", line: "LDR1: 0.+5", wantErr: true},
		{name: "invalid - above full scale", line: "LDR1: 1.01", wantErr: true},
		{name: "invalid - empty", line: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch, v, err := ParseLine(tt.line)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLine)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCh, ch)
			assert.Equal(t, tt.wantV, v)
		})
	}
}

func TestParseLine_RoundTripsFirmwareOutput(t *testing.T) {
	for r := uint16(0); r <= ldr.MaxRaw; r += 31 {
		want := ldr.Fixed2FromPercent(ldr.Percent(r))
		line := ldr.AppendLine(nil, ldr.LDR2.Label(), want)

		ch, v, err := ParseLine(string(line[:len(line)-2]))
		require.NoError(t, err, "raw %d", r)
		assert.Equal(t, ldr.LDR2, ch)
		assert.Equal(t, want, v)
	}
}

func TestParseReport(t *testing.T) {
	now := time.Unix(1700000000, 0)
	r, err := parseReport("LDR2: 0.42", now)
	require.NoError(t, err)
	assert.Equal(t, Report{Timestamp: now, Channel: ldr.LDR2, Value: 42}, r)
}
