package ldr

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct {
	n int
}

func (w *failingWriter) WriteByte(byte) error {
	if w.n == 0 {
		return errors.New("tx fault")
	}
	w.n--
	return nil
}

func TestReporter_SendBrighter(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 float32
		want   string
		wantCh Channel
	}{
		{name: "ldr1 wins", p1: 73.0, p2: 42.0, want: "LDR1: 0.73\r\n", wantCh: LDR1},
		{name: "ldr2 wins", p1: 42.0, p2: 73.0, want: "LDR2: 0.73\r\n", wantCh: LDR2},
		{name: "tie", p1: 50.0, p2: 50.0, want: "LDR1: 0.50\r\n", wantCh: LDR1},
		{name: "full scale", p1: 10.0, p2: 100.0, want: "LDR2: 1.00\r\n", wantCh: LDR2},
		{name: "dark", p1: 0, p2: 0, want: "LDR1: 0.00\r\n", wantCh: LDR1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			r := NewReporter(&out)
			ch, err := r.SendBrighter(tt.p1, tt.p2)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCh, ch)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestReporter_SendLine(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out)
	require.NoError(t, r.SendLine("LDR2: ", 7))
	require.NoError(t, r.SendLine("LDR1: ", 100))
	assert.Equal(t, "LDR2: 0.07\r\nLDR1: 1.00\r\n", out.String())
}

func TestReporter_WriteError(t *testing.T) {
	w := &failingWriter{n: 3}
	r := NewReporter(w)
	err := r.SendLine("LDR1: ", 50)
	assert.EqualError(t, err, "tx fault")
}
