package ldr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	assert.Equal(t, float32(0), Percent(0))
	assert.Equal(t, float32(100), Percent(MaxRaw))
	assert.InDelta(t, 50.048876, Percent(512), 1e-4)
}

func TestPercent_TruncatesLikeIntegerDivision(t *testing.T) {
	for r := uint16(0); r <= MaxRaw; r++ {
		want := uint32(r) * 100 / MaxRaw
		got := Fixed2FromPercent(Percent(r))
		if !assert.Equal(t, Fixed2(want), got, "raw %d", r) {
			return
		}
	}
}

func TestBrighter(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 float32
		wantCh Channel
		wantP  float32
	}{
		{name: "ldr1 brighter", p1: 73, p2: 42, wantCh: LDR1, wantP: 73},
		{name: "ldr2 brighter", p1: 42, p2: 73, wantCh: LDR2, wantP: 73},
		{name: "tie goes to ldr1", p1: 50, p2: 50, wantCh: LDR1, wantP: 50},
		{name: "both dark", p1: 0, p2: 0, wantCh: LDR1, wantP: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch, p := Brighter(tt.p1, tt.p2)
			assert.Equal(t, tt.wantCh, ch)
			assert.Equal(t, tt.wantP, p)
		})
	}
}

func TestChannel_Label(t *testing.T) {
	assert.Equal(t, "LDR1: ", LDR1.Label())
	assert.Equal(t, "LDR2: ", LDR2.Label())
	assert.Equal(t, "LDR1", LDR1.String())
	assert.Equal(t, "LDR2", LDR2.String())
}
