package ldr

const (
	// MaxRaw is the full-scale value of a 10-bit conversion.
	MaxRaw = 1023
)

// Channel identifies one of the two light sensors.
type Channel uint8

const (
	LDR1 Channel = iota
	LDR2
)

// Label returns the line prefix used when the channel wins a reporting cycle.
func (c Channel) Label() string {
	switch c {
	case LDR1:
		return "LDR1: "
	case LDR2:
		return "LDR2: "
	}
	return "LDR?: "
}

func (c Channel) String() string {
	return c.Label()[:4]
}

// Sampler performs a blocking analog conversion on a channel and returns
// the raw 10-bit result (0..MaxRaw).
//
// Implementations switch the shared channel-select configuration, so Read
// must not be called concurrently with itself.
type Sampler interface {
	Read(ch Channel) uint16
}

// Reading is the outcome of one sample of one channel.
type Reading struct {
	Channel Channel
	Raw     uint16
	Percent float32
}

// Percent maps a raw conversion to 0..100.
func Percent(raw uint16) float32 {
	return float32(raw) * 100.0 / MaxRaw
}

// Brighter selects the larger of two percentages. Equal values go to LDR1.
func Brighter(p1, p2 float32) (Channel, float32) {
	if p1 >= p2 {
		return LDR1, p1
	}
	return LDR2, p2
}
