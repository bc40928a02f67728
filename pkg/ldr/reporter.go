package ldr

import "io"

// maxLine fits the longest label plus a 10-digit integer part, the fraction and CRLF.
const maxLine = 24

// Reporter writes report lines one byte at a time to a transmitter.
// The transmitter's WriteByte is expected to spin until the hardware is ready.
type Reporter struct {
	w   io.ByteWriter
	buf [maxLine]byte
}

// NewReporter creates a Reporter on top of w.
func NewReporter(w io.ByteWriter) *Reporter {
	return &Reporter{w: w}
}

// SendLine transmits label, v and a CRLF terminator.
func (r *Reporter) SendLine(label string, v Fixed2) error {
	line := AppendLine(r.buf[:0], label, v)
	for _, b := range line {
		if err := r.w.WriteByte(b); err != nil {
			return err
		}
	}
	return nil
}

// SendBrighter reports the larger of two percentages, scaled to 0.00-1.00.
// Ties go to LDR1.
func (r *Reporter) SendBrighter(p1, p2 float32) (Channel, error) {
	ch, p := Brighter(p1, p2)
	return ch, r.SendLine(ch.Label(), Fixed2FromPercent(p))
}
