package link

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/itohio/goldr/pkg/ldr"
)

// Report represents one report line received from the device.
type Report struct {
	Timestamp time.Time
	Channel   ldr.Channel
	Value     ldr.Fixed2 // 0.00 - 1.00
}

// ParseLine parses a report line without its CRLF terminator.
// Format: LDRn: d.dd
// Example: LDR1: 0.73
func ParseLine(line string) (ldr.Channel, ldr.Fixed2, error) {
	label, value, ok := strings.Cut(line, ": ")
	if !ok {
		return 0, 0, fmt.Errorf("%w: missing label separator", ErrInvalidLine)
	}

	var ch ldr.Channel
	switch label {
	case "LDR1":
		ch = ldr.LDR1
	case "LDR2":
		ch = ldr.LDR2
	default:
		return 0, 0, fmt.Errorf("%w: unknown label %q", ErrInvalidLine, label)
	}

	intPart, fracPart, ok := strings.Cut(value, ".")
	if !ok {
		return 0, 0, fmt.Errorf("%w: missing decimal point", ErrInvalidLine)
	}
	if len(fracPart) != 2 {
		return 0, 0, fmt.Errorf("%w: expected 2 fractional digits, got %d", ErrInvalidLine, len(fracPart))
	}

	i, err := strconv.ParseUint(intPart, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid integer part: %v", ErrInvalidLine, err)
	}
	f, err := strconv.ParseUint(fracPart, 10, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid fractional part: %v", ErrInvalidLine, err)
	}

	v := ldr.Fixed2(i*100 + f)
	if v > 100 {
		return 0, 0, fmt.Errorf("%w: value out of range: %s (max 1.00)", ErrInvalidLine, v)
	}

	return ch, v, nil
}

// parseReport parses a line into a Report stamped with now.
func parseReport(line string, now time.Time) (Report, error) {
	ch, v, err := ParseLine(line)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Timestamp: now,
		Channel:   ch,
		Value:     v,
	}, nil
}
