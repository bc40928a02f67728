package ldr

// Fixed2 is a non-negative decimal with two fractional digits, stored as hundredths.
type Fixed2 uint32

// Fixed2FromPercent converts a percentage to the reported value p/100.
// Both the integer and fractional parts are truncated toward zero.
func Fixed2FromPercent(p float32) Fixed2 {
	if p <= 0 {
		return 0
	}
	return Fixed2(uint32(p))
}

// Int returns the integer part.
func (v Fixed2) Int() uint32 {
	return uint32(v) / 100
}

// Frac returns the two fractional digits as 0..99.
func (v Fixed2) Frac() uint32 {
	return uint32(v) % 100
}

func (v Fixed2) String() string {
	var buf [12]byte
	return string(AppendFixed2(buf[:0], v))
}

// AppendFixed2 renders v as <int>.<dd> without going through floating point.
func AppendFixed2(dst []byte, v Fixed2) []byte {
	dst = appendUint(dst, v.Int())
	f := v.Frac()
	return append(dst, '.', byte('0'+f/10), byte('0'+f%10))
}

// AppendLine renders a complete report line: label, value and CRLF.
func AppendLine(dst []byte, label string, v Fixed2) []byte {
	dst = append(dst, label...)
	dst = AppendFixed2(dst, v)
	return append(dst, '\r', '\n')
}

func appendUint(dst []byte, n uint32) []byte {
	if n == 0 {
		return append(dst, '0')
	}
	var tmp [10]byte
	i := len(tmp)
	for n > 0 {
		i--
		tmp[i] = byte('0' + n%10)
		n /= 10
	}
	return append(dst, tmp[i:]...)
}
