package cpufeatures

const (
	machdepPrefix = "machdep.cpu"
	machdepSuffix = ".cpu_id\x00"
	// uint32MaxDigits is len("4294967295").
	uint32MaxDigits   = 10
	machdepNameMaxLen = len(machdepPrefix) + uint32MaxDigits + len(machdepSuffix)
)

// machdepName builds "machdep.cpu<N>.cpu_id\0" sysctl names in a fixed
// buffer. It never allocates, so it is usable before the heap is.
// The returned slice aliases the buffer and is valid until the next call.
type machdepName struct {
	buf [machdepNameMaxLen]byte
}

// cpu returns the NUL-terminated cpu_id name of logical core n.
func (m *machdepName) cpu(n uint32) []byte {
	i := copy(m.buf[:], machdepPrefix)

	var digits [uint32MaxDigits]byte
	d := len(digits)
	for {
		d--
		digits[d] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}

	i += copy(m.buf[i:], digits[d:])
	i += copy(m.buf[i:], machdepSuffix)
	return m.buf[:i]
}
