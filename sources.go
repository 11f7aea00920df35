package cpufeatures

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// auxvReader reads one entry of the process auxiliary vector.
type auxvReader interface {
	// Auxval returns the value of the entry tagged tag, or an error when the
	// vector or the entry is unavailable.
	Auxval(tag uintptr) (uint64, error)
}

// sysctlReader reads named OS parameters.
type sysctlReader interface {
	// Sysctl copies the value of the parameter called name into buf and
	// returns the number of bytes the OS reported for it.
	Sysctl(name string, buf []byte) (int, error)
}

// sysctlMIB is a two-level numeric sysctl identifier.
type sysctlMIB [2]int32

// mibReader reads OS parameters by numeric identifier.
type mibReader interface {
	// SysctlMIB copies the value of the parameter mib into buf and returns
	// the number of bytes the OS reported for it.
	SysctlMIB(mib sysctlMIB, buf []byte) (int, error)
}

// statusCaller issues the vendor feature-query status call.
type statusCaller interface {
	// SystemGetFeatures returns the feature word for kind and the call status.
	SystemGetFeatures(kind uint32) (features uint32, status int32)
}

var (
	errNoAuxval  = errors.New("auxiliary vector entry not found")
	errShortRead = errors.New("unexpected sysctl value size")
)

func (m sysctlMIB) String() string {
	return fmt.Sprintf("{%d,%d}", m[0], m[1])
}

// exactSize rejects a read that failed or did not fill want bytes.
func exactSize(key any, n int, err error, want int) error {
	if err != nil {
		return err
	}
	if n != want {
		return fmt.Errorf("%v: %w: got %d bytes, want %d", key, errShortRead, n, want)
	}
	return nil
}

// sysctlUint32 reads a parameter that must be exactly four bytes wide.
func sysctlUint32(r sysctlReader, name string) (uint32, error) {
	var buf [4]byte
	n, err := r.Sysctl(name, buf[:])
	if err := exactSize(name, n, err, len(buf)); err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint32(buf[:]), nil
}

// sysctlUint64 reads a parameter that must be exactly eight bytes wide.
func sysctlUint64(r sysctlReader, name string) (uint64, error) {
	var buf [8]byte
	n, err := r.Sysctl(name, buf[:])
	if err := exactSize(name, n, err, len(buf)); err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint64(buf[:]), nil
}

// mibUint32 is sysctlUint32 for numeric identifiers.
func mibUint32(r mibReader, mib sysctlMIB) (uint32, error) {
	var buf [4]byte
	n, err := r.SysctlMIB(mib, buf[:])
	if err := exactSize(mib, n, err, len(buf)); err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint32(buf[:]), nil
}

// mibUint64 is sysctlUint64 for numeric identifiers.
func mibUint64(r mibReader, mib sysctlMIB) (uint64, error) {
	var buf [8]byte
	n, err := r.SysctlMIB(mib, buf[:])
	if err := exactSize(mib, n, err, len(buf)); err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint64(buf[:]), nil
}

// cstring returns the bytes of b before the first NUL as a string.
func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
