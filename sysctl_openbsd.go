//go:build openbsd && cgo

package cpufeatures

/*
#include <sys/types.h>
#include <sys/sysctl.h>
*/
import "C"

import (
	"errors"
	"unsafe"
)

var errEmptyBuffer = errors.New("sysctl: empty buffer")

// libcSysctl reads sysctl values by MIB through libc sysctl(3). OpenBSD
// only permits the syscall from libc, and x/sys/unix cannot resolve
// machdep names there.
type libcSysctl struct{}

func (libcSysctl) SysctlMIB(mib sysctlMIB, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, errEmptyBuffer
	}
	m := [2]C.int{C.int(mib[0]), C.int(mib[1])}
	size := C.size_t(len(buf))
	if r, err := C.sysctl(&m[0], C.u_int(len(m)), unsafe.Pointer(&buf[0]), &size, nil, 0); r == -1 {
		return 0, err
	}
	return int(size), nil
}
