//go:build freebsd && riscv64

package cpufeatures

import "golang.org/x/sys/unix"

const (
	platformSource    = "auxiliary vector (AT_HWCAP)"
	platformSupported = true
)

// processAuxv reads the auxiliary vector the kernel passed to this process.
type processAuxv struct{}

func (processAuxv) Auxval(tag uintptr) (uint64, error) {
	auxv, err := unix.Auxv()
	if err != nil {
		return 0, err
	}
	for _, kv := range auxv {
		if kv[0] == tag {
			return uint64(kv[1]), nil
		}
	}
	return 0, errNoAuxval
}

func detectFeatures() Initializer {
	return detectRISCVAuxv(processAuxv{}, atHWCAPFreeBSD)
}
