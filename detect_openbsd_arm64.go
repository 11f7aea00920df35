//go:build openbsd && arm64 && cgo

package cpufeatures

const (
	platformSource    = "sysctl CTL_MACHDEP CPU_ID_AA64*"
	platformSupported = true
)

func detectFeatures() Initializer {
	return detectOpenBSDIDRegs(libcSysctl{})
}
