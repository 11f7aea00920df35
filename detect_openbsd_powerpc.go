//go:build openbsd && (ppc64 || ppc) && cgo

package cpufeatures

import "runtime"

const (
	platformSource    = "sysctl CTL_MACHDEP CPU_ALTIVEC"
	platformSupported = true
)

func detectFeatures() Initializer {
	return detectOpenBSDAltivec(libcSysctl{}, runtime.GOARCH)
}
