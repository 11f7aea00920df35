//go:build fuchsia && arm64 && cgo

package cpufeatures

/*
#cgo LDFLAGS: -lzircon
#include <zircon/syscalls.h>
*/
import "C"

const (
	platformSource    = "zx_system_get_features(ZX_FEATURE_KIND_CPU)"
	platformSupported = true
)

// zirconVDSO calls into the Zircon vDSO.
type zirconVDSO struct{}

func (zirconVDSO) SystemGetFeatures(kind uint32) (uint32, int32) {
	var features C.uint32_t
	status := C.zx_system_get_features(C.uint32_t(kind), &features)
	return uint32(features), int32(status)
}

func detectFeatures() Initializer {
	return detectZircon(zirconVDSO{})
}
