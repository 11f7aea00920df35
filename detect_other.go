//go:build !(freebsd && riscv64) && !(fuchsia && arm64 && cgo) && !(netbsd && arm64) && !(openbsd && (arm64 || ppc64 || ppc) && cgo)

package cpufeatures

const (
	platformSource    = "none"
	platformSupported = false
)

// detectFeatures reports nothing: there is no probe for this platform.
func detectFeatures() Initializer {
	return Initializer{}
}
