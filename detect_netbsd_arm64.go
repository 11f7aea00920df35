//go:build netbsd && arm64

package cpufeatures

const (
	platformSource    = "sysctl machdep.cpuN.cpu_id"
	platformSupported = true
)

func detectFeatures() Initializer {
	return detectNetBSDCPUID(unixSysctl{})
}
