package cpufeatures

// ctlMachdep is CTL_MACHDEP in sys/sysctl.h.
const ctlMachdep = 7

// altivecMIBs holds the AltiVec machdep sysctl per sub-architecture.
// OpenBSD exports no name for it; the leaf differs by port.
// "ppc" is a gccgo GOARCH; gc has no 32-bit PowerPC port.
var altivecMIBs = map[string]sysctlMIB{
	// CPU_ALTIVEC in powerpc64/include/cpu.h
	"ppc64": {ctlMachdep, 1},
	// CPU_ALTIVEC in macppc/include/cpu.h
	"ppc": {ctlMachdep, 2},
}

// detectOpenBSDAltivec reads the AltiVec flag for goarch; only a value of
// exactly 1 enables the feature.
func detectOpenBSDAltivec(r mibReader, goarch string) Initializer {
	var value Initializer
	mib, ok := altivecMIBs[goarch]
	if !ok {
		return value
	}
	v, err := mibUint32(r, mib)
	value.enableFeature(PowerPCAltivec, err == nil && int32(v) == 1)
	return value
}
