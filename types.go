package cpufeatures

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrUnsupportedPlatform is returned when no feature probe exists for the
// running (GOOS, GOARCH) pair.
var ErrUnsupportedPlatform = errors.New("cpu feature detection not supported on " + runtime.GOOS + "/" + runtime.GOARCH)

// FeatureError represents an error when a required CPU feature is unavailable.
type FeatureError struct {
	Feature string
	Reason  string
	Err     error
}

func (e *FeatureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("feature %s: %s: %v", e.Feature, e.Reason, e.Err)
	}
	return fmt.Sprintf("feature %s: %s", e.Feature, e.Reason)
}

func (e *FeatureError) Unwrap() error {
	return e.Err
}

// Arch identifies the architecture family a [Feature] belongs to.
type Arch uint8

const (
	// ArchUnknown is any architecture without a feature enumeration.
	ArchUnknown Arch = iota
	// ArchRISCV covers riscv64, and gccgo's 32-bit riscv.
	ArchRISCV
	// ArchARM64 covers arm64 (AArch64).
	ArchARM64
	// ArchPowerPC covers ppc64, ppc64le and gccgo's ppc.
	ArchPowerPC
)

var archNames = map[Arch]string{
	ArchUnknown: "unknown",
	ArchRISCV:   "riscv",
	ArchARM64:   "arm64",
	ArchPowerPC: "powerpc",
}

func (a Arch) String() string {
	if name, ok := archNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Arch(%d)", a)
}

// goarchFamilies maps GOARCH values to their feature enumeration.
// runtime.GOARCH is a constant, so the lookup is fixed per build.
// "riscv" and "ppc" are gccgo GOARCH values.
var goarchFamilies = map[string]Arch{
	"riscv64": ArchRISCV,
	"riscv":   ArchRISCV,
	"arm64":   ArchARM64,
	"ppc64":   ArchPowerPC,
	"ppc64le": ArchPowerPC,
	"ppc":     ArchPowerPC,
}

// HostArch returns the architecture family of the running build.
func HostArch() Arch {
	return goarchFamilies[runtime.GOARCH]
}

// Feature is a CPU instruction-set extension.
//
// The low 8 bits are the feature's bit index within its architecture,
// the remaining bits hold its [Arch].
type Feature uint32

const featureArchShift = 8

// RISC-V features.
const (
	RISCVRV32I Feature = Feature(ArchRISCV)<<featureArchShift + iota
	RISCVRV64I
	RISCVZicsr
	RISCVM
	RISCVA
	RISCVF
	RISCVD
	RISCVC
)

// AArch64 features.
const (
	ARM64ASIMD Feature = Feature(ArchARM64)<<featureArchShift + iota
	ARM64PMULL
	ARM64FP
	ARM64FP16
	ARM64SVE
	ARM64CRC
	ARM64LSE
	ARM64LSE2
	ARM64RDM
	ARM64RCPC
	ARM64DotProd
	ARM64TME
	ARM64FHM
	ARM64FlagM
	ARM64PACA
	ARM64PACG
	ARM64DPB
	ARM64Rand
	ARM64AES
	ARM64SHA2
	ARM64SHA3
	ARM64SM4
)

// PowerPC features.
const (
	PowerPCAltivec Feature = Feature(ArchPowerPC)<<featureArchShift + iota
)

var featureNames = map[Feature]string{
	RISCVRV32I: "rv32i",
	RISCVRV64I: "rv64i",
	RISCVZicsr: "zicsr",
	RISCVM:     "m",
	RISCVA:     "a",
	RISCVF:     "f",
	RISCVD:     "d",
	RISCVC:     "c",

	ARM64ASIMD:   "asimd",
	ARM64PMULL:   "pmull",
	ARM64FP:      "fp",
	ARM64FP16:    "fp16",
	ARM64SVE:     "sve",
	ARM64CRC:     "crc",
	ARM64LSE:     "lse",
	ARM64LSE2:    "lse2",
	ARM64RDM:     "rdm",
	ARM64RCPC:    "rcpc",
	ARM64DotProd: "dotprod",
	ARM64TME:     "tme",
	ARM64FHM:     "fhm",
	ARM64FlagM:   "flagm",
	ARM64PACA:    "paca",
	ARM64PACG:    "pacg",
	ARM64DPB:     "dpb",
	ARM64Rand:    "rand",
	ARM64AES:     "aes",
	ARM64SHA2:    "sha2",
	ARM64SHA3:    "sha3",
	ARM64SM4:     "sm4",

	PowerPCAltivec: "altivec",
}

// featureCounts holds the number of features declared per architecture.
var featureCounts = map[Arch]uint32{
	ArchRISCV:   RISCVC.Index() + 1,
	ArchARM64:   ARM64SM4.Index() + 1,
	ArchPowerPC: PowerPCAltivec.Index() + 1,
}

// Arch returns the architecture the feature belongs to.
func (f Feature) Arch() Arch {
	return Arch(f >> featureArchShift)
}

// Index returns the feature's bit index within its architecture.
func (f Feature) Index() uint32 {
	return uint32(f & (1<<featureArchShift - 1))
}

// Name returns the architecture-local name, e.g. "sha2".
func (f Feature) Name() string {
	if name, ok := featureNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Feature(%d)", uint32(f))
}

// String returns the qualified name, e.g. "arm64.sha2".
func (f Feature) String() string {
	if name, ok := featureNames[f]; ok {
		return f.Arch().String() + "." + name
	}
	return fmt.Sprintf("Feature(%d)", uint32(f))
}

// FeatureValues returns every declared feature, grouped by architecture
// and ordered by bit index.
func FeatureValues() []Feature {
	var out []Feature
	for _, a := range []Arch{ArchRISCV, ArchARM64, ArchPowerPC} {
		out = append(out, archFeatures(a)...)
	}
	return out
}

// FeatureNames returns the qualified names of [FeatureValues].
func FeatureNames() []string {
	values := FeatureValues()
	names := make([]string, 0, len(values))
	for _, f := range values {
		names = append(names, f.String())
	}
	return names
}

// archFeatures returns the features of a in bit-index order.
func archFeatures(a Arch) []Feature {
	n := featureCounts[a]
	out := make([]Feature, 0, n)
	for i := uint32(0); i < n; i++ {
		out = append(out, featureAt(a, i))
	}
	return out
}

func featureAt(a Arch, index uint32) Feature {
	return Feature(a)<<featureArchShift | Feature(index)
}
