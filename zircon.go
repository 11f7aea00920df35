package cpufeatures

// Zircon status and feature constants.
// https://fuchsia.googlesource.com/fuchsia/+/refs/heads/main/zircon/system/public/zircon/errors.h
// https://fuchsia.googlesource.com/fuchsia/+/refs/heads/main/zircon/system/public/zircon/features.h
const (
	zxOK             int32  = 0
	zxFeatureKindCPU uint32 = 0

	zxARM64FeatureISAFP      uint32 = 1 << 1
	zxARM64FeatureISAASIMD   uint32 = 1 << 2
	zxARM64FeatureISAAES     uint32 = 1 << 3
	zxARM64FeatureISAPMULL   uint32 = 1 << 4
	zxARM64FeatureISASHA1    uint32 = 1 << 5
	zxARM64FeatureISASHA256  uint32 = 1 << 6
	zxARM64FeatureISACRC32   uint32 = 1 << 7
	zxARM64FeatureISAAtomics uint32 = 1 << 8
	zxARM64FeatureISARDM     uint32 = 1 << 9
	zxARM64FeatureISASHA3    uint32 = 1 << 10
	zxARM64FeatureISASM3     uint32 = 1 << 11
	zxARM64FeatureISASM4     uint32 = 1 << 12
	zxARM64FeatureISADP      uint32 = 1 << 13
	zxARM64FeatureISADPB     uint32 = 1 << 14
	zxARM64FeatureISAFHM     uint32 = 1 << 15
	zxARM64FeatureISATS      uint32 = 1 << 16
	zxARM64FeatureISARNDR    uint32 = 1 << 17
	zxARM64FeatureISASHA512  uint32 = 1 << 18
)

// zirconDirect maps raw Zircon bits that translate one-to-one.
var zirconDirect = []struct {
	bit     uint32
	feature Feature
}{
	{zxARM64FeatureISAFP, ARM64FP},
	{zxARM64FeatureISAASIMD, ARM64ASIMD},
	{zxARM64FeatureISAPMULL, ARM64PMULL},
	{zxARM64FeatureISACRC32, ARM64CRC},
	{zxARM64FeatureISAAtomics, ARM64LSE},
	{zxARM64FeatureISARDM, ARM64RDM},
	{zxARM64FeatureISADP, ARM64DotProd},
	{zxARM64FeatureISADPB, ARM64DPB},
	{zxARM64FeatureISAFHM, ARM64FHM},
	{zxARM64FeatureISATS, ARM64FlagM},
	{zxARM64FeatureISARNDR, ARM64Rand},
	{zxARM64FeatureISAAES, ARM64AES},
}

// zirconComposite maps features that need every listed raw bit.
var zirconComposite = []struct {
	mask    uint32
	feature Feature
}{
	{zxARM64FeatureISASHA1 | zxARM64FeatureISASHA256, ARM64SHA2},
	{zxARM64FeatureISASHA1 | zxARM64FeatureISASHA256 | zxARM64FeatureISASHA512 | zxARM64FeatureISASHA3, ARM64SHA3},
	{zxARM64FeatureISASM3 | zxARM64FeatureISASM4, ARM64SM4},
}

// parseZirconFeatures translates a ZX_FEATURE_KIND_CPU word.
func parseZirconFeatures(features uint32) Initializer {
	var value Initializer
	for _, d := range zirconDirect {
		value.enableFeature(d.feature, features&d.bit != 0)
	}
	for _, c := range zirconComposite {
		value.enableFeature(c.feature, features&c.mask == c.mask)
	}
	return value
}

// detectZircon reads the features using zx_system_get_features.
// https://fuchsia.dev/fuchsia-src/reference/syscalls/system_get_features
func detectZircon(c statusCaller) Initializer {
	features, status := c.SystemGetFeatures(zxFeatureKindCPU)
	if status != zxOK {
		return Initializer{}
	}
	return parseZirconFeatures(features)
}
