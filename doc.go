// Package cpufeatures provides run-time CPU feature detection for code that
// selects between optimized and fallback execution paths.
//
// Each supported (GOOS, GOARCH) pair reads hardware capability information
// from the channel its kernel exposes:
//   - FreeBSD/riscv64: the auxiliary vector (AT_HWCAP)
//   - Fuchsia/arm64: zx_system_get_features (requires cgo)
//   - NetBSD/arm64: the machdep.cpuN.cpu_id sysctl of every core
//   - OpenBSD/arm64: the CTL_MACHDEP CPU_ID_AA64* sysctls (requires cgo)
//   - OpenBSD/ppc64: the CTL_MACHDEP CPU_ALTIVEC sysctl (requires cgo)
//
// Every other platform compiles a probe that reports nothing.
//
// Detection is fail-closed. A source that is missing, unreadable, returns a
// value of unexpected size, or disagrees across cores yields the empty
// feature set: a feature that is reported absent is always safe to act on,
// a feature reported present must be usable.
//
// # Quick Check
//
//	if cpufeatures.Has(cpufeatures.ARM64SHA2) {
//	    sha256BlockARM64(h, p)
//	} else {
//	    sha256BlockGeneric(h, p)
//	}
//
// # Requirements
//
// Validate that required features are available:
//
//	if err := cpufeatures.Check(cpufeatures.ARM64AES, cpufeatures.ARM64PMULL); err != nil {
//	    var fe *cpufeatures.FeatureError
//	    if errors.As(err, &fe) {
//	        log.Fatalf("cpu not supported: %s: %s", fe.Feature, fe.Reason)
//	    }
//	    log.Fatal(err)
//	}
//
// # Caching
//
// [Probe] runs the platform probe on first use and publishes the result
// once; later calls never re-probe. [ProbeNoCache] always probes.
//
// # Disabling features
//
// Features can be hidden from [Probe] for testing fallback paths by setting
// [DisableEnv], e.g. CPUFEATURES_DISABLE=sha2,aes or CPUFEATURES_DISABLE=all.
// The variable can only remove features, never add them.
//
// # Types
//
// [Feature] is an architecture-scoped instruction-set extension; its
// [Feature.Index] is the bit it occupies in an [Initializer].
//
// [Initializer] is the fixed-capacity bit set a probe fills in.
//
// [Features] is the immutable, published result of a probe run.
//
// [FeatureError] explains why a required feature is unavailable.
package cpufeatures
