package cpufeatures

import (
	"runtime"
	"sync/atomic"
)

// Features is the published result of a probe run. It is immutable.
type Features struct {
	// OS and GOARCH are the runtime.GOOS and runtime.GOARCH of the build.
	OS     string
	GOARCH string
	// Arch is the feature enumeration that applies to this build.
	Arch Arch
	// Source describes the OS interface the probe read.
	Source string
	// Supported is false when no probe exists for this platform,
	// in which case no feature is ever reported.
	Supported bool

	detected Initializer
	disabled Initializer
}

// Has reports whether f is usable. Features of another architecture, and
// features hidden through [DisableEnv], are never reported.
func (fs Features) Has(f Feature) bool {
	if f.Arch() != fs.Arch {
		return false
	}
	return fs.detected.Test(f.Index()) && !fs.disabled.Test(f.Index())
}

// Detected returns the raw probe result, before [DisableEnv] is applied.
func (fs Features) Detected() Initializer {
	return fs.detected
}

// Disabled reports whether f was detected but hidden through [DisableEnv].
func (fs Features) Disabled(f Feature) bool {
	return f.Arch() == fs.Arch && fs.detected.Test(f.Index()) && fs.disabled.Test(f.Index())
}

// List returns the usable features in bit-index order.
func (fs Features) List() []Feature {
	var out []Feature
	for _, index := range fs.detected.without(fs.disabled).Indices() {
		out = append(out, featureAt(fs.Arch, index))
	}
	return out
}

// Cache for Probe() results. CPU features don't change at runtime, so the
// first published result is served for the lifetime of the process.
//
// Concurrent first callers may each run the probe. That is harmless: a probe
// is a pure function of hardware state, so every run yields the same value.
// Only the first CompareAndSwap publishes.
var cachedFeatures atomic.Pointer[Features]

// Probe returns the CPU features of this machine, probing on first use.
// Subsequent calls return the cached result without re-probing.
// Use [ProbeNoCache] if you need fresh results.
func Probe() Features {
	if fs := cachedFeatures.Load(); fs != nil {
		return *fs
	}
	fs := ProbeNoCache()
	if !cachedFeatures.CompareAndSwap(nil, &fs) {
		// Another caller published first, unless ResetCache cleared it since.
		if p := cachedFeatures.Load(); p != nil {
			return *p
		}
	}
	return fs
}

// ProbeNoCache probes the CPU features without using the cache.
func ProbeNoCache() Features {
	return newFeatures(detectFeatures(), disabledFromEnv(HostArch()))
}

// ResetCache clears the cached probe result, forcing the next [Probe] call
// to re-probe. This is primarily useful for testing.
func ResetCache() {
	cachedFeatures.Store(nil)
}

// Has reports whether f is usable on this machine, using the cached probe.
func Has(f Feature) bool {
	return Probe().Has(f)
}

func newFeatures(detected, disabled Initializer) Features {
	return Features{
		OS:        runtime.GOOS,
		GOARCH:    runtime.GOARCH,
		Arch:      HostArch(),
		Source:    platformSource,
		Supported: platformSupported,
		detected:  detected,
		disabled:  disabled,
	}
}
