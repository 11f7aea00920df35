package cpufeatures

import (
	"reflect"
	"runtime"
	"sync"
	"testing"
)

func arm64Features(detected, disabled Initializer) Features {
	return Features{
		OS:        "netbsd",
		GOARCH:    "arm64",
		Arch:      ArchARM64,
		Source:    "sysctl machdep.cpuN.cpu_id",
		Supported: true,
		detected:  detected,
		disabled:  disabled,
	}
}

func TestFeatures_Has(t *testing.T) {
	fs := arm64Features(features(ARM64AES, ARM64SHA2, ARM64CRC), features(ARM64CRC))

	tests := []struct {
		feature Feature
		want    bool
	}{
		{ARM64AES, true},
		{ARM64SHA2, true},
		{ARM64SHA3, false},
		{ARM64CRC, false}, // disabled
		// Same bit index, different architecture.
		{featureAt(ArchRISCV, ARM64AES.Index()), false},
		{featureAt(ArchPowerPC, ARM64AES.Index()), false},
	}
	for _, tt := range tests {
		t.Run(tt.feature.String(), func(t *testing.T) {
			if got := fs.Has(tt.feature); got != tt.want {
				t.Errorf("Has(%s) = %v, want %v", tt.feature, got, tt.want)
			}
		})
	}
}

func TestFeatures_Disabled(t *testing.T) {
	fs := arm64Features(features(ARM64AES, ARM64CRC), features(ARM64CRC, ARM64SHA3))

	if !fs.Disabled(ARM64CRC) {
		t.Error("Disabled(crc) = false, want true")
	}
	if fs.Disabled(ARM64AES) {
		t.Error("Disabled(aes) = true, want false")
	}
	// Never detected, so nothing was hidden.
	if fs.Disabled(ARM64SHA3) {
		t.Error("Disabled(sha3) = true, want false")
	}
}

func TestFeatures_List(t *testing.T) {
	fs := arm64Features(features(ARM64SHA2, ARM64ASIMD, ARM64AES, ARM64CRC), features(ARM64AES))
	want := []Feature{ARM64ASIMD, ARM64CRC, ARM64SHA2}
	if got := fs.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
	if got, want := fs.Names(), []string{"asimd", "crc", "sha2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	// Detected still reports the raw probe result.
	if !fs.Detected().Test(ARM64AES.Index()) {
		t.Error("Detected() lost a disabled feature")
	}
}

func TestProbe_Cached(t *testing.T) {
	ResetCache()
	t.Cleanup(ResetCache)

	first := Probe()
	if cachedFeatures.Load() == nil {
		t.Fatal("Probe() did not publish a result")
	}
	second := Probe()
	if first != second {
		t.Errorf("Probe() not idempotent: %+v vs %+v", first, second)
	}
	if fresh := ProbeNoCache(); fresh != first {
		t.Errorf("ProbeNoCache() = %+v, want %+v", fresh, first)
	}
}

func TestProbe_Metadata(t *testing.T) {
	ResetCache()
	t.Cleanup(ResetCache)

	fs := Probe()
	if fs.OS != runtime.GOOS || fs.GOARCH != runtime.GOARCH {
		t.Errorf("platform = %s/%s, want %s/%s", fs.OS, fs.GOARCH, runtime.GOOS, runtime.GOARCH)
	}
	if fs.Arch != HostArch() {
		t.Errorf("Arch = %v, want %v", fs.Arch, HostArch())
	}
	if fs.Source != platformSource || fs.Supported != platformSupported {
		t.Errorf("Source, Supported = %q, %v; want %q, %v", fs.Source, fs.Supported, platformSource, platformSupported)
	}
	if !fs.Supported && !fs.Detected().IsEmpty() {
		t.Errorf("unsupported platform reported %v", fs.Detected().Indices())
	}
}

func TestProbe_ConcurrentFirstUse(t *testing.T) {
	ResetCache()
	t.Cleanup(ResetCache)

	const n = 16
	results := make([]Features, n)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results[i] = Probe()
		}()
	}
	close(start)
	wg.Wait()

	published := cachedFeatures.Load()
	if published == nil {
		t.Fatal("no result published")
	}
	for i, r := range results {
		if r != *published {
			t.Errorf("caller %d got %+v, want published %+v", i, r, *published)
		}
	}
}

func TestProbe_ConcurrentReset(t *testing.T) {
	ResetCache()
	t.Cleanup(ResetCache)

	want := ProbeNoCache()
	stop := make(chan struct{})
	var resets sync.WaitGroup
	resets.Add(1)
	go func() {
		defer resets.Done()
		for {
			select {
			case <-stop:
				return
			default:
				ResetCache()
			}
		}
	}()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 2000 {
				if got := Probe(); got != want {
					t.Errorf("Probe() = %+v, want %+v", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(stop)
	resets.Wait()
}

func TestProbe_DisableEnv(t *testing.T) {
	t.Setenv(DisableEnv, "all")
	ResetCache()
	t.Cleanup(ResetCache)

	fs := Probe()
	for _, f := range archFeatures(HostArch()) {
		if fs.Has(f) {
			t.Errorf("Has(%s) = true with %s=all", f, DisableEnv)
		}
	}
	if got := fs.List(); len(got) != 0 {
		t.Errorf("List() = %v, want none", got)
	}
}

func TestHas_UsesCache(t *testing.T) {
	ResetCache()
	t.Cleanup(ResetCache)

	fake := arm64Features(features(ARM64AES), Initializer{})
	fake.Arch = HostArch()
	fake.detected = features(featureAt(HostArch(), 0))
	cachedFeatures.Store(&fake)

	if !Has(featureAt(HostArch(), 0)) {
		t.Error("Has() ignored the cached result")
	}
	if Has(featureAt(HostArch(), 1)) {
		t.Error("Has() reported a feature missing from the cached result")
	}
}

func TestDetectFeatures_Idempotent(t *testing.T) {
	if a, b := detectFeatures(), detectFeatures(); a != b {
		t.Errorf("detectFeatures() differs between runs: %v vs %v", a.Indices(), b.Indices())
	}
}
