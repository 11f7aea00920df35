package cpufeatures

import "fmt"

// Check validates the specified requirements against the cached probe and
// returns a *[FeatureError] for the first unsatisfied requirement, or nil if
// all are met.
func Check(required ...Requirement) error {
	return Probe().Check(required...)
}

// Check validates the specified requirements against fs.
func (fs Features) Check(required ...Requirement) error {
	rs := normalizeRequirements(required)

	for _, f := range rs.features {
		if _, known := featureNames[f]; !known {
			return &FeatureError{Feature: f.String(), Reason: "unknown feature"}
		}
		if fs.Has(f) {
			continue
		}
		fe := &FeatureError{Feature: f.String(), Reason: fs.Diagnose(f)}
		if !fs.Supported && f.Arch() == fs.Arch {
			fe.Err = ErrUnsupportedPlatform
		}
		return fe
	}

	return nil
}

// Diagnose returns a reason string explaining why a feature is not
// reported and what the operator can do about it.
func (fs Features) Diagnose(f Feature) string {
	switch {
	case fs.Has(f):
		return "supported"
	case f.Arch() != fs.Arch:
		return fmt.Sprintf("%s feature; this build targets %s (%s)", f.Arch(), fs.GOARCH, fs.Arch)
	case !fs.Supported:
		return fmt.Sprintf("no feature detection for %s/%s; every feature is reported absent", fs.OS, fs.GOARCH)
	case fs.Disabled(f):
		return fmt.Sprintf("detected but disabled through %s", DisableEnv)
	case fs.detected.IsEmpty():
		return fmt.Sprintf("%s returned nothing (unavailable, unreadable, or inconsistent across cores)", fs.Source)
	default:
		return fmt.Sprintf("not reported by %s", fs.Source)
	}
}
