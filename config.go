package cpufeatures

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// DisableEnv names the environment variable holding features to hide from
// [Probe]. It takes a comma-separated list of feature names ("sha2"),
// qualified names ("arm64.sha2") or "all". Matching is case-insensitive.
const DisableEnv = "CPUFEATURES_DISABLE"

// ErrUnknownFeature is returned for identifiers that name no feature.
var ErrUnknownFeature = errors.New("unknown feature")

// ParseDisableList parses a [DisableEnv] value for the host architecture.
//
// The returned mask holds every recognized feature. Unrecognized entries do
// not stop parsing; they are joined into the returned error.
func ParseDisableList(s string) (Initializer, error) {
	return parseDisableList(s, HostArch())
}

func parseDisableList(s string, arch Arch) (Initializer, error) {
	var mask Initializer
	var errs []error

	for _, part := range strings.Split(s, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		if strings.EqualFold(id, "all") {
			for _, f := range archFeatures(arch) {
				mask.Set(f.Index())
			}
			continue
		}
		f, ok := lookupFeature(id, arch)
		if !ok {
			errs = append(errs, fmt.Errorf("%s: %w %q", DisableEnv, ErrUnknownFeature, id))
			continue
		}
		mask.Set(f.Index())
	}

	return mask, errors.Join(errs...)
}

// lookupFeature resolves id against the features of arch.
// A qualified name is only accepted for the same architecture.
func lookupFeature(id string, arch Arch) (Feature, bool) {
	for _, f := range archFeatures(arch) {
		if strings.EqualFold(id, f.Name()) || strings.EqualFold(id, f.String()) {
			return f, true
		}
	}
	return 0, false
}

// disabledFromEnv reads [DisableEnv]. Unknown entries are skipped.
func disabledFromEnv(arch Arch) Initializer {
	v, ok := os.LookupEnv(DisableEnv)
	if !ok {
		return Initializer{}
	}
	mask, _ := parseDisableList(v, arch)
	return mask
}
