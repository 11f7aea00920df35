package cpufeatures

import (
	"fmt"
	"strings"
)

// String returns a human-readable summary of the probe result.
func (fs Features) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Platform: %s/%s\n", fs.OS, fs.GOARCH)
	fmt.Fprintf(&b, "Architecture: %s\n", fs.Arch)
	if !fs.Supported {
		b.WriteString("Source: none (no feature detection for this platform)\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Source: %s\n", fs.Source)
	b.WriteString("\n")

	b.WriteString("Features:\n")
	for _, f := range archFeatures(fs.Arch) {
		writeFeature(&b, fs, f)
	}

	return b.String()
}

// Names returns the names of the usable features in bit-index order.
func (fs Features) Names() []string {
	list := fs.List()
	names := make([]string, 0, len(list))
	for _, f := range list {
		names = append(names, f.Name())
	}
	return names
}

func writeFeature(b *strings.Builder, fs Features, f Feature) {
	switch {
	case fs.Has(f):
		fmt.Fprintf(b, "  %s: yes\n", f.Name())
	case fs.Disabled(f):
		fmt.Fprintf(b, "  %s: no (disabled by %s)\n", f.Name(), DisableEnv)
	default:
		fmt.Fprintf(b, "  %s: no\n", f.Name())
	}
}
