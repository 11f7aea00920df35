package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"runtime"
	"strings"

	"github.com/leodido/cpufeatures"
	"github.com/leodido/structcli"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thediveo/enumflag/v2"
	"go.uber.org/zap"
)

// Build metadata injected via ldflags.
// When built without ldflags (e.g., plain `go build`), these remain
// at their zero values and the version command omits them gracefully.
var (
	version = ""
	commit  = ""
	date    = ""
)

// errRequirementsNotMet reports a failed check after its result was printed.
var errRequirementsNotMet = errors.New("requirements not met")

func main() {
	if err := rootCmd().Execute(); err != nil {
		if !errors.Is(err, errRequirementsNotMet) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cpufeatures",
		Short: "CPU feature detection on platforms without a runtime probe",
		Long: `cpufeatures reports the CPU instruction-set extensions the operating system
exposes on platforms where the Go runtime does not detect them itself:
FreeBSD/riscv64, Fuchsia/arm64, NetBSD/arm64, OpenBSD/arm64 and OpenBSD/ppc64.

Features are read from the auxiliary vector, sysctl or the Zircon vDSO.
When detection is unavailable or inconsistent, every feature is reported absent.
Set CPUFEATURES_DISABLE to hide detected features.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(probeCmd())
	root.AddCommand(checkCmd())
	root.AddCommand(versionCmd())
	return root
}

// ProbeOptions defines flags for the probe subcommand.
type ProbeOptions struct {
	JSON    bool `flag:"json" flagshort:"j" flagdescr:"Output in JSON format"`
	Verbose bool `flag:"verbose" flagshort:"v" flagdescr:"Log probe details to stderr"`
}

func (o *ProbeOptions) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

func probeCmd() *cobra.Command {
	opts := &ProbeOptions{}

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Probe all CPU features and display results",
		PreRunE: func(c *cobra.Command, args []string) error {
			return structcli.Unmarshal(c, opts)
		},
		RunE: func(c *cobra.Command, args []string) error {
			log, err := newLogger(opts.Verbose)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			fs := cpufeatures.ProbeNoCache()
			logProbe(log, fs)

			if opts.JSON {
				return printJSON(c, newProbeReport(fs))
			}

			fmt.Fprint(c.OutOrStdout(), fs)
			return nil
		},
	}

	if err := opts.Attach(cmd); err != nil {
		panic(err)
	}
	return cmd
}

// probeReport is the JSON form of a probe result.
type probeReport struct {
	OS        string          `json:"os"`
	GOARCH    string          `json:"goarch"`
	Arch      string          `json:"arch"`
	Source    string          `json:"source"`
	Supported bool            `json:"supported"`
	Features  map[string]bool `json:"features"`
	Disabled  []string        `json:"disabled,omitempty"`
}

func newProbeReport(fs cpufeatures.Features) probeReport {
	r := probeReport{
		OS:        fs.OS,
		GOARCH:    fs.GOARCH,
		Arch:      fs.Arch.String(),
		Source:    fs.Source,
		Supported: fs.Supported,
		Features:  map[string]bool{},
	}
	for _, f := range cpufeatures.FeatureValues() {
		if f.Arch() != fs.Arch {
			continue
		}
		r.Features[f.Name()] = fs.Has(f)
		if fs.Disabled(f) {
			r.Disabled = append(r.Disabled, f.Name())
		}
	}
	return r
}

// CheckOptions defines flags for the check subcommand.
type CheckOptions struct {
	Require featureRequirements `flag:"require" flagshort:"r" flagdescr:"Required features (see available features above)" flagrequired:"true" flagcustom:"true"`
	JSON    bool                `flag:"json" flagshort:"j" flagdescr:"Output in JSON format"`
	Verbose bool                `flag:"verbose" flagshort:"v" flagdescr:"Log probe details to stderr"`
}

func (o *CheckOptions) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

func (o *CheckOptions) DefineRequire(name, short, descr string, structField reflect.StructField, fieldValue reflect.Value) (pflag.Value, string) {
	fieldPtr := fieldValue.Addr().Interface().(*featureRequirements)
	*fieldPtr = nil
	return fieldPtr, descr
}

func (o *CheckOptions) DecodeRequire(input any) (any, error) {
	s, ok := input.(string)
	if !ok {
		return input, nil
	}

	return parseFeatureRequirements(s)
}

// CompleteRequire completes the last element of a comma-separated list,
// skipping features already named earlier in it.
func (o *CheckOptions) CompleteRequire(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	current := toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
		current = toComplete[i+1:]
	}

	selected := map[cpufeatures.Feature]bool{}
	for _, part := range strings.Split(prefix, ",") {
		if f, ok := lookupIdentifier(strings.TrimSpace(part)); ok {
			selected[f] = true
		}
	}

	var candidates []string
	for _, f := range cpufeatures.FeatureValues() {
		if selected[f] {
			continue
		}
		for _, id := range featureIdentifierMap[f] {
			if strings.HasPrefix(id, strings.ToLower(current)) {
				candidates = append(candidates, prefix+id)
			}
		}
	}

	return candidates, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

func checkCmd() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check specific CPU feature requirements",
		Long:  checkLongDescription(),
		PreRunE: func(c *cobra.Command, args []string) error {
			return structcli.Unmarshal(c, opts)
		},
		RunE: func(c *cobra.Command, args []string) error {
			if len(opts.Require) == 0 {
				return fmt.Errorf("no features specified")
			}

			log, err := newLogger(opts.Verbose)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			fs := cpufeatures.Probe()
			logProbe(log, fs)

			requirements := make([]cpufeatures.Requirement, 0, len(opts.Require))
			for _, f := range opts.Require {
				requirements = append(requirements, f)
			}

			err = fs.Check(requirements...)
			if err != nil {
				var fe *cpufeatures.FeatureError
				if errors.As(err, &fe) {
					log.Debug("requirement not met",
						zap.String("feature", fe.Feature),
						zap.String("reason", fe.Reason),
						zap.Bool("unsupported_platform", errors.Is(err, cpufeatures.ErrUnsupportedPlatform)),
					)
					if opts.JSON {
						if err := printJSON(c, map[string]any{
							"ok":      false,
							"feature": fe.Feature,
							"reason":  fe.Reason,
						}); err != nil {
							return err
						}
						return errRequirementsNotMet
					}
					fmt.Fprintf(c.ErrOrStderr(), "FAIL: %s — %s\n", fe.Feature, fe.Reason)
					return errRequirementsNotMet
				}
				return err
			}

			if opts.JSON {
				return printJSON(c, map[string]any{"ok": true})
			}
			fmt.Fprintln(c.OutOrStdout(), "OK: all requirements satisfied")
			return nil
		},
	}

	if err := opts.Attach(cmd); err != nil {
		panic(err)
	}
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show tool version and detection platform",
		RunE: func(c *cobra.Command, args []string) error {
			out := c.OutOrStdout()
			if version != "" {
				fmt.Fprintf(out, "cpufeatures %s", version)
				if commit != "" {
					fmt.Fprintf(out, " (%s)", commit)
				}
				if date != "" {
					fmt.Fprintf(out, " built %s", date)
				}
				fmt.Fprintln(out)
			} else {
				fmt.Fprintln(out, "cpufeatures (dev)")
			}

			fs := cpufeatures.Probe()
			fmt.Fprintf(out, "Platform: %s/%s (%s)\n", runtime.GOOS, runtime.GOARCH, runtime.Version())
			fmt.Fprintf(out, "Detection: %s\n", detectionSummary(fs))
			return nil
		},
	}
}

func detectionSummary(fs cpufeatures.Features) string {
	if !fs.Supported {
		return "unsupported"
	}
	return fs.Source
}

// newLogger returns a console logger on stderr when verbose is set,
// and a no-op logger otherwise.
func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func logProbe(log *zap.Logger, fs cpufeatures.Features) {
	log.Debug("probe finished",
		zap.String("platform", fs.OS+"/"+fs.GOARCH),
		zap.Stringer("arch", fs.Arch),
		zap.String("source", fs.Source),
		zap.Bool("supported", fs.Supported),
		zap.Uint32s("detected", fs.Detected().Indices()),
		zap.Strings("features", fs.Names()),
	)
	if env, ok := os.LookupEnv(cpufeatures.DisableEnv); ok {
		if _, err := cpufeatures.ParseDisableList(env); err != nil {
			log.Warn("ignoring unknown entries", zap.String("env", cpufeatures.DisableEnv), zap.Error(err))
		}
	}
}

func printJSON(c *cobra.Command, v any) error {
	enc := json.NewEncoder(c.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func availableFeatures() string {
	return strings.Join(cpufeatures.FeatureNames(), ", ")
}

func checkLongDescription() string {
	return fmt.Sprintf(`Check that the CPU supports all required features.
Exits with code 0 if all requirements are met, 1 if any are missing.

Features of the host architecture (%s) may be given without their prefix.

Available features:
%s`, cpufeatures.HostArch(), formatWrappedList(cpufeatures.FeatureNames(), "  ", 80))
}

func formatWrappedList(items []string, indent string, maxWidth int) string {
	if len(items) == 0 {
		return indent + "(none)"
	}

	lines := make([]string, 0, len(items))
	line := indent
	for i, item := range items {
		token := item
		if i < len(items)-1 {
			token += ", "
		}

		if len(line)+len(token) > maxWidth && line != indent {
			lines = append(lines, strings.TrimRight(line, " "))
			line = indent + token
			continue
		}

		line += token
	}

	lines = append(lines, strings.TrimRight(line, " "))
	return strings.Join(lines, "\n")
}

type featureRequirements []cpufeatures.Feature

// featureIdentifierMap accepts the qualified name of every feature, and the
// bare name of features of the host architecture.
var featureIdentifierMap = func() map[cpufeatures.Feature][]string {
	ids := make(map[cpufeatures.Feature][]string, len(cpufeatures.FeatureValues()))
	host := cpufeatures.HostArch()
	for _, f := range cpufeatures.FeatureValues() {
		ids[f] = []string{f.String()}
		if f.Arch() == host {
			ids[f] = append(ids[f], f.Name())
		}
	}
	return ids
}()

func lookupIdentifier(name string) (cpufeatures.Feature, bool) {
	if name == "" {
		return 0, false
	}
	var feature cpufeatures.Feature
	enumValue := enumflag.New(&feature, "cpufeatures.Feature", featureIdentifierMap, enumflag.EnumCaseInsensitive)
	if err := enumValue.Set(name); err != nil {
		return 0, false
	}
	return feature, true
}

func (r *featureRequirements) String() string {
	names := make([]string, 0, len(*r))
	for _, f := range *r {
		names = append(names, f.String())
	}

	return strings.Join(names, ",")
}

func (r *featureRequirements) Set(input string) error {
	features, err := parseFeatureRequirements(input)
	if err != nil {
		return err
	}

	*r = append(*r, features...)
	return nil
}

func (r *featureRequirements) Type() string {
	return "feature"
}

func parseFeatureRequirements(input string) (featureRequirements, error) {
	if strings.TrimSpace(input) == "" {
		return featureRequirements{}, nil
	}

	parts := strings.Split(input, ",")
	features := make(featureRequirements, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}

		feature, ok := lookupIdentifier(name)
		if !ok {
			return nil, fmt.Errorf("unknown feature: %q (available: %s)", name, availableFeatures())
		}

		features = append(features, feature)
	}

	return features, nil
}
