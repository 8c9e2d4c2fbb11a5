package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

// version is stamped by the release build:
// -ldflags "-X github.com/abhisek/cookiz/cmd.version=v1.2.3".
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and build details",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		info, _ := debug.ReadBuildInfo()
		if short, _ := cmd.Flags().GetBool("short"); short {
			fmt.Fprintln(cmd.OutOrStdout(), resolvedVersion(version, info))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), versionLine(version, info))
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("short", false, "Print only the version")
}

// resolvedVersion prefers the stamped version, then the module version
// recorded by `go install ...@vX`.
func resolvedVersion(v string, info *debug.BuildInfo) string {
	if v != "(devel)" || info == nil {
		return v
	}
	if mv := info.Main.Version; mv != "" && mv != "(devel)" {
		return mv
	}
	return v
}

// versionLine is "cookiz <version> (<revision>[-dirty]) <go> <os>/<arch>";
// the revision is left out when the build carries no VCS stamp.
func versionLine(v string, info *debug.BuildInfo) string {
	goVersion := runtime.Version()
	var revision string
	dirty := false
	if info != nil {
		if info.GoVersion != "" {
			goVersion = info.GoVersion
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				revision = s.Value
			case "vcs.modified":
				dirty = s.Value == "true"
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "cookiz %s", resolvedVersion(v, info))
	if revision != "" {
		if len(revision) > 12 {
			revision = revision[:12]
		}
		if dirty {
			revision += "-dirty"
		}
		fmt.Fprintf(&b, " (%s)", revision)
	}
	fmt.Fprintf(&b, " %s %s/%s", goVersion, runtime.GOOS, runtime.GOARCH)
	return b.String()
}
