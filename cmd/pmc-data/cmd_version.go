/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return fmt.Errorf("version: build info unavailable")
		}

		v := readBuildVersion(info)
		fmt.Fprintf(cmd.OutOrStdout(), "pmc-data version %s (%s)\n", v, info.GoVersion)
		if !v.committed.IsZero() {
			fmt.Fprintf(cmd.OutOrStdout(), "last commit %s\n", v.committed.Format(time.RFC3339))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// buildVersion is what the toolchain stamped into the binary.  module is "(devel)" unless it was
// built with "go install module@version".
type buildVersion struct {
	module    string
	revision  string
	committed time.Time
	dirty     bool
}

func readBuildVersion(info *debug.BuildInfo) buildVersion {
	v := buildVersion{module: info.Main.Version}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			v.revision = s.Value
		case "vcs.time":
			v.committed, _ = time.Parse(time.RFC3339, s.Value)
		case "vcs.modified":
			v.dirty = s.Value == "true"
		}
	}
	return v
}

func (v buildVersion) String() string {
	var parts []string
	if v.module != "" && v.module != "(devel)" {
		parts = append(parts, v.module)
	}
	if v.revision != "" {
		parts = append(parts, "rev", v.revision)
		if v.dirty {
			parts = append(parts, "dirty")
		}
	}
	if len(parts) == 0 {
		return "devel"
	}
	return strings.Join(parts, "-")
}
