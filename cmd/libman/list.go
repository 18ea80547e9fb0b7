// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"sort"

	"libman/internal/discovery"

	"github.com/spf13/cobra"
)

// listCmd lists every library discovered across the configured sources.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all discovered libraries",
	Long: `List every library manifest found in the current directory, the user
library directory (~/.libman/libraries), and the configured search paths.

Each line shows the library name, its declared version, and the manifest
location. Manifests that fail to parse are reported as warnings without
aborting the listing.

Examples:
  libman list
  libman list --verbose`,
	RunE: runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	stdout := cmd.OutOrStdout()

	reg, result := workspaceRegistry()
	printDiagnostics(cmd.ErrOrStderr(), result.Diagnostics)

	libs := reg.All()
	if len(libs) == 0 {
		fmt.Fprintln(stdout, SubtitleStyle.Render("No libraries found."))
		fmt.Fprintln(stdout, "Create a libman.cue manifest or add search paths to your config.")
		return nil
	}

	sort.Slice(libs, func(i, j int) bool {
		if libs[i].Name != libs[j].Name {
			return libs[i].Name < libs[j].Name
		}
		return libs[i].Version.Compare(libs[j].Version) < 0
	})

	fmt.Fprintln(stdout, TitleStyle.Render("Libraries")+SubtitleStyle.Render(fmt.Sprintf(" (%d)", len(libs))))
	for _, lib := range libs {
		line := "  " + LibStyle.Render(lib.Name) + " " + lib.Version.String()
		if verbose {
			if path := manifestPathOf(result, lib.Name, lib.Version.String()); path != "" {
				line += VerboseStyle.Render("  " + path)
			}
		}
		fmt.Fprintln(stdout, line)
	}
	return nil
}

// manifestPathOf finds the manifest path behind a registered library, for
// verbose listings.
func manifestPathOf(result *discovery.RegistryResult, name, version string) string {
	for _, m := range result.Manifests {
		if m.Error != nil || m.Manifest == nil {
			continue
		}
		if m.Library.Name == name && m.Library.Version.String() == version {
			return m.Path
		}
	}
	return ""
}
