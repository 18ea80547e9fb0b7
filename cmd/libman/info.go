// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"libman/internal/discovery"
	"libman/pkg/library"
	"libman/pkg/resolve"

	"github.com/spf13/cobra"
)

// infoCmd shows everything known about one library.
var infoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show versions and dependencies of a library",
	Long: `Show everything known about a library: the installed versions, the
manifest behind the preferred one, its declared dependencies, and its
isolation policy. The name comparison is case-insensitive.

Examples:
  libman info guava
  libman info SLF4J`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	stdout := cmd.OutOrStdout()
	name := library.CanonicalName(args[0])

	reg, scan := workspaceRegistry()
	printDiagnostics(cmd.ErrOrStderr(), scan.Diagnostics)

	if !reg.IsRegistered(name) {
		err := &resolve.LibraryNotFoundError{Name: name, Suggestions: reg.Suggest(name)}
		fmt.Fprintln(cmd.ErrOrStderr(), formatErrorForDisplay(err, verbose))
		return &ExitError{Code: 1, Err: err}
	}

	versions := reg.Versions(name)
	fmt.Fprintln(stdout, TitleStyle.Render(name))

	rendered := make([]string, len(versions))
	for i, v := range versions {
		rendered[i] = v.String()
	}
	fmt.Fprintln(stdout, SubtitleStyle.Render("Versions: ")+strings.Join(rendered, ", "))

	// Details come from the highest version's manifest, the one every
	// strategy except first-declared would pick.
	highest := versions[len(versions)-1]
	lib, ok := reg.Get(name, highest)
	if !ok {
		return fmt.Errorf("library %q version %s disappeared from the registry", name, highest)
	}

	fmt.Fprintln(stdout, SubtitleStyle.Render("Entry point: ")+lib.EntryPoint)
	if m := manifestFor(scan, lib); m != nil {
		if m.Manifest.Description != "" {
			fmt.Fprintln(stdout, SubtitleStyle.Render("Description: ")+m.Manifest.Description)
		}
		fmt.Fprintln(stdout, SubtitleStyle.Render("Manifest: ")+m.Path)
		printIsolation(stdout, m.Manifest)
	}
	printRequires(stdout, lib.Requires)
	return nil
}

// manifestFor maps a registered library back to its discovered manifest.
func manifestFor(scan *discovery.RegistryResult, lib library.Library) *discovery.DiscoveredManifest {
	for _, m := range scan.Manifests {
		if m.Error != nil || m.Manifest == nil {
			continue
		}
		if m.Library.Name == lib.Name && m.Library.Version.Compare(lib.Version) == 0 {
			return m
		}
	}
	return nil
}

// printRequires renders a library's declared dependencies.
func printRequires(w io.Writer, deps []library.Dependency) {
	if len(deps) == 0 {
		return
	}
	fmt.Fprintln(w, SubtitleStyle.Render("Requires:"))
	for _, d := range deps {
		line := "  " + LibStyle.Render(d.Name) + " " + d.Range.String()
		if !d.Required {
			line += SubtitleStyle.Render(" (optional)")
		}
		fmt.Fprintln(w, line)
	}
}

// printIsolation renders the manifest's loading policy block.
func printIsolation(w io.Writer, m *library.Manifest) {
	if m.Isolation == nil {
		return
	}
	mode := "shared (parent-first)"
	if m.Isolation.Isolated {
		mode = "isolated (child-first)"
	}
	fmt.Fprintln(w, SubtitleStyle.Render("Isolation: ")+mode)
	if len(m.Isolation.ExcludedNamespaces) > 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("Excluded namespaces: ")+strings.Join(m.Isolation.ExcludedNamespaces, ", "))
	}
}
