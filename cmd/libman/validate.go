// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"libman/pkg/library"
	"libman/pkg/resolve"

	"github.com/spf13/cobra"
)

// validateCmd validates manifests and their declared dependencies.
var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate library manifests",
	Long: `Validate library manifests and their declared dependencies.

Without arguments, validates the whole workspace: every discovered
manifest is parsed, registered, and its dependency declarations checked
against the installed set. All problems are reported in one pass rather
than fix-and-rerun iteratively.

With a path argument, validates a single libman.cue file (or a directory
containing one) and checks its dependencies against the workspace.

Examples:
  libman validate
  libman validate ./libman.cue
  libman validate ./vendor/guava`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runWorkspaceValidation(cmd)
		}
		return runPathValidation(cmd, args[0])
	},
}

// runWorkspaceValidation validates every discovered manifest in one pass.
func runWorkspaceValidation(cmd *cobra.Command) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	fmt.Fprintln(stdout, TitleStyle.Render("Workspace Validation"))

	reg, scan := workspaceRegistry()
	printDiagnostics(stderr, scan.Diagnostics)
	failures := scan.Errors()

	resolver := resolve.New(reg)
	checked := 0
	for _, m := range scan.Manifests {
		if m.Manifest == nil || m.Error != nil {
			continue
		}
		deps, err := m.Manifest.Dependencies()
		if err != nil {
			fmt.Fprintln(stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
			failures++
			continue
		}
		checked++
		if err := resolver.Validate(deps); err != nil {
			fmt.Fprintf(stderr, "%s%s: %s\n", ErrorStyle.Render("Error: "), m.Library.Name, formatErrorForDisplay(err, verbose))
			failures++
		}
	}

	if failures > 0 {
		fmt.Fprintf(stdout, "%s %d problem(s) across %d manifest(s)\n", ErrorStyle.Render("✗"), failures, len(scan.Manifests))
		return &ExitError{Code: 1, Err: fmt.Errorf("validation failed with %d problem(s)", failures)}
	}
	fmt.Fprintf(stdout, "%s %d manifest(s) valid\n", SuccessStyle.Render("✓"), checked)
	return nil
}

// runPathValidation validates one manifest file or directory.
func runPathValidation(cmd *cobra.Command, path string) error {
	stdout := cmd.OutOrStdout()

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	var manifest *library.Manifest
	if info.IsDir() {
		manifest, err = library.LoadManifestDir(path)
	} else {
		manifest, err = library.ParseManifest(path)
	}
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), formatErrorForDisplay(err, verbose))
		return &ExitError{Code: 1, Err: err}
	}

	deps, err := manifest.Dependencies()
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), formatErrorForDisplay(err, verbose))
		return &ExitError{Code: 1, Err: err}
	}

	// Dependency declarations only make sense against the installed set.
	reg, scan := workspaceRegistry()
	printDiagnostics(cmd.ErrOrStderr(), scan.Diagnostics)
	if err := resolve.New(reg).Validate(deps); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), formatErrorForDisplay(err, verbose))
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Fprintf(stdout, "%s %s %s is valid\n", SuccessStyle.Render("✓"), LibStyle.Render(manifest.Name), manifest.Version)
	return nil
}
