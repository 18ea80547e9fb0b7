// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"libman/internal/config"

	"github.com/spf13/cobra"
)

var (
	initForce bool

	// initCmd bootstraps the user environment: config file, libraries dir,
	// and optionally a starter manifest in the current directory.
	initCmd = &cobra.Command{
		Use:   "init [manifest-path]",
		Short: "Set up the libman config and libraries directory",
		Long: `Create the default config file, the user libraries directory
(~/.libman/libraries), and a starter libman.cue manifest in the current
directory.

Existing files are left untouched unless --force is given.

Examples:
  libman init
  libman init ./vendor/mylib/libman.cue --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing manifest")
}

const starterManifest = `// libman library manifest.
name:       "mylib"
version:    "0.1.0"
entrypoint: "lib/mylib.so"

// requires: [
// 	{name: "other", range: "[1.0.0,2.0.0)"},
// ]
`

func runInit(cmd *cobra.Command, args []string) error {
	stdout := cmd.OutOrStdout()

	if err := config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create default config: %w", err)
	}
	if err := config.EnsureLibrariesDir(); err != nil {
		return fmt.Errorf("failed to create libraries directory: %w", err)
	}
	libsDir, err := config.LibrariesDir()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s Libraries directory ready at %s\n", SuccessStyle.Render("✓"), libsDir)

	filename := "libman.cue"
	if len(args) > 0 {
		filename = args[0]
	}
	if _, err := os.Stat(filename); err == nil && !initForce {
		fmt.Fprintf(stdout, "%s %s already exists, leaving it untouched\n", WarningStyle.Render("!"), filename)
		return nil
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(filename, []byte(starterManifest), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	absPath, _ := filepath.Abs(filename)
	fmt.Fprintf(stdout, "%s Created %s\n", SuccessStyle.Render("✓"), absPath)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, SubtitleStyle.Render("Next steps:"))
	fmt.Fprintln(stdout, "  1. Edit the manifest's name, version, and entrypoint")
	fmt.Fprintln(stdout, "  2. Run 'libman list' to confirm it is discovered")
	fmt.Fprintln(stdout, "  3. Run 'libman resolve' to check its dependencies")

	return nil
}
