// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"libman/internal/config"
	"libman/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// appConfig is the loaded configuration, shared by all commands.
	// Populated by initRootConfig; never nil after cobra initialization.
	appConfig *config.Config

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "libman",
		Short: "A runtime library dependency manager",
		Long: TitleStyle.Render("libman") + SubtitleStyle.Render(" - A runtime library dependency manager") + `

libman resolves version constraints across independently authored
libraries, detects conflicts, computes a dependency-respecting load
order, and configures isolated loading units with parent-first or
child-first symbol resolution.

Libraries describe themselves in 'libman.cue' manifests using CUE
format and declare dependencies with semantic version ranges.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Create a libman.cue manifest next to your library artifact
  2. Declare dependencies under 'requires' with version ranges
  3. Resolve and inspect with: libman resolve

` + SubtitleStyle.Render("Examples:") + `
  libman list               List all discovered libraries
  libman resolve            Resolve the workspace dependency graph
  libman order              Print the computed load order
  libman info guava         Show versions and dependencies of a library
  libman validate           Validate every discovered manifest`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/libman/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(validateCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig loads the configuration and installs the default logger.
func initRootConfig() {
	cfg, err := config.NewProvider().Load(context.Background(), config.LoadOptions{
		ConfigFilePath: cfgFile,
	})
	if err != nil {
		// Config loading errors are surfaced but never fatal: every
		// command still works against defaults.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	appConfig = cfg

	// Apply verbose from config if not set via flag
	if !verbose {
		verbose = cfg.UI.Verbose
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "libman",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	slog.SetDefault(slog.New(logger))
}

// formatErrorForDisplay formats an error for user display.
// Errors recognized by the issue catalog render with suggestions and a
// docs page; anything else falls back to its plain message.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	out, rerr := issue.RenderDiagnosis(err, verboseMode, "")
	if rerr != nil {
		return err.Error()
	}
	return out
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}
