// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"libman/internal/issue"
	"libman/pkg/resolve"

	"github.com/spf13/cobra"
)

var (
	// resolveStrategy overrides the configured default strategy.
	resolveStrategy string

	// resolveProvided declares host-provided library versions (name=version).
	resolveProvided []string

	// resolveWriteLock writes libman.lock.toml on a successful pass.
	resolveWriteLock bool
)

// resolveCmd resolves the workspace dependency graph.
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the workspace dependency graph",
	Long: `Resolve the declared dependencies of every discovered library into one
concrete version per name, then compute a load order in which every
library appears after its own dependencies.

Conflicting declarations are reported per library with each requester's
range and the best installed version. The resolution strategy decides how
overlapping ranges are reconciled:

  highest-version     pick the highest version satisfying all ranges (default)
  first-declared      honor the first declaration, warn on ignored ranges
  strict              any overlap disagreement fails the whole pass
  framework-provided  host-pinned versions win over declared ranges

Examples:
  libman resolve
  libman resolve --strategy strict
  libman resolve --strategy framework-provided --provided slf4j=2.0.13
  libman resolve --write-lock`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveStrategy, "strategy", "", "resolution strategy (defaults to the configured strategy)")
	resolveCmd.Flags().StringArrayVar(&resolveProvided, "provided", nil, "host-provided library version as name=version (repeatable)")
	resolveCmd.Flags().BoolVar(&resolveWriteLock, "write-lock", false, "write "+resolve.LockFileName+" on success")
}

func runResolve(cmd *cobra.Command, _ []string) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	strategy, err := strategyFor(resolveStrategy)
	if err != nil {
		return err
	}
	provided, err := parseProvided(resolveProvided)
	if err != nil {
		return err
	}

	reg, scan := workspaceRegistry()
	printDiagnostics(stderr, scan.Diagnostics)

	byRequester, err := workspaceDependencies(scan)
	if err != nil {
		return err
	}
	if len(byRequester) == 0 {
		fmt.Fprintln(stdout, SubtitleStyle.Render("Nothing to resolve: no library declares dependencies."))
		return nil
	}

	resolver := resolve.New(reg, resolve.WithStrategy(strategy), resolve.WithProvided(provided))
	result := resolver.ResolveAll(byRequester)

	fmt.Fprintln(stdout, TitleStyle.Render("Resolution")+SubtitleStyle.Render(" ("+result.Strategy.String()+")"))
	if !result.OK() {
		for _, line := range result.Describe() {
			fmt.Fprintln(stderr, ErrorStyle.Render("Error: ")+line)
		}
		return &ExitError{Code: 1, Err: firstResolutionError(reg, result)}
	}

	for _, lib := range result.Resolved {
		fmt.Fprintln(stdout, "  "+SuccessStyle.Render("✓")+" "+LibStyle.Render(lib.Name)+" "+lib.Version.String())
	}
	for _, dep := range result.OptionalMissing {
		fmt.Fprintln(stdout, "  "+WarningStyle.Render("-")+" "+dep.Name+SubtitleStyle.Render(" (optional, not installed)"))
	}
	printLoadOrder(stdout, result)

	lockPath := filepath.Join(".", resolve.LockFileName)
	if resolveWriteLock {
		lock, lerr := resolve.NewLockFile(result, requestersOf(byRequester))
		if lerr != nil {
			return lerr
		}
		if lerr := lock.Save(lockPath); lerr != nil {
			return lerr
		}
		fmt.Fprintln(stdout, SuccessStyle.Render("Wrote ")+lockPath)
		return nil
	}

	// A pre-existing lock that no longer matches means the installed set
	// drifted since the snapshot was taken.
	lock, lerr := resolve.LoadLockFile(lockPath)
	if lerr != nil {
		fmt.Fprintln(stderr, WarningStyle.Render("Warning: ")+lerr.Error())
	} else if lock != nil && !lock.Matches(result) {
		fmt.Fprintln(stderr, WarningStyle.Render("Warning: ")+resolve.LockFileName+" is stale; re-run with --write-lock to refresh it")
		if verbose {
			if iss := issue.Get(issue.LockFileStaleId); iss != nil {
				if page, perr := iss.Render(""); perr == nil {
					fmt.Fprintln(stderr, page)
				}
			}
		}
	}
	return nil
}

// firstResolutionError picks the error that best summarizes a failed pass,
// so exit diagnostics can render one actionable issue.
func firstResolutionError(reg *resolve.Registry, result *resolve.Result) error {
	if len(result.Conflicts) > 0 {
		names := make([]string, 0, len(result.Conflicts))
		for name := range result.Conflicts {
			names = append(names, name)
		}
		sort.Strings(names)
		return result.Conflicts[names[0]].Err()
	}
	if result.Cycle != nil {
		return result.Cycle
	}
	if len(result.Missing) > 0 {
		dep := result.Missing[0]
		return &resolve.LibraryNotFoundError{Name: dep.Name, Suggestions: reg.Suggest(dep.Name)}
	}
	return fmt.Errorf("resolution failed")
}

// printLoadOrder renders the computed load order, one position per line.
func printLoadOrder(w io.Writer, result *resolve.Result) {
	if len(result.LoadOrder) == 0 {
		return
	}
	fmt.Fprintln(w, SubtitleStyle.Render("Load order:"))
	for i, lib := range result.LoadOrder {
		fmt.Fprintf(w, "  %2d. %s %s\n", i+1, LibStyle.Render(lib.Name), lib.Version)
	}
}
