// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"libman/pkg/resolve"

	"github.com/spf13/cobra"
)

// orderStrategy overrides the configured default strategy for ordering.
var orderStrategy string

// orderCmd prints just the computed load order, one library per line.
var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Print the computed load order",
	Long: `Resolve the workspace and print only the load order: the sequence in
which libraries must be loaded so every library's dependencies are
already present when it initializes. The output is plain name/version
pairs, one per line, suitable for scripting.

Examples:
  libman order
  libman order --strategy first-declared`,
	RunE: runOrder,
}

func init() {
	orderCmd.Flags().StringVar(&orderStrategy, "strategy", "", "resolution strategy (defaults to the configured strategy)")
}

func runOrder(cmd *cobra.Command, _ []string) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	strategy, err := strategyFor(orderStrategy)
	if err != nil {
		return err
	}

	reg, scan := workspaceRegistry()
	printDiagnostics(stderr, scan.Diagnostics)

	byRequester, err := workspaceDependencies(scan)
	if err != nil {
		return err
	}

	result := resolve.New(reg, resolve.WithStrategy(strategy)).ResolveAll(byRequester)
	if !result.OK() {
		for _, line := range result.Describe() {
			fmt.Fprintln(stderr, ErrorStyle.Render("Error: ")+line)
		}
		return &ExitError{Code: 1, Err: firstResolutionError(reg, result)}
	}

	for _, lib := range result.LoadOrder {
		fmt.Fprintf(stdout, "%s %s\n", lib.Name, lib.Version)
	}
	return nil
}
