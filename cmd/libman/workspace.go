// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"libman/internal/discovery"
	"libman/pkg/library"
	"libman/pkg/resolve"
	"libman/pkg/semver"
)

// workspaceRegistry discovers every manifest visible from the current
// configuration and seeds a registry with the ones that parse.
func workspaceRegistry() (*resolve.Registry, *discovery.RegistryResult) {
	reg := resolve.NewRegistry()
	result := discovery.New(appConfig).SeedRegistry(reg)
	return reg, result
}

// workspaceDependencies groups the declared dependencies of every parsed
// manifest by requester, the input shape ResolveAll expects.
func workspaceDependencies(result *discovery.RegistryResult) (map[string][]library.Dependency, error) {
	byRequester := make(map[string][]library.Dependency)
	for _, m := range result.Manifests {
		if m.Manifest == nil || m.Error != nil {
			continue
		}
		deps, err := m.Manifest.Dependencies()
		if err != nil {
			return nil, err
		}
		if len(deps) == 0 {
			continue
		}
		byRequester[m.Library.Name] = append(byRequester[m.Library.Name], deps...)
	}
	return byRequester, nil
}

// requestersOf inverts the requester map into name -> sorted requesters,
// the shape the lock file records.
func requestersOf(byRequester map[string][]library.Dependency) map[string][]string {
	out := make(map[string][]string)
	for requester, deps := range byRequester {
		for _, d := range deps {
			out[d.Name] = append(out[d.Name], requester)
		}
	}
	for name := range out {
		sort.Strings(out[name])
	}
	return out
}

// printDiagnostics renders scan diagnostics to w, warnings and errors alike.
func printDiagnostics(w io.Writer, diags []discovery.Diagnostic) {
	for _, d := range diags {
		style, label := WarningStyle, "Warning: "
		if d.Severity == discovery.SeverityError {
			style, label = ErrorStyle, "Error: "
		}
		msg := d.Message
		if d.Path != "" {
			msg += " (" + d.Path + ")"
		}
		fmt.Fprintln(w, style.Render(label)+msg)
	}
}

// strategyFor picks the resolution strategy: the --strategy flag when set,
// the configured default otherwise.
func strategyFor(flagValue string) (resolve.Strategy, error) {
	if flagValue != "" {
		s, ok := resolve.ParseStrategy(flagValue)
		if !ok {
			return 0, fmt.Errorf("unknown strategy %q (valid: highest-version, first-declared, strict, framework-provided)", flagValue)
		}
		return s, nil
	}
	return appConfig.DefaultStrategy.Strategy()
}

// parseProvided parses repeated name=version flags into the host-provided
// version map used by the framework-provided strategy.
func parseProvided(pairs []string) (map[string]semver.Version, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	provided := make(map[string]semver.Version, len(pairs))
	for _, p := range pairs {
		name, ver, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --provided value %q: expected name=version", p)
		}
		v, err := semver.Parse(ver)
		if err != nil {
			return nil, fmt.Errorf("invalid --provided version for %s: %w", name, err)
		}
		provided[library.CanonicalName(name)] = v
	}
	return provided, nil
}
