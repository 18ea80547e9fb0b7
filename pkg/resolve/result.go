// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"
	"sort"
	"strings"

	"libman/internal/dag"
	"libman/pkg/library"
	"libman/pkg/semver"
)

type (
	// Conflict records why one library name could not be resolved: every
	// requester's declared range plus the best available version, if the
	// registry holds the library at all.
	Conflict struct {
		// Name is the conflicted library.
		Name string
		// Ranges holds the conflicting declarations in declaration order.
		Ranges []RequesterRange
		// Best is the best available installed version, or nil when the
		// library is entirely absent.
		Best *semver.Version
	}

	// Result is the outcome of one resolution pass. On success it carries
	// the selected libraries and a valid load order; on failure it exposes
	// the unresolved set and a per-name conflict map so callers can render
	// diagnostics without re-querying resolver state.
	Result struct {
		// Strategy is the policy the pass ran under.
		Strategy Strategy

		// Resolved lists the selected libraries in first-declaration order.
		// Names that conflicted are absent; with the Strict strategy any
		// conflict empties this list entirely.
		Resolved []library.Library

		// LoadOrder sequences Resolved so every library appears after its
		// own dependencies. Empty whenever the pass failed.
		LoadOrder []library.Library

		// Missing lists required dependencies whose library is entirely
		// absent from the installed set.
		Missing []library.Dependency

		// OptionalMissing lists optional dependencies that could not be
		// resolved. They never fail a pass.
		OptionalMissing []library.Dependency

		// Conflicts maps library name to its conflict record.
		Conflicts map[string]*Conflict

		// Cycle is set when the selected libraries' dependency graph was
		// cyclic. Fatal: no partial load order is ever returned.
		Cycle *dag.CycleError
	}
)

// OK reports whether the pass produced a usable load order: no conflicts,
// no missing required libraries, and no cycle.
func (r *Result) OK() bool {
	return len(r.Conflicts) == 0 && len(r.Missing) == 0 && r.Cycle == nil
}

// Describe renders one human-readable line per failure, for logs and CLI
// output. An OK result yields nothing.
func (r *Result) Describe() []string {
	var lines []string
	for _, name := range sortedConflictNames(r.Conflicts) {
		lines = append(lines, r.Conflicts[name].describe())
	}
	for _, dep := range r.Missing {
		lines = append(lines, fmt.Sprintf("required library %q is not installed (wanted %s)", dep.Name, dep.Range))
	}
	if r.Cycle != nil {
		lines = append(lines, r.Cycle.Error())
	}
	return lines
}

func (c *Conflict) describe() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "conflict for %q: ", c.Name)
	parts := make([]string, 0, len(c.Ranges))
	for _, rr := range c.Ranges {
		if rr.Requester != "" {
			parts = append(parts, fmt.Sprintf("%s wants %s", rr.Requester, rr.Range))
		} else {
			parts = append(parts, fmt.Sprintf("wanted %s", rr.Range))
		}
	}
	sb.WriteString(strings.Join(parts, "; "))
	if c.Best != nil {
		fmt.Fprintf(&sb, " (best available: %s)", c.Best)
	} else {
		sb.WriteString(" (not installed)")
	}
	return sb.String()
}

// Err converts a conflict record into its error form for Validate.
func (c *Conflict) Err() *VersionConflictError {
	return &VersionConflictError{Name: c.Name, Available: c.Best, Ranges: c.Ranges}
}

func sortedConflictNames(conflicts map[string]*Conflict) []string {
	names := make([]string, 0, len(conflicts))
	for name := range conflicts {
		names = append(names, name)
	}
	// Deterministic output regardless of map iteration order.
	sort.Strings(names)
	return names
}
