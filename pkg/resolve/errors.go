// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"
	"sort"
	"strings"

	"libman/pkg/semver"
)

type (
	// VersionConflictError reports that a required dependency's ranges
	// cannot be satisfied by any installed version. It carries enough
	// structure to render an actionable diagnostic without re-querying
	// resolver state.
	VersionConflictError struct {
		// Name is the conflicted library.
		Name string
		// Available is the best installed version, or nil when the ranges
		// are mutually incompatible and no candidate was even considered.
		Available *semver.Version
		// Ranges holds each requester's declared range.
		Ranges []RequesterRange
	}

	// LibraryNotFoundError reports that a named library is entirely absent
	// from the installed set.
	LibraryNotFoundError struct {
		// Name is the missing library.
		Name string
		// Suggestions lists near-name matches from the registry, if any.
		Suggestions []string
	}

	// RequesterRange pairs a requester identifier with the range it
	// declared for a library.
	RequesterRange struct {
		Requester string
		Range     semver.Range
		Required  bool
	}
)

func (e *VersionConflictError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "version conflict for library %q: ", e.Name)
	if e.Available != nil {
		fmt.Fprintf(&sb, "best available is %s, ", e.Available)
	} else {
		sb.WriteString("no installed version, ")
	}
	sb.WriteString("required by ")
	sb.WriteString(describeRanges(e.Ranges))
	return sb.String()
}

func (e *LibraryNotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("library %q is not installed", e.Name)
	}
	return fmt.Sprintf("library %q is not installed (did you mean: %s?)",
		e.Name, strings.Join(e.Suggestions, ", "))
}

func describeRanges(ranges []RequesterRange) string {
	parts := make([]string, 0, len(ranges))
	for _, rr := range ranges {
		if rr.Requester != "" {
			parts = append(parts, fmt.Sprintf("%s (%s)", rr.Requester, rr.Range))
		} else {
			parts = append(parts, rr.Range.String())
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
