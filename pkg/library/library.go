// SPDX-License-Identifier: MPL-2.0

package library

import (
	"fmt"
	"strings"

	"libman/pkg/semver"
)

type (
	// Library is a resolved, named artifact: the outcome of picking one
	// concrete version for a library name. Libraries are immutable once
	// constructed.
	Library struct {
		// Name is the library identity. Names are case-insensitive and
		// canonicalized to lower case on construction.
		Name string

		// Version is the concrete selected version.
		Version semver.Version

		// EntryPoint identifies the artifact's entry point (opaque to the
		// resolver; the loading unit hands it to the artifact source).
		EntryPoint string

		// Requires lists this library's own dependencies on other
		// libraries, used to compute the load order.
		Requires []Dependency
	}

	// Dependency is a requester's declared need: a library name, an
	// acceptable version range, and whether the requester can run without
	// it. Dependencies are immutable; they are replaced, never mutated.
	Dependency struct {
		// Name is the required library's canonical (lower-case) name.
		Name string

		// Range constrains the acceptable versions.
		Range semver.Range

		// Required is false for optional dependencies, which never fail
		// validation when unresolvable.
		Required bool
	}
)

// New constructs a Library, canonicalizing the name. Name and entry point
// must be non-empty.
func New(name string, version semver.Version, entryPoint string) (Library, error) {
	canonical := CanonicalName(name)
	if canonical == "" {
		return Library{}, fmt.Errorf("library name must be non-empty")
	}
	if strings.TrimSpace(entryPoint) == "" {
		return Library{}, fmt.Errorf("library %q: entry point must be non-empty", canonical)
	}
	return Library{Name: canonical, Version: version, EntryPoint: entryPoint}, nil
}

// CanonicalName normalizes a library name for identity comparison.
func CanonicalName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// String renders "name@version".
func (l Library) String() string {
	return l.Name + "@" + l.Version.String()
}

// AsExactDependency pins a dependency to exactly this library's version.
func (l Library) AsExactDependency() Dependency {
	return Dependency{Name: l.Name, Range: semver.Exact(l.Version), Required: true}
}

// AsCompatibleDependency returns a dependency on this library's compatible
// range: the half-open interval from this version up to the next major.
func (l Library) AsCompatibleDependency() Dependency {
	return Dependency{
		Name:     l.Name,
		Range:    semver.Between(l.Version, l.Version.NextMajor()),
		Required: true,
	}
}

// NewDependency constructs a Dependency with a canonicalized name.
func NewDependency(name string, r semver.Range, required bool) Dependency {
	return Dependency{Name: CanonicalName(name), Range: r, Required: required}
}

// String renders "name range" with an optional marker for diagnostics.
func (d Dependency) String() string {
	s := d.Name + " " + d.Range.String()
	if !d.Required {
		s += " (optional)"
	}
	return s
}
