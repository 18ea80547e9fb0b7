// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"libman/pkg/library"
	"libman/pkg/semver"
)

// Strategy selects how the resolver picks a concrete version per library in
// one resolution pass. Switching strategy never retroactively affects
// already-produced results.
type Strategy int

const (
	// HighestVersion picks the highest installed version inside the
	// intersection of all declared ranges. The default.
	HighestVersion Strategy = iota

	// FirstDeclared picks the best match for the first declared range and
	// records a conflict when later requesters' ranges exclude that pick.
	FirstDeclared

	// Strict behaves like HighestVersion but fails the entire pass on any
	// conflict instead of resolving what it can.
	Strict

	// FrameworkProvided pins every library to the version the hosting
	// environment already supplies, ignoring requester ranges except for a
	// compatibility check.
	FrameworkProvided
)

// String returns the strategy's configuration name.
func (s Strategy) String() string {
	switch s {
	case HighestVersion:
		return "highest-version"
	case FirstDeclared:
		return "first-declared"
	case Strict:
		return "strict"
	case FrameworkProvided:
		return "framework-provided"
	default:
		return "unknown"
	}
}

// ParseStrategy maps a configuration name to a Strategy.
func ParseStrategy(name string) (Strategy, bool) {
	switch name {
	case "highest-version", "":
		return HighestVersion, true
	case "first-declared":
		return FirstDeclared, true
	case "strict":
		return Strict, true
	case "framework-provided":
		return FrameworkProvided, true
	default:
		return HighestVersion, false
	}
}

// selectionFunc decides the concrete version for one library name given the
// requesters' declared ranges. It returns either a selected library or a
// Conflict describing why no selection was possible. Each strategy variant
// carries its own selection behavior; the table below replaces what would
// otherwise be per-strategy virtual dispatch.
type selectionFunc func(r *Resolver, name string, declared []RequesterRange) (library.Library, *Conflict)

var selectionFuncs = map[Strategy]selectionFunc{
	HighestVersion:    selectHighest,
	FirstDeclared:     selectFirstDeclared,
	Strict:            selectHighest,
	FrameworkProvided: selectFrameworkProvided,
}

func selectHighest(r *Resolver, name string, declared []RequesterRange) (library.Library, *Conflict) {
	intersection, ok := semver.Intersect(rangesOf(declared)...)
	if !ok {
		return library.Library{}, newConflict(r.registry, name, declared)
	}

	best, found := r.registry.bestIn(name, intersection)
	if !found {
		return library.Library{}, newConflict(r.registry, name, declared)
	}
	return best, nil
}

func selectFirstDeclared(r *Resolver, name string, declared []RequesterRange) (library.Library, *Conflict) {
	first := declared[0]
	best, found := r.registry.bestIn(name, first.Range)
	if !found {
		return library.Library{}, newConflict(r.registry, name, declared)
	}

	// Later declarations do not influence the pick, but a pick they cannot
	// accept is still a conflict.
	for _, rr := range declared[1:] {
		if !rr.Range.Contains(best.Version) {
			conflict := newConflict(r.registry, name, declared)
			conflict.Best = &best.Version
			return library.Library{}, conflict
		}
	}
	return best, nil
}

func selectFrameworkProvided(r *Resolver, name string, declared []RequesterRange) (library.Library, *Conflict) {
	pinned, ok := r.provided[name]
	if !ok {
		// The host supplies nothing for this library; fall back to normal
		// selection so plugins can still bring their own.
		return selectHighest(r, name, declared)
	}

	for _, rr := range declared {
		if !rr.Range.Contains(pinned) {
			conflict := newConflict(r.registry, name, declared)
			conflict.Best = &pinned
			return library.Library{}, conflict
		}
	}

	if lib, found := r.registry.Get(name, pinned); found {
		return lib, nil
	}
	// The pinned version may not be registered as an artifact; synthesize a
	// host-provided entry so downstream loading can treat it as shared.
	return library.Library{Name: name, Version: pinned, EntryPoint: "host"}, nil
}

func rangesOf(declared []RequesterRange) []semver.Range {
	ranges := make([]semver.Range, len(declared))
	for i, rr := range declared {
		ranges[i] = rr.Range
	}
	return ranges
}

func newConflict(reg *Registry, name string, declared []RequesterRange) *Conflict {
	c := &Conflict{Name: name, Ranges: declared}
	if best, ok := reg.highest(name); ok {
		c.Best = &best
	}
	return c
}
