// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"sort"

	"libman/internal/dag"
	"libman/pkg/library"
	"libman/pkg/semver"
)

type (
	// Resolver reconciles dependency declarations from many requesters
	// against an installed-library registry. It is stateless apart from the
	// registry reference and its configured strategy, so one Resolver may
	// serve concurrent resolution passes.
	Resolver struct {
		registry *Registry
		strategy Strategy
		provided map[string]semver.Version
	}

	// Option configures a Resolver.
	Option func(*Resolver)

	// declaration is one requester's range for one library, kept in
	// declaration order for deterministic processing.
	declaration struct {
		name      string
		requester string
		rng       semver.Range
		required  bool
	}
)

// WithStrategy sets the selection strategy (default HighestVersion).
func WithStrategy(s Strategy) Option {
	return func(r *Resolver) { r.strategy = s }
}

// WithProvided supplies the host-pinned versions consulted by the
// FrameworkProvided strategy. Keys are canonicalized.
func WithProvided(versions map[string]semver.Version) Option {
	return func(r *Resolver) {
		r.provided = make(map[string]semver.Version, len(versions))
		for name, v := range versions {
			r.provided[library.CanonicalName(name)] = v
		}
	}
}

// New creates a Resolver over the given registry.
func New(registry *Registry, opts ...Option) *Resolver {
	r := &Resolver{registry: registry, strategy: HighestVersion}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Strategy returns the resolver's configured strategy.
func (r *Resolver) Strategy() Strategy {
	return r.strategy
}

// Resolve reconciles a single requester's dependency set. Conflict records
// carry no requester identifiers; use ResolveAll to retain them.
func (r *Resolver) Resolve(deps []library.Dependency) *Result {
	decls := make([]declaration, 0, len(deps))
	for _, dep := range deps {
		decls = append(decls, declaration{
			name:     library.CanonicalName(dep.Name),
			rng:      dep.Range,
			required: dep.Required,
		})
	}
	return r.run(decls)
}

// ResolveAll reconciles dependency sets from several requesters at once.
// Requesters are processed in sorted identifier order so that resolution
// output is identical across repeated invocations; conflict records retain
// the originating requester identifiers for diagnostics.
func (r *Resolver) ResolveAll(byRequester map[string][]library.Dependency) *Result {
	requesters := make([]string, 0, len(byRequester))
	for id := range byRequester {
		requesters = append(requesters, id)
	}
	sort.Strings(requesters)

	var decls []declaration
	for _, id := range requesters {
		for _, dep := range byRequester[id] {
			decls = append(decls, declaration{
				name:      library.CanonicalName(dep.Name),
				requester: id,
				rng:       dep.Range,
				required:  dep.Required,
			})
		}
	}
	return r.run(decls)
}

// run is the resolution state machine: collect declarations, analyze each
// library name, then either produce a load order or report the failure.
func (r *Resolver) run(decls []declaration) *Result {
	result := &Result{
		Strategy:  r.strategy,
		Conflicts: make(map[string]*Conflict),
	}

	// Group by name, preserving first-declaration order of names and
	// declaration order within each name.
	var names []string
	byName := make(map[string][]declaration)
	for _, d := range decls {
		if _, seen := byName[d.name]; !seen {
			names = append(names, d.name)
		}
		byName[d.name] = append(byName[d.name], d)
	}

	for _, name := range names {
		group := byName[name]
		declared := make([]RequesterRange, len(group))
		required := false
		for i, d := range group {
			declared[i] = RequesterRange{Requester: d.requester, Range: d.rng, Required: d.required}
			required = required || d.required
		}

		if !r.registry.IsRegistered(name) && !r.hostProvides(name) {
			dep := library.Dependency{Name: name, Range: mergedRange(declared), Required: required}
			if required {
				result.Missing = append(result.Missing, dep)
			} else {
				result.OptionalMissing = append(result.OptionalMissing, dep)
			}
			continue
		}

		selected, conflict := selectionFuncs[r.strategy](r, name, declared)
		if conflict != nil {
			if required {
				result.Conflicts[name] = conflict
			} else {
				result.OptionalMissing = append(result.OptionalMissing,
					library.Dependency{Name: name, Range: mergedRange(declared)})
			}
			continue
		}
		result.Resolved = append(result.Resolved, selected)
	}

	// Strict fails wholesale: one conflict poisons the pass and nothing
	// resolves, preventing inconsistent partial loads.
	if r.strategy == Strict && (len(result.Conflicts) > 0 || len(result.Missing) > 0) {
		result.Resolved = nil
		return result
	}

	if result.OK() {
		order, err := ComputeLoadOrder(result.Resolved)
		if err != nil {
			var cycleErr *dag.CycleError
			if errors.As(err, &cycleErr) {
				result.Cycle = cycleErr
			}
			result.LoadOrder = nil
			return result
		}
		result.LoadOrder = order
	}

	return result
}

// hostProvides reports whether the FrameworkProvided pin set covers a name.
func (r *Resolver) hostProvides(name string) bool {
	if r.strategy != FrameworkProvided {
		return false
	}
	_, ok := r.provided[name]
	return ok
}

// FindBestMatch intersects the given ranges and returns the highest
// installed version of the named library inside the intersection. The
// second return value is false when the intersection is empty or no
// installed version satisfies it.
func (r *Resolver) FindBestMatch(name string, ranges ...semver.Range) (library.Library, bool) {
	intersection, ok := semver.Intersect(ranges...)
	if !ok {
		return library.Library{}, false
	}
	return r.registry.bestIn(name, intersection)
}

// Validate performs a resolution pass and surfaces its failures as errors:
// a LibraryNotFoundError per absent required library, a
// VersionConflictError per conflicted one, and the CycleError if the
// selected set was cyclic. Optional dependencies never raise. A nil return
// means the dependency set is loadable.
func (r *Resolver) Validate(deps []library.Dependency) error {
	result := r.Resolve(deps)
	if result.OK() {
		return nil
	}

	var errs []error
	for _, dep := range result.Missing {
		errs = append(errs, &LibraryNotFoundError{
			Name:        dep.Name,
			Suggestions: r.registry.Suggest(dep.Name),
		})
	}
	for _, name := range sortedConflictNames(result.Conflicts) {
		errs = append(errs, result.Conflicts[name].Err())
	}
	if result.Cycle != nil {
		errs = append(errs, result.Cycle)
	}
	return errors.Join(errs...)
}

// ComputeLoadOrder topologically sorts libraries so each appears after all
// of its own dependencies. Edges only form between members of the input
// set; dependencies satisfied elsewhere (e.g. by the host) impose no
// ordering. Ties break by input order. A cycle yields a dag.CycleError and
// no partial order.
func ComputeLoadOrder(libs []library.Library) ([]library.Library, error) {
	byName := make(map[string]library.Library, len(libs))
	graph := dag.New()
	for _, lib := range libs {
		graph.AddNode(lib.Name)
		byName[lib.Name] = lib
	}
	for _, lib := range libs {
		for _, dep := range lib.Requires {
			if graph.Has(dep.Name) {
				graph.AddEdge(dep.Name, lib.Name)
			}
		}
	}

	names, err := graph.TopologicalSort()
	if err != nil {
		return nil, err
	}

	ordered := make([]library.Library, 0, len(names))
	for _, name := range names {
		ordered = append(ordered, byName[name])
	}
	return ordered, nil
}

func mergedRange(declared []RequesterRange) semver.Range {
	merged, ok := semver.Intersect(rangesOf(declared)...)
	if !ok {
		return semver.Unbounded()
	}
	return merged
}
