// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"testing"

	"libman/internal/dag"
	"libman/pkg/library"
	"libman/pkg/semver"
)

// testRegistry builds a registry with a spread of installed versions.
func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	installed := []struct {
		name    string
		version string
	}{
		{"guice", "7.0.0"},
		{"guice", "7.0.1"},
		{"guice", "7.2.0"},
		{"guava", "32.0.0"},
		{"guava", "33.0.0"},
		{"guava", "33.1.0"},
		{"slf4j", "2.0.9"},
		{"slf4j", "2.0.13"},
	}
	for _, entry := range installed {
		lib, err := library.New(entry.name, semver.MustParse(entry.version), entry.name+".entry")
		if err != nil {
			t.Fatalf("library.New failed: %v", err)
		}
		if err := reg.Register(lib); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
	}
	return reg
}

func dep(name, rng string) library.Dependency {
	return library.NewDependency(name, semver.MustParseRange(rng), true)
}

func optionalDep(name, rng string) library.Dependency {
	return library.NewDependency(name, semver.MustParseRange(rng), false)
}

func TestResolveSelectsHighestInIntersection(t *testing.T) {
	r := New(testRegistry(t))

	result := r.Resolve([]library.Dependency{
		dep("guice", "[7.0.0,8.0.0)"),
		dep("guice", "[7.0.1,7.2.0)"),
	})

	if !result.OK() {
		t.Fatalf("expected success, got %v", result.Describe())
	}
	if len(result.Resolved) != 1 {
		t.Fatalf("Resolved length = %d, want 1", len(result.Resolved))
	}
	if got := result.Resolved[0].String(); got != "guice@7.0.1" {
		t.Errorf("selected %s, want guice@7.0.1", got)
	}
}

func TestResolveAllReportsConflictsPerRequester(t *testing.T) {
	r := New(testRegistry(t))

	result := r.ResolveAll(map[string][]library.Dependency{
		"plugin-a": {dep("guice", "[7.0.0,7.1.0)"), dep("slf4j", "[2.0.0,3.0.0)")},
		"plugin-b": {dep("guice", "[7.2.0,8.0.0)")},
	})

	if result.OK() {
		t.Fatal("expected a conflict for guice")
	}

	conflict, ok := result.Conflicts["guice"]
	if !ok {
		t.Fatalf("no conflict recorded for guice: %+v", result.Conflicts)
	}
	requesters := make(map[string]bool)
	for _, rr := range conflict.Ranges {
		requesters[rr.Requester] = true
	}
	if !requesters["plugin-a"] || !requesters["plugin-b"] {
		t.Errorf("conflict should list both requesters, got %+v", conflict.Ranges)
	}
	if conflict.Best == nil || conflict.Best.String() != "7.2.0" {
		t.Errorf("Best = %v, want 7.2.0", conflict.Best)
	}

	// The unrelated library still resolves normally.
	if len(result.Resolved) != 1 || result.Resolved[0].Name != "slf4j" {
		t.Errorf("unrelated library should resolve, got %+v", result.Resolved)
	}
}

func TestResolveMissingLibrary(t *testing.T) {
	r := New(testRegistry(t))

	result := r.Resolve([]library.Dependency{dep("nonexistent", "[1.0.0,)")})
	if result.OK() {
		t.Fatal("expected failure for missing library")
	}
	if len(result.Missing) != 1 || result.Missing[0].Name != "nonexistent" {
		t.Errorf("Missing = %+v, want nonexistent", result.Missing)
	}
}

func TestResolveOptionalNeverFails(t *testing.T) {
	r := New(testRegistry(t))

	result := r.Resolve([]library.Dependency{
		dep("slf4j", "[2.0.0,3.0.0)"),
		optionalDep("nonexistent", "[1.0.0,)"),
		optionalDep("guava", "[99.0.0,)"),
	})

	if !result.OK() {
		t.Fatalf("optional misses must not fail the pass: %v", result.Describe())
	}
	if len(result.OptionalMissing) != 2 {
		t.Errorf("OptionalMissing length = %d, want 2", len(result.OptionalMissing))
	}
	if err := r.Validate([]library.Dependency{optionalDep("nonexistent", "[1.0.0,)")}); err != nil {
		t.Errorf("Validate must ignore optional misses, got %v", err)
	}
}

func TestResolveDeterminism(t *testing.T) {
	r := New(testRegistry(t))
	input := map[string][]library.Dependency{
		"zeta":  {dep("guava", "[33.0.0,34.0.0)"), dep("slf4j", "[2.0.0,3.0.0)")},
		"alpha": {dep("guice", "[7.0.0,8.0.0)"), dep("guava", "[32.0.0,34.0.0)")},
	}

	first := r.ResolveAll(input)
	if !first.OK() {
		t.Fatalf("expected success, got %v", first.Describe())
	}

	for range 20 {
		again := r.ResolveAll(input)
		if len(again.Resolved) != len(first.Resolved) {
			t.Fatal("resolved set size changed between runs")
		}
		for i := range first.Resolved {
			if first.Resolved[i].String() != again.Resolved[i].String() {
				t.Fatalf("selection order drifted: %v vs %v", first.Resolved, again.Resolved)
			}
		}
		for i := range first.LoadOrder {
			if first.LoadOrder[i].Name != again.LoadOrder[i].Name {
				t.Fatalf("load order drifted: %v vs %v", first.LoadOrder, again.LoadOrder)
			}
		}
	}
}

func TestFindBestMatch(t *testing.T) {
	r := New(testRegistry(t))

	lib, ok := r.FindBestMatch("guava",
		semver.MustParseRange("[32.0.0,34.0.0)"),
		semver.MustParseRange("[33.0.0,33.1.0)"))
	if !ok {
		t.Fatal("FindBestMatch found nothing")
	}
	if lib.String() != "guava@33.0.0" {
		t.Errorf("best match = %s, want guava@33.0.0", lib)
	}

	if _, ok := r.FindBestMatch("guava",
		semver.MustParseRange("[1.0.0,2.0.0)"),
		semver.MustParseRange("[3.0.0,4.0.0)")); ok {
		t.Error("empty intersection must find nothing")
	}
}

func TestStrictFailsWholesale(t *testing.T) {
	r := New(testRegistry(t), WithStrategy(Strict))

	result := r.ResolveAll(map[string][]library.Dependency{
		"plugin-a": {dep("guice", "[7.0.0,7.1.0)"), dep("slf4j", "[2.0.0,3.0.0)")},
		"plugin-b": {dep("guice", "[7.2.0,8.0.0)")},
	})

	if result.OK() {
		t.Fatal("strict must fail on any conflict")
	}
	if len(result.Resolved) != 0 {
		t.Errorf("strict failure must resolve nothing, got %+v", result.Resolved)
	}
}

func TestFirstDeclaredStrategy(t *testing.T) {
	r := New(testRegistry(t), WithStrategy(FirstDeclared))

	// Compatible later range: pick follows the first declaration.
	result := r.Resolve([]library.Dependency{
		dep("guava", "[32.0.0,33.0.0]"),
		dep("guava", "[33.0.0,34.0.0)"),
	})
	if !result.OK() {
		t.Fatalf("expected success, got %v", result.Describe())
	}
	if got := result.Resolved[0].String(); got != "guava@33.0.0" {
		t.Errorf("selected %s, want guava@33.0.0", got)
	}

	// A later range excluding the first pick is a conflict.
	result = r.Resolve([]library.Dependency{
		dep("guava", "[32.0.0,33.0.0)"),
		dep("guava", "[33.0.0,34.0.0)"),
	})
	if result.OK() {
		t.Fatal("expected conflict when later range excludes first pick")
	}
}

func TestFrameworkProvidedStrategy(t *testing.T) {
	reg := testRegistry(t)
	r := New(reg,
		WithStrategy(FrameworkProvided),
		WithProvided(map[string]semver.Version{
			"slf4j":     semver.MustParse("2.0.13"),
			"host-only": semver.MustParse("1.4.0"),
		}))

	// Pinned version inside the declared range: host wins even though the
	// range would admit other versions.
	result := r.Resolve([]library.Dependency{dep("slf4j", "[2.0.0,3.0.0)")})
	if !result.OK() {
		t.Fatalf("expected success, got %v", result.Describe())
	}
	if got := result.Resolved[0].Version.String(); got != "2.0.13" {
		t.Errorf("selected %s, want host pin 2.0.13", got)
	}

	// A library the host supplies but the registry lacks still resolves.
	result = r.Resolve([]library.Dependency{dep("host-only", "[1.0.0,2.0.0)")})
	if !result.OK() {
		t.Fatalf("host-provided library should resolve: %v", result.Describe())
	}

	// Pin outside the declared range: compatibility check fails.
	result = r.Resolve([]library.Dependency{dep("slf4j", "[3.0.0,4.0.0)")})
	if result.OK() {
		t.Fatal("expected conflict for incompatible host pin")
	}

	// Libraries the host does not supply fall back to normal selection.
	result = r.Resolve([]library.Dependency{dep("guava", "[33.0.0,34.0.0)")})
	if !result.OK() || result.Resolved[0].Version.String() != "33.1.0" {
		t.Errorf("fallback selection failed: %+v", result.Resolved)
	}
}

func TestValidateErrors(t *testing.T) {
	r := New(testRegistry(t))

	// Absent library: LibraryNotFoundError with suggestions.
	err := r.Validate([]library.Dependency{dep("guaba", "[1.0.0,)")})
	var notFound *LibraryNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want LibraryNotFoundError", err)
	}
	foundSuggestion := false
	for _, s := range notFound.Suggestions {
		if s == "guava" {
			foundSuggestion = true
		}
	}
	if !foundSuggestion {
		t.Errorf("Suggestions = %v, want to include guava", notFound.Suggestions)
	}

	// Present but incompatible: VersionConflictError with the best
	// available version.
	err = r.Validate([]library.Dependency{dep("guava", "[99.0.0,)")})
	var conflict *VersionConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("error = %v, want VersionConflictError", err)
	}
	if conflict.Available == nil || conflict.Available.String() != "33.1.0" {
		t.Errorf("Available = %v, want 33.1.0", conflict.Available)
	}

	// Clean sets validate silently.
	if err := r.Validate([]library.Dependency{dep("slf4j", "[2.0.0,3.0.0)")}); err != nil {
		t.Errorf("Validate of a clean set failed: %v", err)
	}
}

func TestComputeLoadOrder(t *testing.T) {
	mk := func(name string, requires ...library.Dependency) library.Library {
		lib, err := library.New(name, semver.MustParse("1.0.0"), name+".entry")
		if err != nil {
			t.Fatalf("library.New failed: %v", err)
		}
		lib.Requires = requires
		return lib
	}

	core := mk("core")
	net := mk("net", core.AsCompatibleDependency())
	http := mk("http", net.AsCompatibleDependency(), core.AsCompatibleDependency())

	order, err := ComputeLoadOrder([]library.Library{http, net, core})
	if err != nil {
		t.Fatalf("ComputeLoadOrder failed: %v", err)
	}

	pos := make(map[string]int)
	for i, lib := range order {
		pos[lib.Name] = i
	}
	if pos["core"] > pos["net"] || pos["net"] > pos["http"] {
		t.Errorf("order violates dependencies: %v", order)
	}
}

func TestComputeLoadOrderCycle(t *testing.T) {
	mk := func(name string, requires ...library.Dependency) library.Library {
		lib, err := library.New(name, semver.MustParse("1.0.0"), name+".entry")
		if err != nil {
			t.Fatalf("library.New failed: %v", err)
		}
		lib.Requires = requires
		return lib
	}

	a := mk("a", library.NewDependency("b", semver.Unbounded(), true))
	b := mk("b", library.NewDependency("a", semver.Unbounded(), true))

	order, err := ComputeLoadOrder([]library.Library{a, b})
	if err == nil {
		t.Fatalf("ComputeLoadOrder = %v, want CycleError", order)
	}
	var cycleErr *dag.CycleError
	if !errors.As(err, &cycleErr) {
		t.Errorf("error type = %T, want *dag.CycleError", err)
	}
	if order != nil {
		t.Error("no partial load order may accompany a cycle")
	}
}

func TestResolveCaseInsensitiveNames(t *testing.T) {
	r := New(testRegistry(t))
	result := r.Resolve([]library.Dependency{
		library.NewDependency("GUICE", semver.MustParseRange("[7.0.0,8.0.0)"), true),
	})
	if !result.OK() {
		t.Fatalf("case-insensitive lookup failed: %v", result.Describe())
	}
	if result.Resolved[0].Name != "guice" {
		t.Errorf("Name = %q, want canonical %q", result.Resolved[0].Name, "guice")
	}
}
