// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"libman/pkg/library"
	"libman/pkg/semver"
)

// Registry is the installed-library table: every concrete library version
// the host knows about, keyed by canonical name. It follows a reader-writer
// discipline: registration and removal are mutually exclusive with reads,
// reads among themselves are unrestricted. The intended lifecycle is
// initialize-once-then-read-mostly.
type Registry struct {
	mu   sync.RWMutex
	libs map[string][]library.Library
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{libs: make(map[string][]library.Library)}
}

// Register adds a library version to the registry. Returns an error if that
// exact name and version is already registered.
func (r *Registry) Register(lib library.Library) error {
	name := library.CanonicalName(lib.Name)
	if name == "" {
		return fmt.Errorf("cannot register a library without a name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.libs[name] {
		if existing.Version.Equal(lib.Version) {
			return fmt.Errorf("library %s@%s already registered", name, lib.Version)
		}
	}
	r.libs[name] = append(r.libs[name], lib)
	return nil
}

// Unregister removes one library version. Returns an error if it is absent.
func (r *Registry) Unregister(name string, version semver.Version) error {
	name = library.CanonicalName(name)

	r.mu.Lock()
	defer r.mu.Unlock()
	versions := r.libs[name]
	for i, existing := range versions {
		if existing.Version.Equal(version) {
			r.libs[name] = append(versions[:i:i], versions[i+1:]...)
			if len(r.libs[name]) == 0 {
				delete(r.libs, name)
			}
			return nil
		}
	}
	return fmt.Errorf("library %s@%s not registered", name, version)
}

// Get returns the registered library with the given name and version.
func (r *Registry) Get(name string, version semver.Version) (library.Library, bool) {
	name = library.CanonicalName(name)

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, lib := range r.libs[name] {
		if lib.Version.Equal(version) {
			return lib, true
		}
	}
	return library.Library{}, false
}

// IsRegistered reports whether any version of the named library exists.
func (r *Registry) IsRegistered(name string) bool {
	name = library.CanonicalName(name)

	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.libs[name]) > 0
}

// Versions returns all registered versions of a library, sorted ascending.
func (r *Registry) Versions(name string) []semver.Version {
	name = library.CanonicalName(name)

	r.mu.RLock()
	defer r.mu.RUnlock()
	versions := make([]semver.Version, 0, len(r.libs[name]))
	for _, lib := range r.libs[name] {
		versions = append(versions, lib.Version)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].Compare(versions[j]) < 0 })
	return versions
}

// All returns every registered library, sorted by name then version, so
// repeated calls over the same contents yield identical output.
func (r *Registry) All() []library.Library {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []library.Library
	for _, versions := range r.libs {
		all = append(all, versions...)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].Version.Compare(all[j].Version) < 0
	})
	return all
}

// Suggest returns registered names resembling the given one, for "did you
// mean" diagnostics on a failed lookup: names sharing a prefix with the
// query or containing it as a substring (and vice versa), sorted.
func (r *Registry) Suggest(name string) []string {
	query := library.CanonicalName(name)
	if query == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	var matches []string
	for candidate := range r.libs {
		if candidate == query {
			continue
		}
		if strings.Contains(candidate, query) || strings.Contains(query, candidate) ||
			sharedPrefix(candidate, query) >= 3 {
			matches = append(matches, candidate)
		}
	}
	sort.Strings(matches)
	return matches
}

func sharedPrefix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// highest returns the highest registered version of a library, if any.
func (r *Registry) highest(name string) (semver.Version, bool) {
	versions := r.Versions(name)
	if len(versions) == 0 {
		return semver.Version{}, false
	}
	return versions[len(versions)-1], true
}

// bestIn returns the registered library with the highest version contained
// in the range. Equal versions are interchangeable, so a tie may return
// either entry.
func (r *Registry) bestIn(name string, rng semver.Range) (library.Library, bool) {
	name = library.CanonicalName(name)

	r.mu.RLock()
	defer r.mu.RUnlock()
	var best library.Library
	found := false
	for _, lib := range r.libs[name] {
		if !rng.Contains(lib.Version) {
			continue
		}
		if !found || lib.Version.Compare(best.Version) > 0 {
			best = lib
			found = true
		}
	}
	return best, found
}
