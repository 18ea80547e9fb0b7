// SPDX-License-Identifier: MPL-2.0

package isolate

import (
	"fmt"
	"slices"
	"strings"
)

// defaultExclusions are the namespace prefixes every Config delegates to
// its parent scope regardless of isolation mode. Isolating the runtime's
// own core namespaces (or this framework's) would let a library shadow
// the machinery that loaded it.
var defaultExclusions = []string{
	"runtime.",
	"syscall.",
	"unsafe.",
	"libman.",
}

type (
	// Scope is anything a Unit can delegate lookups to, typically an
	// enclosing Unit or the host process itself.
	Scope interface {
		ResolveSymbol(name string) (Symbol, error)
		ResolveResource(name string) ([]Resource, error)
	}

	// Config is the loading policy for a single library. Build one with
	// NewConfig; the zero value is not valid.
	Config struct {
		LibraryName   string
		ArtifactPaths []string
		Parent        Scope
		Isolated      bool

		extra           []string
		clearedDefaults bool
	}

	// ConfigOption adjusts a Config during construction.
	ConfigOption func(*Config)

	// ConfigError reports an invalid Config field. It is returned from
	// NewConfig, before any loading is attempted.
	ConfigError struct {
		Field  string
		Reason string
	}
)

func (e *ConfigError) Error() string {
	return fmt.Sprintf("isolation config: %s: %s", e.Field, e.Reason)
}

// WithParent sets the scope lookups delegate to.
func WithParent(parent Scope) ConfigOption {
	return func(c *Config) { c.Parent = parent }
}

// Isolated switches the config to child-first resolution: local
// artifacts are searched before the parent scope.
func Isolated() ConfigOption {
	return func(c *Config) { c.Isolated = true }
}

// WithExclusions adds namespace prefixes that always resolve through the
// parent scope, on top of the defaults.
func WithExclusions(prefixes ...string) ConfigOption {
	return func(c *Config) { c.extra = append(c.extra, prefixes...) }
}

// NewConfig validates and builds a loading policy for libraryName backed
// by the given artifact locations. Artifact paths are opaque handles
// here; the Unit's Source gives them meaning.
func NewConfig(libraryName string, artifactPaths []string, opts ...ConfigOption) (*Config, error) {
	name := strings.TrimSpace(libraryName)
	if name == "" {
		return nil, &ConfigError{Field: "libraryName", Reason: "must not be empty"}
	}
	if len(artifactPaths) == 0 {
		return nil, &ConfigError{Field: "artifactPaths", Reason: "at least one artifact location is required"}
	}
	for _, p := range artifactPaths {
		if strings.TrimSpace(p) == "" {
			return nil, &ConfigError{Field: "artifactPaths", Reason: "artifact locations must not be empty"}
		}
	}

	cfg := &Config{
		LibraryName:   strings.ToLower(name),
		ArtifactPaths: slices.Clone(artifactPaths),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg, nil
}

// AddExclusions appends further excluded namespace prefixes.
func (c *Config) AddExclusions(prefixes ...string) {
	c.extra = append(c.extra, prefixes...)
}

// ClearDefaultExclusions drops the built-in excluded namespaces,
// keeping only prefixes added by the caller. This is the only way to
// remove a default exclusion.
func (c *Config) ClearDefaultExclusions() {
	c.clearedDefaults = true
}

// ExcludedNamespaces returns the effective exclusion set: the defaults
// (unless explicitly cleared) followed by caller-added prefixes.
func (c *Config) ExcludedNamespaces() []string {
	var out []string
	if !c.clearedDefaults {
		out = slices.Clone(defaultExclusions)
	}
	return append(out, c.extra...)
}

func (c *Config) excludes(name string) bool {
	for _, prefix := range c.ExcludedNamespaces() {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
