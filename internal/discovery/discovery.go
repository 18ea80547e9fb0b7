// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"libman/internal/config"
	"libman/pkg/library"
	"libman/pkg/resolve"
)

const (
	// SourceCurrentDir indicates the manifest was found in the current directory.
	SourceCurrentDir Source = iota
	// SourceUserDir indicates the manifest was found under ~/.libman/libraries.
	SourceUserDir
	// SourceConfigPath indicates the manifest was found in a configured search path.
	SourceConfigPath
)

type (
	// Source represents where a manifest was found.
	Source int

	// DiscoveredManifest represents a found libman.cue with its source.
	DiscoveredManifest struct {
		// Path is the absolute path to the manifest.
		Path string
		// Source indicates where the manifest was found.
		Source Source
		// Manifest is the parsed content (nil when parsing failed).
		Manifest *library.Manifest
		// Library is the resolved library value (zero when parsing failed).
		Library library.Library
		// Error contains any error that occurred during parsing or registration.
		Error error
	}

	// Discovery finds library manifests across the configured sources.
	Discovery struct {
		cfg *config.Config
	}
)

// String returns a human-readable source name.
func (s Source) String() string {
	switch s {
	case SourceCurrentDir:
		return "current directory"
	case SourceUserDir:
		return "user libraries (~/.libman/libraries)"
	case SourceConfigPath:
		return "configured search path"
	default:
		return "unknown"
	}
}

// New creates a new Discovery instance.
func New(cfg *config.Config) *Discovery {
	return &Discovery{cfg: cfg}
}

// DiscoverAll finds all manifests from all sources in order of precedence:
// current directory, user libraries directory, then configured search paths.
func (d *Discovery) DiscoverAll() []*DiscoveredManifest {
	var found []*DiscoveredManifest

	// 1. Current directory (highest precedence)
	if m := d.discoverInDir(".", SourceCurrentDir); m != nil {
		found = append(found, m)
	}

	// 2. User libraries directory (~/.libman/libraries)
	if userDir, err := config.LibrariesDir(); err == nil {
		found = append(found, d.discoverInDirRecursive(userDir, SourceUserDir)...)
	}

	// 3. Configured search paths
	if d.cfg != nil {
		for _, searchPath := range d.cfg.SearchPaths {
			found = append(found, d.discoverInDirRecursive(string(searchPath), SourceConfigPath)...)
		}
	}

	return found
}

// discoverInDir looks for a manifest directly inside a directory.
func (d *Discovery) discoverInDir(dir string, source Source) *DiscoveredManifest {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil
	}

	path := filepath.Join(absDir, library.ManifestFileName)
	if _, err := os.Stat(path); err == nil {
		return &DiscoveredManifest{Path: path, Source: source}
	}
	return nil
}

// discoverInDirRecursive finds all manifests in a directory tree.
func (d *Discovery) discoverInDirRecursive(dir string, source Source) []*DiscoveredManifest {
	var found []*DiscoveredManifest

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return found
	}
	if _, err := os.Stat(absDir); os.IsNotExist(err) {
		return found
	}

	walkErr := filepath.WalkDir(absDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if entry.IsDir() {
			return nil
		}
		if entry.Name() == library.ManifestFileName {
			found = append(found, &DiscoveredManifest{Path: path, Source: source})
		}
		return nil
	})
	if walkErr != nil {
		slog.Debug("manifest walk aborted", "dir", absDir, "error", walkErr)
	}

	return found
}

// LoadAll parses every discovered manifest. Parse failures are recorded on
// the entry instead of aborting the scan.
func (d *Discovery) LoadAll() []*DiscoveredManifest {
	found := d.DiscoverAll()

	for _, m := range found {
		manifest, err := library.ParseManifest(m.Path)
		if err != nil {
			m.Error = err
			continue
		}
		m.Manifest = manifest

		lib, err := manifest.Library()
		if err != nil {
			m.Error = err
			continue
		}
		m.Library = lib
	}

	return found
}

// SeedRegistry scans, parses, and registers every valid manifest into reg.
// Manifests that fail to parse or collide with an already registered
// name@version become diagnostics; the scan itself always completes.
func (d *Discovery) SeedRegistry(reg *resolve.Registry) *RegistryResult {
	result := &RegistryResult{Manifests: d.LoadAll()}

	for _, m := range result.Manifests {
		if m.Error != nil {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Severity: SeverityError,
				Code:     "manifest_parse_skipped",
				Message:  fmt.Sprintf("skipping %s: %s", m.Path, m.Error),
				Path:     m.Path,
				Cause:    m.Error,
			})
			continue
		}

		if err := reg.Register(m.Library); err != nil {
			m.Error = err
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     "duplicate_library_version",
				Message:  fmt.Sprintf("skipping %s: %s", m.Path, err),
				Path:     m.Path,
				Cause:    err,
			})
			continue
		}

		slog.Debug("registered library",
			"name", m.Library.Name,
			"version", m.Library.Version,
			"source", m.Source,
		)
	}

	return result
}

// FindManifest returns the manifest for a library name, preferring the
// highest precedence source. The name comparison is case-insensitive.
func (d *Discovery) FindManifest(name string) (*DiscoveredManifest, error) {
	canonical := library.CanonicalName(name)
	for _, m := range d.LoadAll() {
		if m.Error != nil {
			continue
		}
		if m.Library.Name == canonical {
			return m, nil
		}
	}
	return nil, fmt.Errorf("library %q not found in any search path", name)
}
