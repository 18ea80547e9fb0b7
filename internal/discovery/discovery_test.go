// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"libman/internal/config"
	"libman/internal/testutil"
	"libman/pkg/resolve"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "libman.cue")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const guavaManifest = `
name:       "guava"
version:    "33.1.0"
entrypoint: "lib/guava.so"
`

const slf4jManifest = `
name:       "slf4j"
version:    "2.0.13"
entrypoint: "lib/slf4j.so"

requires: [
	{name: "guava", range: "[33.0.0,34.0.0)"},
]
`

func testConfig(paths ...string) *config.Config {
	cfg := config.DefaultConfig()
	for _, p := range paths {
		cfg.SearchPaths = append(cfg.SearchPaths, config.SearchPath(p))
	}
	return cfg
}

// sandboxHome points ~/.libman at an empty temp dir so the scan sees only
// the test's search paths.
func sandboxHome(t *testing.T) {
	t.Helper()
	t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
}

func TestDiscoverAllFindsNestedManifests(t *testing.T) {
	sandboxHome(t)
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "guava"), guavaManifest)
	writeManifest(t, filepath.Join(root, "nested", "slf4j"), slf4jManifest)

	found := New(testConfig(root)).DiscoverAll()

	var fromConfig int
	for _, m := range found {
		if m.Source == SourceConfigPath {
			fromConfig++
		}
	}
	if fromConfig != 2 {
		t.Errorf("found %d manifests from search paths, want 2", fromConfig)
	}
}

func TestLoadAllRecordsPerFileErrors(t *testing.T) {
	sandboxHome(t)
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "guava"), guavaManifest)
	writeManifest(t, filepath.Join(root, "broken"), `name: "broken" version:`)

	loaded := New(testConfig(root)).LoadAll()

	var ok, failed int
	for _, m := range loaded {
		if m.Source != SourceConfigPath {
			continue
		}
		if m.Error != nil {
			failed++
		} else {
			ok++
			if m.Library.Name != "guava" {
				t.Errorf("loaded library = %s, want guava", m.Library.Name)
			}
		}
	}
	if ok != 1 || failed != 1 {
		t.Errorf("ok=%d failed=%d, want 1/1", ok, failed)
	}
}

func TestSeedRegistry(t *testing.T) {
	sandboxHome(t)
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "guava"), guavaManifest)
	writeManifest(t, filepath.Join(root, "slf4j"), slf4jManifest)
	writeManifest(t, filepath.Join(root, "broken"), `not cue at all {{{`)

	reg := resolve.NewRegistry()
	result := New(testConfig(root)).SeedRegistry(reg)

	if !reg.IsRegistered("guava") || !reg.IsRegistered("slf4j") {
		t.Error("valid manifests should be registered")
	}
	if result.Errors() != 1 {
		t.Errorf("Errors() = %d, want 1 for the broken manifest", result.Errors())
	}
}

func TestSeedRegistryDuplicateVersionIsWarning(t *testing.T) {
	sandboxHome(t)
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "a", "guava"), guavaManifest)
	writeManifest(t, filepath.Join(root, "b", "guava"), guavaManifest)

	reg := resolve.NewRegistry()
	result := New(testConfig(root)).SeedRegistry(reg)

	var warnings int
	for _, d := range result.Diagnostics {
		if d.Severity == SeverityWarning && d.Code == "duplicate_library_version" {
			warnings++
		}
	}
	if warnings != 1 {
		t.Errorf("duplicate warnings = %d, want 1", warnings)
	}
	if versions := reg.Versions("guava"); len(versions) != 1 {
		t.Errorf("registered versions = %v, want exactly one", versions)
	}
}

func TestFindManifest(t *testing.T) {
	sandboxHome(t)
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "guava"), guavaManifest)

	d := New(testConfig(root))

	m, err := d.FindManifest("GUAVA")
	if err != nil {
		t.Fatalf("FindManifest failed: %v", err)
	}
	if m.Library.Name != "guava" {
		t.Errorf("Library.Name = %s, want guava", m.Library.Name)
	}

	if _, err := d.FindManifest("nonexistent"); err == nil {
		t.Error("expected an error for an unknown library")
	}
}
