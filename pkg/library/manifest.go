// SPDX-License-Identifier: MPL-2.0

package library

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"libman/pkg/cueutil"
	"libman/pkg/semver"
)

// ManifestFileName is the name of a library manifest file.
const ManifestFileName = "libman.cue"

var (
	//go:embed manifest_schema.cue
	manifestSchema string

	// ErrManifestNotFound is returned when a directory holds no libman.cue.
	// Callers can check for it with errors.Is.
	ErrManifestNotFound = errors.New("libman.cue not found")
)

type (
	// Manifest is the parsed libman.cue content. It is the declaration-time
	// counterpart of Library: what an artifact says about itself before the
	// resolver has seen it.
	Manifest struct {
		// Name is the declared library identity.
		Name string `json:"name"`
		// Version is the declared concrete version string.
		Version string `json:"version"`
		// EntryPoint identifies the artifact entry point.
		EntryPoint string `json:"entrypoint"`
		// Description summarizes the library (optional).
		Description string `json:"description,omitempty"`
		// Requires declares dependencies on other libraries (optional).
		Requires []Requirement `json:"requires,omitempty"`
		// Isolation configures the loading policy (optional).
		Isolation *IsolationDecl `json:"isolation,omitempty"`

		// FilePath records where this manifest was loaded from (not in CUE).
		FilePath string `json:"-"`
	}

	// Requirement is the textual form of a Dependency as written in a
	// manifest.
	Requirement struct {
		Name     string `json:"name"`
		Range    string `json:"range"`
		Optional bool   `json:"optional,omitempty"`
	}

	// IsolationDecl is the manifest's loading policy block.
	IsolationDecl struct {
		Isolated           bool     `json:"isolated,omitempty"`
		Artifacts          []string `json:"artifacts,omitempty"`
		ExcludedNamespaces []string `json:"excluded_namespaces,omitempty"`
	}

	// ParseError reports a manifest that could not be parsed or validated
	// against the schema.
	ParseError struct {
		Path string
		Err  error
	}
)

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid manifest %s: %s", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseManifest reads and parses a libman.cue file.
func ParseManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest at %s: %w", path, err)
	}
	return ParseManifestBytes(data, path)
}

// ParseManifestBytes parses manifest content from bytes using the embedded
// schema: compile schema, unify with user data, validate and decode.
func ParseManifestBytes(data []byte, path string) (*Manifest, error) {
	result, err := cueutil.ParseAndDecodeString[Manifest](
		manifestSchema,
		data,
		"#Manifest",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	m := result.Value
	m.FilePath = path
	return m, nil
}

// LoadManifestDir parses the libman.cue inside a library directory.
// Returns ErrManifestNotFound if the directory has none.
func LoadManifestDir(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", dir, ErrManifestNotFound)
		}
		return nil, fmt.Errorf("failed to check manifest at %s: %w", path, err)
	}
	return ParseManifest(path)
}

// Library converts the manifest into a resolved Library value, parsing the
// declared version and requirement ranges. Range or version syntax errors
// surface as semver.FormatError.
func (m *Manifest) Library() (Library, error) {
	version, err := semver.Parse(m.Version)
	if err != nil {
		return Library{}, fmt.Errorf("manifest %s: %w", m.FilePath, err)
	}

	lib, err := New(m.Name, version, m.EntryPoint)
	if err != nil {
		return Library{}, fmt.Errorf("manifest %s: %w", m.FilePath, err)
	}

	deps, err := m.Dependencies()
	if err != nil {
		return Library{}, err
	}
	lib.Requires = deps
	return lib, nil
}

// Dependencies parses the manifest's requirements into Dependency values.
func (m *Manifest) Dependencies() ([]Dependency, error) {
	if len(m.Requires) == 0 {
		return nil, nil
	}

	deps := make([]Dependency, 0, len(m.Requires))
	for i, req := range m.Requires {
		r, err := semver.ParseRange(req.Range)
		if err != nil {
			return nil, fmt.Errorf("manifest %s: requires[%d]: %w", m.FilePath, i, err)
		}
		deps = append(deps, NewDependency(req.Name, r, !req.Optional))
	}
	return deps, nil
}

// ArtifactPaths resolves the declared artifact locations relative to the
// manifest's directory. A manifest without an isolation block or artifact
// list yields nil.
func (m *Manifest) ArtifactPaths() []string {
	if m.Isolation == nil || len(m.Isolation.Artifacts) == 0 {
		return nil
	}

	base := filepath.Dir(m.FilePath)
	paths := make([]string, 0, len(m.Isolation.Artifacts))
	for _, a := range m.Isolation.Artifacts {
		native := filepath.FromSlash(a)
		if !filepath.IsAbs(native) {
			native = filepath.Join(base, native)
		}
		paths = append(paths, native)
	}
	return paths
}

// Isolated reports the manifest's declared isolation flag.
func (m *Manifest) Isolated() bool {
	return m.Isolation != nil && m.Isolation.Isolated
}
