// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// LockFileName is the name of the resolution snapshot file. It pairs with
// the library manifests the way go.sum pairs with go.mod: a record of what
// one successful pass selected, so hosts can detect drift and skip
// re-resolution when nothing changed.
const LockFileName = "libman.lock.toml"

type (
	// LockFile is the serialized form of a successful resolution pass.
	LockFile struct {
		// Version is the lock file format version.
		Version string `toml:"version"`

		// Generated is when the snapshot was taken.
		Generated time.Time `toml:"generated"`

		// Strategy names the policy the pass ran under.
		Strategy string `toml:"strategy"`

		// LoadOrder lists library names in load order.
		LoadOrder []string `toml:"load_order"`

		// Libraries maps each resolved library name to its locked entry.
		Libraries map[string]LockedLibrary `toml:"libraries"`
	}

	// LockedLibrary is one resolved library in the lock file.
	LockedLibrary struct {
		// Version is the selected concrete version.
		Version string `toml:"version"`

		// EntryPoint is the artifact entry point at lock time.
		EntryPoint string `toml:"entrypoint"`

		// Requesters lists who asked for this library, when known.
		Requesters []string `toml:"requesters,omitempty"`
	}
)

// NewLockFile snapshots a successful resolution result. Passing a failed
// result is an error: a lock must never record a partial load.
func NewLockFile(result *Result, requesters map[string][]string) (*LockFile, error) {
	if !result.OK() {
		return nil, fmt.Errorf("cannot lock a failed resolution")
	}

	lock := &LockFile{
		Version:   "1",
		Generated: time.Now().UTC(),
		Strategy:  result.Strategy.String(),
		Libraries: make(map[string]LockedLibrary, len(result.LoadOrder)),
	}
	for _, lib := range result.LoadOrder {
		lock.LoadOrder = append(lock.LoadOrder, lib.Name)
		lock.Libraries[lib.Name] = LockedLibrary{
			Version:    lib.Version.String(),
			EntryPoint: lib.EntryPoint,
			Requesters: requesters[lib.Name],
		}
	}
	return lock, nil
}

// LoadLockFile reads a lock file from disk. A missing file is not an
// error; it yields nil so callers can treat it as "no snapshot yet".
func LoadLockFile(path string) (*LockFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read lock file: %w", err)
	}

	var lock LockFile
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("failed to parse lock file %s: %w", path, err)
	}
	return &lock, nil
}

// Save writes the lock file, creating parent directories as needed.
func (l *LockFile) Save(path string) error {
	data, err := toml.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to serialize lock file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write lock file: %w", err)
	}
	return nil
}

// Matches reports whether a fresh resolution result selected exactly the
// versions and order this lock recorded.
func (l *LockFile) Matches(result *Result) bool {
	if !result.OK() || len(result.LoadOrder) != len(l.LoadOrder) {
		return false
	}
	for i, lib := range result.LoadOrder {
		if l.LoadOrder[i] != lib.Name {
			return false
		}
		locked, ok := l.Libraries[lib.Name]
		if !ok || locked.Version != lib.Version.String() {
			return false
		}
	}
	return true
}
