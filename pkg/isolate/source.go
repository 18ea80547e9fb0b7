// SPDX-License-Identifier: MPL-2.0

package isolate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type (
	// Origin records which side of the isolation boundary a symbol was
	// resolved from.
	Origin int

	// Symbol is one resolved entry in a Unit's symbol table. Codeless
	// entries mark namespaces that carry no loadable code of their own.
	Symbol struct {
		Name     string
		Origin   Origin
		Location string
		Codeless bool
	}

	// Resource is a located non-code asset.
	Resource struct {
		Name     string
		Location string
	}

	// Source performs local artifact resolution for a Unit. Lookups
	// report a miss with ok=false; errors are reserved for genuine
	// failures (unreadable artifacts, invalid names).
	Source interface {
		LookupSymbol(name string) (sym Symbol, ok bool, err error)
		LookupResource(name string) ([]Resource, error)
	}
)

const (
	OriginLocal Origin = iota
	OriginParent
)

func (o Origin) String() string {
	switch o {
	case OriginLocal:
		return "local"
	case OriginParent:
		return "parent"
	default:
		return fmt.Sprintf("origin(%d)", int(o))
	}
}

func (s Symbol) String() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.Origin)
}

// FileSource resolves symbols and resources against a set of artifact
// directories. A dotted symbol name maps to a relative path
// ("com.example.Util" -> "com/example/Util"); the first root containing
// the entry wins. Directory entries are codeless.
type FileSource struct {
	roots []string
}

// NewFileSource builds a Source over the given artifact directories,
// searched in order.
func NewFileSource(roots ...string) *FileSource {
	return &FileSource{roots: roots}
}

func (s *FileSource) LookupSymbol(name string) (Symbol, bool, error) {
	rel, err := symbolPath(name)
	if err != nil {
		return Symbol{}, false, err
	}
	for _, root := range s.roots {
		path := filepath.Join(root, rel)
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Symbol{}, false, fmt.Errorf("looking up symbol %q: %w", name, err)
		}
		return Symbol{
			Name:     name,
			Location: path,
			Codeless: info.IsDir(),
		}, true, nil
	}
	return Symbol{}, false, nil
}

func (s *FileSource) LookupResource(name string) ([]Resource, error) {
	rel, err := resourcePath(name)
	if err != nil {
		return nil, err
	}
	var found []Resource
	for _, root := range s.roots {
		path := filepath.Join(root, rel)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("looking up resource %q: %w", name, err)
		}
		found = append(found, Resource{Name: name, Location: path})
	}
	return found, nil
}

func symbolPath(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("symbol name must not be empty")
	}
	rel := strings.ReplaceAll(name, ".", string(filepath.Separator))
	return checkWithinRoot(name, rel)
}

func resourcePath(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("resource name must not be empty")
	}
	return checkWithinRoot(name, filepath.FromSlash(name))
}

// checkWithinRoot rejects names whose path form would escape the
// artifact directory.
func checkWithinRoot(name, rel string) (string, error) {
	clean := filepath.Clean(rel)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("name %q escapes the artifact root", name)
	}
	return clean, nil
}

// MemSource is an in-memory Source. It also implements Scope, so tests
// and embedders can use one directly as a parent.
type MemSource struct {
	symbols   map[string]Symbol
	resources map[string][]Resource
}

// NewMemSource returns an empty in-memory source.
func NewMemSource() *MemSource {
	return &MemSource{
		symbols:   make(map[string]Symbol),
		resources: make(map[string][]Resource),
	}
}

// AddSymbol registers a code symbol at the given location.
func (s *MemSource) AddSymbol(name, location string) *MemSource {
	s.symbols[name] = Symbol{Name: name, Location: location}
	return s
}

// AddCodeless registers a codeless namespace entry.
func (s *MemSource) AddCodeless(name, location string) *MemSource {
	s.symbols[name] = Symbol{Name: name, Location: location, Codeless: true}
	return s
}

// AddResource registers a located resource under name.
func (s *MemSource) AddResource(name, location string) *MemSource {
	s.resources[name] = append(s.resources[name], Resource{Name: name, Location: location})
	return s
}

func (s *MemSource) LookupSymbol(name string) (Symbol, bool, error) {
	sym, ok := s.symbols[name]
	return sym, ok, nil
}

func (s *MemSource) LookupResource(name string) ([]Resource, error) {
	return s.resources[name], nil
}

// ResolveSymbol lets a MemSource stand in as a parent Scope.
func (s *MemSource) ResolveSymbol(name string) (Symbol, error) {
	sym, ok := s.symbols[name]
	if !ok {
		return Symbol{}, &SymbolNotFoundError{Symbol: name}
	}
	return sym, nil
}

// ResolveResource lets a MemSource stand in as a parent Scope.
func (s *MemSource) ResolveResource(name string) ([]Resource, error) {
	return s.resources[name], nil
}
