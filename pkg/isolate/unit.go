// SPDX-License-Identifier: MPL-2.0

package isolate

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnitClosed is returned from every lookup made after Close.
var ErrUnitClosed = errors.New("loading unit is closed")

type (
	// Unit is an open loading boundary for one library. It resolves
	// symbol and resource lookups according to its Config and caches
	// every symbol it has loaded. The lifecycle is
	// open -> lookups -> Close.
	Unit struct {
		cfg    *Config
		source Source

		// mu serializes Close against in-flight lookups: lookups hold
		// the read side for their full duration, so a lookup either
		// completes before Close takes effect or observes closed.
		mu     sync.RWMutex
		closed bool

		cacheMu sync.Mutex
		cache   map[string]Symbol
		locks   map[string]*sync.Mutex
	}

	// Option adjusts a Unit at open time.
	Option func(*Unit)

	// SymbolNotFoundError reports that neither local artifacts nor the
	// parent scope could resolve a symbol. It is local to one lookup and
	// does not invalidate the unit.
	SymbolNotFoundError struct {
		Symbol  string
		Library string
	}
)

func (e *SymbolNotFoundError) Error() string {
	if e.Library == "" {
		return fmt.Sprintf("symbol %q not found", e.Symbol)
	}
	return fmt.Sprintf("symbol %q not found in %q or its parent scope", e.Symbol, e.Library)
}

// WithSource overrides the unit's local artifact resolution. The
// default is a FileSource over the config's artifact paths.
func WithSource(src Source) Option {
	return func(u *Unit) { u.source = src }
}

// Open builds a live loading unit from a validated Config.
func Open(cfg *Config, opts ...Option) (*Unit, error) {
	if cfg == nil {
		return nil, &ConfigError{Field: "config", Reason: "must not be nil"}
	}
	u := &Unit{
		cfg:   cfg,
		cache: make(map[string]Symbol),
		locks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.source == nil {
		u.source = NewFileSource(cfg.ArtifactPaths...)
	}
	return u, nil
}

// Library returns the name of the library this unit loads.
func (u *Unit) Library() string { return u.cfg.LibraryName }

// IsIsolated reports whether the unit resolves child-first.
func (u *Unit) IsIsolated() bool { return u.cfg.Isolated }

// LoadedCount reports how many symbols the unit currently holds. A
// closed unit holds none.
func (u *Unit) LoadedCount() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.closed {
		return 0
	}
	u.cacheMu.Lock()
	defer u.cacheMu.Unlock()
	return len(u.cache)
}

// Close releases the symbol cache and fails all subsequent lookups with
// ErrUnitClosed. It waits for in-flight lookups and is idempotent.
func (u *Unit) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return nil
	}
	u.closed = true
	u.cache = nil
	u.locks = nil
	return nil
}

// ResolveSymbol resolves name through the unit's policy:
// a cached entry wins; excluded namespaces go to the parent scope
// unconditionally; otherwise isolated units try local artifacts before
// the parent and shared units try the parent before local artifacts.
// Lookups for the same name serialize so resolution runs once per name.
func (u *Unit) ResolveSymbol(name string) (Symbol, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.closed {
		return Symbol{}, ErrUnitClosed
	}

	lock := u.nameLock(name)
	lock.Lock()
	defer lock.Unlock()

	u.cacheMu.Lock()
	sym, ok := u.cache[name]
	u.cacheMu.Unlock()
	if ok {
		return sym, nil
	}

	sym, err := u.lookup(name)
	if err != nil {
		return Symbol{}, err
	}

	u.cacheMu.Lock()
	u.cache[name] = sym
	u.cacheMu.Unlock()
	return sym, nil
}

// ResolveResource locates every match for a non-code asset. Unlike
// symbols, resources combine hits from both sides of the boundary:
// isolated units list local matches before parent matches, shared units
// the reverse. Excluded namespaces consult only the parent.
func (u *Unit) ResolveResource(name string) ([]Resource, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.closed {
		return nil, ErrUnitClosed
	}

	if u.cfg.excludes(name) {
		return u.parentResources(name)
	}

	local, err := u.source.LookupResource(name)
	if err != nil {
		return nil, err
	}
	parent, err := u.parentResources(name)
	if err != nil {
		return nil, err
	}
	if u.cfg.Isolated {
		return append(local, parent...), nil
	}
	return append(parent, local...), nil
}

func (u *Unit) nameLock(name string) *sync.Mutex {
	u.cacheMu.Lock()
	defer u.cacheMu.Unlock()
	l, ok := u.locks[name]
	if !ok {
		l = &sync.Mutex{}
		u.locks[name] = l
	}
	return l
}

func (u *Unit) lookup(name string) (Symbol, error) {
	if u.cfg.excludes(name) {
		sym, ok, err := u.fromParent(name)
		if err != nil {
			return Symbol{}, err
		}
		if !ok {
			return Symbol{}, u.notFound(name)
		}
		return sym, nil
	}

	first, second := u.fromParent, u.fromLocal
	if u.cfg.Isolated {
		first, second = u.fromLocal, u.fromParent
	}
	for _, attempt := range []func(string) (Symbol, bool, error){first, second} {
		sym, ok, err := attempt(name)
		if err != nil {
			return Symbol{}, err
		}
		if ok {
			return sym, nil
		}
	}
	return Symbol{}, u.notFound(name)
}

func (u *Unit) fromLocal(name string) (Symbol, bool, error) {
	sym, ok, err := u.source.LookupSymbol(name)
	if err != nil || !ok {
		return Symbol{}, false, err
	}
	sym.Origin = OriginLocal
	return sym, true, nil
}

// fromParent treats a parent-side SymbolNotFoundError as a plain miss;
// any other parent failure propagates.
func (u *Unit) fromParent(name string) (Symbol, bool, error) {
	if u.cfg.Parent == nil {
		return Symbol{}, false, nil
	}
	sym, err := u.cfg.Parent.ResolveSymbol(name)
	if err != nil {
		var notFound *SymbolNotFoundError
		if errors.As(err, &notFound) {
			return Symbol{}, false, nil
		}
		return Symbol{}, false, err
	}
	sym.Origin = OriginParent
	return sym, true, nil
}

func (u *Unit) parentResources(name string) ([]Resource, error) {
	if u.cfg.Parent == nil {
		return nil, nil
	}
	return u.cfg.Parent.ResolveResource(name)
}

func (u *Unit) notFound(name string) error {
	return &SymbolNotFoundError{Symbol: name, Library: u.cfg.LibraryName}
}
