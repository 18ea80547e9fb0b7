// SPDX-License-Identifier: MPL-2.0

package isolate

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

// countingSource wraps a MemSource and counts symbol lookups, so tests
// can assert resolution ran at most once per name.
type countingSource struct {
	*MemSource
	lookups atomic.Int64
}

func (s *countingSource) LookupSymbol(name string) (Symbol, bool, error) {
	s.lookups.Add(1)
	return s.MemSource.LookupSymbol(name)
}

func openTestUnit(t *testing.T, isolated bool, local Source, parent Scope) *Unit {
	t.Helper()
	opts := []ConfigOption{WithParent(parent)}
	if isolated {
		opts = append(opts, Isolated())
	}
	cfg, err := NewConfig("guava", []string{"/lib/guava"}, opts...)
	if err != nil {
		t.Fatalf("NewConfig failed: %v", err)
	}
	u, err := Open(cfg, WithSource(local))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return u
}

func TestDelegationOrder(t *testing.T) {
	local := NewMemSource().
		AddSymbol("com.example.Shared", "local/Shared").
		AddSymbol("com.example.Only", "local/Only")
	parent := NewMemSource().
		AddSymbol("com.example.Shared", "parent/Shared").
		AddSymbol("runtime.gc", "parent/gc")

	t.Run("shared resolves parent-first", func(t *testing.T) {
		u := openTestUnit(t, false, local, parent)
		sym, err := u.ResolveSymbol("com.example.Shared")
		if err != nil {
			t.Fatalf("ResolveSymbol failed: %v", err)
		}
		if sym.Origin != OriginParent || sym.Location != "parent/Shared" {
			t.Errorf("got %s at %q, want parent copy", sym, sym.Location)
		}
	})

	t.Run("isolated resolves child-first", func(t *testing.T) {
		u := openTestUnit(t, true, local, parent)
		sym, err := u.ResolveSymbol("com.example.Shared")
		if err != nil {
			t.Fatalf("ResolveSymbol failed: %v", err)
		}
		if sym.Origin != OriginLocal || sym.Location != "local/Shared" {
			t.Errorf("got %s at %q, want local copy", sym, sym.Location)
		}
	})

	t.Run("shared falls back to local on parent miss", func(t *testing.T) {
		u := openTestUnit(t, false, local, parent)
		sym, err := u.ResolveSymbol("com.example.Only")
		if err != nil {
			t.Fatalf("ResolveSymbol failed: %v", err)
		}
		if sym.Origin != OriginLocal {
			t.Errorf("Origin = %s, want local", sym.Origin)
		}
	})

	t.Run("isolated falls back to parent on local miss", func(t *testing.T) {
		u := openTestUnit(t, true, NewMemSource(), parent)
		sym, err := u.ResolveSymbol("com.example.Shared")
		if err != nil {
			t.Fatalf("ResolveSymbol failed: %v", err)
		}
		if sym.Origin != OriginParent {
			t.Errorf("Origin = %s, want parent", sym.Origin)
		}
	})

	t.Run("excluded namespace always goes to the parent", func(t *testing.T) {
		isolatedLocal := NewMemSource().AddSymbol("runtime.gc", "local/gc")
		u := openTestUnit(t, true, isolatedLocal, parent)
		sym, err := u.ResolveSymbol("runtime.gc")
		if err != nil {
			t.Fatalf("ResolveSymbol failed: %v", err)
		}
		if sym.Origin != OriginParent || sym.Location != "parent/gc" {
			t.Errorf("got %s at %q, want parent copy despite isolation", sym, sym.Location)
		}
	})

	t.Run("miss everywhere", func(t *testing.T) {
		u := openTestUnit(t, true, local, parent)
		_, err := u.ResolveSymbol("com.example.Nope")
		var notFound *SymbolNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("error = %v, want *SymbolNotFoundError", err)
		}
		if notFound.Symbol != "com.example.Nope" || notFound.Library != "guava" {
			t.Errorf("error fields = %+v", notFound)
		}
	})
}

func TestResolveSymbolCaches(t *testing.T) {
	local := &countingSource{MemSource: NewMemSource().AddSymbol("com.example.Util", "local/Util")}
	u := openTestUnit(t, true, local, nil)

	first, err := u.ResolveSymbol("com.example.Util")
	if err != nil {
		t.Fatalf("ResolveSymbol failed: %v", err)
	}
	second, err := u.ResolveSymbol("com.example.Util")
	if err != nil {
		t.Fatalf("ResolveSymbol failed: %v", err)
	}
	if first != second {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}
	if n := local.lookups.Load(); n != 1 {
		t.Errorf("source consulted %d times, want 1", n)
	}
	if u.LoadedCount() != 1 {
		t.Errorf("LoadedCount = %d, want 1", u.LoadedCount())
	}
}

func TestCloseInvariants(t *testing.T) {
	local := NewMemSource().AddSymbol("com.example.Util", "local/Util")
	u := openTestUnit(t, true, local, nil)

	if _, err := u.ResolveSymbol("com.example.Util"); err != nil {
		t.Fatalf("ResolveSymbol failed: %v", err)
	}
	if err := u.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := u.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}

	if _, err := u.ResolveSymbol("com.example.Util"); !errors.Is(err, ErrUnitClosed) {
		t.Errorf("ResolveSymbol after close = %v, want ErrUnitClosed", err)
	}
	if _, err := u.ResolveResource("config/a.properties"); !errors.Is(err, ErrUnitClosed) {
		t.Errorf("ResolveResource after close = %v, want ErrUnitClosed", err)
	}
	if u.LoadedCount() != 0 {
		t.Errorf("LoadedCount after close = %d, want 0", u.LoadedCount())
	}
}

func TestConcurrentResolutionRunsOncePerName(t *testing.T) {
	local := &countingSource{MemSource: NewMemSource().
		AddSymbol("com.example.A", "local/A").
		AddSymbol("com.example.B", "local/B")}
	u := openTestUnit(t, true, local, nil)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for range 16 {
		for _, name := range []string{"com.example.A", "com.example.B"} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				if _, err := u.ResolveSymbol(name); err != nil {
					t.Errorf("ResolveSymbol(%s) failed: %v", name, err)
				}
			}()
		}
	}
	close(start)
	wg.Wait()

	if n := local.lookups.Load(); n != 2 {
		t.Errorf("source consulted %d times, want once per distinct name", n)
	}
	if u.LoadedCount() != 2 {
		t.Errorf("LoadedCount = %d, want 2", u.LoadedCount())
	}
}

func TestCloseWaitsForInFlightLookups(t *testing.T) {
	local := NewMemSource().AddSymbol("com.example.Util", "local/Util")
	u := openTestUnit(t, true, local, nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Either a complete symbol or a clean closed error.
			sym, err := u.ResolveSymbol("com.example.Util")
			if err == nil {
				if sym.Location != "local/Util" {
					t.Errorf("partial symbol observed: %+v", sym)
				}
			} else if !errors.Is(err, ErrUnitClosed) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	if err := u.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	wg.Wait()
}

func TestResolveResourceCombinesMatches(t *testing.T) {
	local := NewMemSource().AddResource("messages.properties", "local/messages")
	parent := NewMemSource().
		AddResource("messages.properties", "parent/messages").
		AddResource("runtime.tzdata", "parent/tzdata")

	t.Run("isolated lists local first", func(t *testing.T) {
		u := openTestUnit(t, true, local, parent)
		found, err := u.ResolveResource("messages.properties")
		if err != nil {
			t.Fatalf("ResolveResource failed: %v", err)
		}
		if len(found) != 2 || found[0].Location != "local/messages" || found[1].Location != "parent/messages" {
			t.Errorf("found = %+v, want local then parent", found)
		}
	})

	t.Run("shared lists parent first", func(t *testing.T) {
		u := openTestUnit(t, false, local, parent)
		found, err := u.ResolveResource("messages.properties")
		if err != nil {
			t.Fatalf("ResolveResource failed: %v", err)
		}
		if len(found) != 2 || found[0].Location != "parent/messages" || found[1].Location != "local/messages" {
			t.Errorf("found = %+v, want parent then local", found)
		}
	})

	t.Run("excluded namespace consults only the parent", func(t *testing.T) {
		leaky := NewMemSource().AddResource("runtime.tzdata", "local/tzdata")
		u := openTestUnit(t, true, leaky, parent)
		found, err := u.ResolveResource("runtime.tzdata")
		if err != nil {
			t.Fatalf("ResolveResource failed: %v", err)
		}
		if len(found) != 1 || found[0].Location != "parent/tzdata" {
			t.Errorf("found = %+v, want the parent match only", found)
		}
	})
}
