// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"reflect"
	"testing"

	"libman/internal/config"
	"libman/pkg/library"
	"libman/pkg/resolve"
	"libman/pkg/semver"
)

// withTestConfig swaps the package-level config for one test.
func withTestConfig(t *testing.T, cfg *config.Config) {
	t.Helper()
	orig := appConfig
	appConfig = cfg
	t.Cleanup(func() { appConfig = orig })
}

func TestRequestersOf(t *testing.T) {
	byRequester := map[string][]library.Dependency{
		"plugin-b": {library.NewDependency("guava", semver.MustParseRange("[33.0.0,34.0.0)"), true)},
		"plugin-a": {
			library.NewDependency("guava", semver.MustParseRange("[33.1.0,34.0.0)"), true),
			library.NewDependency("slf4j", semver.MustParseRange("[2.0.0,3.0.0)"), false),
		},
	}

	got := requestersOf(byRequester)
	if want := []string{"plugin-a", "plugin-b"}; !reflect.DeepEqual(got["guava"], want) {
		t.Errorf("requestersOf()[guava] = %v, want %v", got["guava"], want)
	}
	if want := []string{"plugin-a"}; !reflect.DeepEqual(got["slf4j"], want) {
		t.Errorf("requestersOf()[slf4j] = %v, want %v", got["slf4j"], want)
	}
}

func TestParseProvided(t *testing.T) {
	t.Run("parses pairs and canonicalizes names", func(t *testing.T) {
		got, err := parseProvided([]string{"SLF4J=2.0.13", "guava=33.1.0"})
		if err != nil {
			t.Fatalf("parseProvided() error = %v", err)
		}
		if v, ok := got["slf4j"]; !ok || v.String() != "2.0.13" {
			t.Errorf("parseProvided()[slf4j] = %v (ok=%v), want 2.0.13", v, ok)
		}
		if _, ok := got["guava"]; !ok {
			t.Error("parseProvided() should carry guava")
		}
	})

	t.Run("empty input yields nil map", func(t *testing.T) {
		got, err := parseProvided(nil)
		if err != nil || got != nil {
			t.Errorf("parseProvided(nil) = (%v, %v), want (nil, nil)", got, err)
		}
	})

	t.Run("missing equals sign is an error", func(t *testing.T) {
		if _, err := parseProvided([]string{"guava"}); err == nil {
			t.Error("parseProvided() should reject value without =")
		}
	})

	t.Run("invalid version is an error", func(t *testing.T) {
		_, err := parseProvided([]string{"guava=not-a-version"})
		if err == nil {
			t.Fatal("parseProvided() should reject invalid version")
		}
		var ferr *semver.FormatError
		if !errors.As(err, &ferr) {
			t.Errorf("parseProvided() error = %v, want FormatError in chain", err)
		}
	})
}

func TestStrategyFor(t *testing.T) {
	withTestConfig(t, config.DefaultConfig())

	t.Run("flag overrides configured default", func(t *testing.T) {
		got, err := strategyFor("strict")
		if err != nil {
			t.Fatalf("strategyFor() error = %v", err)
		}
		if got != resolve.Strict {
			t.Errorf("strategyFor(strict) = %v, want %v", got, resolve.Strict)
		}
	})

	t.Run("empty flag falls back to config", func(t *testing.T) {
		got, err := strategyFor("")
		if err != nil {
			t.Fatalf("strategyFor() error = %v", err)
		}
		if got != resolve.HighestVersion {
			t.Errorf("strategyFor(\"\") = %v, want %v", got, resolve.HighestVersion)
		}
	})

	t.Run("unknown strategy is an error", func(t *testing.T) {
		if _, err := strategyFor("newest-wins"); err == nil {
			t.Error("strategyFor() should reject unknown strategy names")
		}
	})
}
