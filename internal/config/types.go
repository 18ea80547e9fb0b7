// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"libman/pkg/resolve"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidSearchPath is the sentinel error wrapped by InvalidSearchPathError.
	ErrInvalidSearchPath = errors.New("invalid search path")
	// ErrInvalidStrategyName is the sentinel error wrapped by InvalidStrategyNameError.
	ErrInvalidStrategyName = errors.New("invalid strategy name")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// SearchPath is a filesystem path scanned for library manifests.
	// A valid path must be non-empty and not whitespace-only.
	SearchPath string

	// InvalidSearchPathError is returned when a SearchPath value is
	// empty or whitespace-only. It wraps ErrInvalidSearchPath for errors.Is().
	InvalidSearchPathError struct {
		Value SearchPath
	}

	// StrategyName is the textual form of a resolution strategy.
	// The zero value ("") is valid and means "use the built-in default".
	StrategyName string

	// InvalidStrategyNameError is returned when a StrategyName does not
	// parse to a known strategy. It wraps ErrInvalidStrategyName for errors.Is().
	InvalidStrategyNameError struct {
		Value StrategyName
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// SearchPaths lists directories scanned for library manifests.
		SearchPaths []SearchPath `json:"search_paths" mapstructure:"search_paths"`
		// DefaultStrategy names the resolution strategy applied when no
		// flag overrides it.
		DefaultStrategy StrategyName `json:"default_strategy" mapstructure:"default_strategy"`
		// ExcludedNamespaces adds namespace prefixes delegated to the
		// parent scope on top of the built-in defaults.
		ExcludedNamespaces []string `json:"excluded_namespaces" mapstructure:"excluded_namespaces"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme.
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// String returns the string representation of the SearchPath.
func (p SearchPath) String() string { return string(p) }

// IsValid returns whether the SearchPath is valid.
// A valid path must be non-empty and not whitespace-only.
func (p SearchPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidSearchPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidSearchPathError.
func (e *InvalidSearchPathError) Error() string {
	return fmt.Sprintf("invalid search path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidSearchPath for errors.Is() compatibility.
func (e *InvalidSearchPathError) Unwrap() error { return ErrInvalidSearchPath }

// String returns the string representation of the StrategyName.
func (n StrategyName) String() string { return string(n) }

// Strategy parses the name into a resolution strategy. The zero value
// yields the resolver's default.
func (n StrategyName) Strategy() (resolve.Strategy, error) {
	if n == "" {
		return resolve.HighestVersion, nil
	}
	s, ok := resolve.ParseStrategy(string(n))
	if !ok {
		return 0, &InvalidStrategyNameError{Value: n}
	}
	return s, nil
}

// IsValid returns whether the StrategyName parses to a known strategy.
// The zero value ("") is valid.
func (n StrategyName) IsValid() (bool, []error) {
	if _, err := n.Strategy(); err != nil {
		return false, []error{&InvalidStrategyNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidStrategyNameError.
func (e *InvalidStrategyNameError) Error() string {
	return fmt.Sprintf("invalid strategy name %q (valid: highest-version, first-declared, strict, framework-provided)", e.Value)
}

// Unwrap returns ErrInvalidStrategyName for errors.Is() compatibility.
func (e *InvalidStrategyNameError) Unwrap() error { return ErrInvalidStrategyName }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	return c.ColorScheme.IsValid()
}

// IsValid returns whether the Config has valid fields.
// It delegates to each SearchPath's IsValid(), DefaultStrategy.IsValid(),
// and UI.IsValid(). ExcludedNamespaces entries need no validation beyond
// non-emptiness, checked here directly.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for _, p := range c.SearchPaths {
		if valid, fieldErrs := p.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if valid, fieldErrs := c.DefaultStrategy.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for i, ns := range c.ExcludedNamespaces {
		if strings.TrimSpace(ns) == "" {
			errs = append(errs, fmt.Errorf("excluded_namespaces[%d]: must be non-empty", i))
		}
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		SearchPaths:        []SearchPath{},
		DefaultStrategy:    "highest-version",
		ExcludedNamespaces: []string{},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
