// SPDX-License-Identifier: MPL-2.0

// Package config loads and validates the libman configuration file.
//
// Configuration lives in a CUE file validated against an embedded schema
// before being merged into Viper, so defaults, file values, and explicit
// overrides compose in the usual Viper precedence order.
package config
