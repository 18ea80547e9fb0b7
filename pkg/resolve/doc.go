// SPDX-License-Identifier: MPL-2.0

// Package resolve implements the multi-source dependency resolver: it
// aggregates library requirements from many requesters, intersects their
// version ranges per library name, selects concrete versions according to a
// pluggable strategy, and computes a topologically valid load order.
//
// The installed-library set lives in an explicit Registry that callers
// construct and pass in; the resolver itself holds no global state, so
// unrelated resolution passes can run in parallel against the same
// registry.
package resolve
