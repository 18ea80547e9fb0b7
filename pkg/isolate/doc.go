// SPDX-License-Identifier: MPL-2.0

// Package isolate loads a library's artifacts behind an isolation
// boundary. A Config describes the loading policy for one library
// (artifact locations, parent scope, isolation flag, excluded
// namespaces); a Unit executes that policy, resolving symbol and
// resource lookups either parent-first (shared) or child-first
// (isolated) and memoizing every symbol it has loaded.
//
// Units are safe for concurrent use. Lookups for the same symbol name
// serialize so that resolution happens at most once per name; lookups
// for distinct names proceed without contention.
package isolate
