// SPDX-License-Identifier: MPL-2.0

// Package discovery scans the filesystem for library manifests and seeds
// the resolver's registry. A scan never aborts on a single bad manifest:
// per-file failures are recorded as diagnostics and returned to the
// caller for consistent rendering.
package discovery
