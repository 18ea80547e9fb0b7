// SPDX-License-Identifier: MPL-2.0

// Package platform centralizes the runtime.GOOS name constants used for
// platform-specific branching, such as picking the per-OS config
// directory.
package platform
