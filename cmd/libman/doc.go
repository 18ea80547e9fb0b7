// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for libman.
//
// The command tree is built with cobra and executed through
// charmbracelet/fang for consistent styling, signal handling, and
// version output. Commands load configuration once via initRootConfig
// and render failures through the internal/issue diagnosis pipeline so
// every error surfaces with suggestions and a docs pointer.
package cmd
