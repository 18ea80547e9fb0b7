// SPDX-License-Identifier: MPL-2.0

// Command libman is the runtime library dependency manager CLI.
package main

import cmd "libman/cmd/libman"

func main() {
	cmd.Execute()
}
