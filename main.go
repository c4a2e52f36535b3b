// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/multisrc/cmd/multisrc"

func main() {
	cmd.Execute()
}
