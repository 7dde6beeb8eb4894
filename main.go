// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/ontoreg/ontoreg/cmd/ontoreg"

func main() {
	cmd.Execute()
}
