// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/vfsh/vfsh/cmd/vfsh"

func main() {
	cmd.Execute()
}
