// Package main is the entry point for the BrowseMate CLI application.
// It lets a user sign in and browse the product catalog from a terminal.
package main

import (
	"browsemate/cli/cmd"
)

func main() {
	cmd.Execute()
}
