// Package main is the entry point for boardctl.
// boardctl is the terminal client for the devsecboard API.
package main

import (
	"os"

	"devsecboard/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
