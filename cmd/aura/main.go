// Package main is the entry point for the aura CLI.
package main

import (
	"os"

	"github.com/aura-platform/aura-cli/cmd/aura/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
