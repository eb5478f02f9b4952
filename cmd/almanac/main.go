// Package main is the entry point for the almanac command-line tool.
package main

import (
	"os"

	"github.com/keyxmakerx/almanac/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
