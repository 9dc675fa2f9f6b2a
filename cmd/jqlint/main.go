// Package main provides the jqlint command.
package main

import (
	"os"

	"github.com/leapstack-labs/jqlint/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
