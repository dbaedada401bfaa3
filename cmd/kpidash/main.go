// Package main is the kpidash command.
package main

import (
	"os"

	"github.com/shopfloor/kpidash/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
