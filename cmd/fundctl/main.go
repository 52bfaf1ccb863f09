// Package main is the entry point for the fundctl CLI.
package main

import (
	"os"

	"github.com/segyhp/fund-ledger/cmd/fundctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
