// Package main is the entry point for the modalform CLI.
package main

import (
	"fmt"
	"os"

	"github.com/goliatone/go-modalform/cmd/modalform/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
