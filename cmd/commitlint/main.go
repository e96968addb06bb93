// Package main is the entry point for the commitlint CLI.
//
// All logic lives in the commands package.
package main

import (
	"os"

	"github.com/JNZader/commitlint/cmd/commitlint/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(commands.ExitCode(err))
	}
}
