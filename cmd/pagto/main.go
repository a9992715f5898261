// Package main is the entry point for the pagto CLI.
package main

import (
	"os"

	"pagto/cmd/pagto/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
