// ABOUTME: Entry point for the dairy CLI
// ABOUTME: Terminal client for the dairy-management billing API

package main

import (
	"os"

	"github.com/dhruveshrana22/dairy-management-by-demo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
