// main is the entry point for the supplychain CLI.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/ne3mer/supplychainweb/cmd"
	"github.com/ne3mer/supplychainweb/internal/store"
)

func main() {
	code := run()
	os.Exit(code)
}

// run executes the command tree and closes the store before main exits.
func run() int {
	defer store.CloseStores()

	if err := cmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
