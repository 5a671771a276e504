// The main package for the parl-scraper executable.
package main

import (
	"github.com/polidle/parl-scraper/cmd"
)

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
