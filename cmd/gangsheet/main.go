// GangSheet - Transfer Print Ganging Planner
//
// A command line tool that gangs pending transfer print tasks onto shared
// production sheets and routes each committed gang to a LAY column.
//
// Build:
//   go build -o gangsheet ./cmd/gangsheet

package main

import (
	"os"

	"github.com/piwi3910/GangSheet/internal/cli"
)

func main() {
	if err := cli.BuildCLI().Execute(); err != nil {
		os.Exit(1)
	}
}
