// Package main implements the go-dataflow CLI (gdf).
// It analyzes Java method bodies for constant values, live variables
// and dead code.
package main

import (
	"os"

	"github.com/l3aro/go-dataflow/cmd/gdf/commands"
)

var version = "dev"

func main() {
	commands.RootCmd.Version = version
	commands.RootCmd.SetVersionTemplate(`gdf version {{.Version}}
`)

	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
