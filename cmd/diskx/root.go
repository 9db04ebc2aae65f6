package main

import (
	"github.com/spf13/cobra"
)

var rootConfiguration struct {
	jsonOutput bool
}

var rootCommand = &cobra.Command{
	Use:   "diskx",
	Short: "diskx scans a filesystem and reports disk usage",
	Long: "diskx walks a local or remote directory, aggregates byte and file " +
		"counts up the tree, and can find duplicate files, export a scan, " +
		"or probe free disk space.",
}

func init() {
	flags := rootCommand.PersistentFlags()
	flags.BoolVar(&rootConfiguration.jsonOutput, "json", false, "emit machine-readable JSON instead of a human summary")

	cobra.EnableCommandSorting = false

	rootCommand.AddCommand(
		scanCommand,
		scanRemoteCommand,
		duplicatesCommand,
		exportCommand,
		cacheCommand,
		diskspaceCommand,
		deleteCommand,
	)
}
