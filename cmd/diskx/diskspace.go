package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/diskx/diskx/internal/diskspace"
)

var diskspaceCommand = &cobra.Command{
	Use:   "diskspace <path>",
	Short: "Report total/used/available bytes for a path's mount point",
	Args:  cobra.ExactArgs(1),
	RunE:  runDiskspace,
}

func runDiskspace(cmd *cobra.Command, args []string) error {
	info, err := diskspace.Probe(args[0])
	if err != nil {
		return fmt.Errorf("diskspace: %w", err)
	}

	fmt.Printf("%s: %s used of %s (%s available) — %.1f%% used\n",
		info.MountPoint,
		humanize.Bytes(info.Used), humanize.Bytes(info.Total), humanize.Bytes(info.Available),
		info.UsagePercent())
	return nil
}
