package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/diskx/diskx/internal/config"
	"github.com/diskx/diskx/internal/duplicates"
)

var duplicatesConfiguration struct {
	minSize       int64
	includeHidden bool
}

var duplicatesCommand = &cobra.Command{
	Use:   "duplicates <path>",
	Short: "Find byte-identical duplicate files under a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runDuplicates,
}

func init() {
	flags := duplicatesCommand.Flags()
	flags.Int64Var(&duplicatesConfiguration.minSize, "min-size", 1024, "minimum file size in bytes to consider")
	flags.BoolVar(&duplicatesConfiguration.includeHidden, "include-hidden", false, "include dotfiles")
}

func runDuplicates(cmd *cobra.Command, args []string) error {
	d := duplicates.NewDetector(args[0])

	// Settings on disk seed the defaults; flags the user actually passed
	// on this invocation take precedence.
	d.Config = config.Get().ToDuplicatesConfig()
	if cmd.Flags().Changed("min-size") {
		d.Config.MinSize = duplicatesConfiguration.minSize
	}
	if cmd.Flags().Changed("include-hidden") {
		d.Config.IncludeHidden = duplicatesConfiguration.includeHidden
	}
	var cancel atomic.Bool
	d.Cancel = &cancel

	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range d.Events.Events() {
			fmt.Printf("\r%s (%d/%d)\r", ev.Phase, ev.Current, ev.Total)
		}
	}()

	result, err := d.Find(context.Background())
	d.Events.Close()
	<-done
	if err != nil {
		return fmt.Errorf("duplicates: %w", err)
	}

	if rootConfiguration.jsonOutput {
		data, err := json.Marshal(result)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("\nfound %d duplicate groups, %d reclaimable files, %s wasted\n",
		len(result.Groups), result.TotalDuplicates, humanize.Bytes(uint64(result.WastedSpace)))
	for _, g := range result.Groups {
		fmt.Printf("  %s (%s each, %d copies)\n", g.Hash[:12], humanize.Bytes(uint64(g.Size)), len(g.Members))
		for _, m := range g.Members {
			fmt.Printf("    %s\n", m.Path)
		}
	}
	return nil
}
