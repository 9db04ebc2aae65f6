package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diskx/diskx/internal/export"
	"github.com/diskx/diskx/internal/scanner"
)

var exportConfiguration struct {
	topN int
}

var exportCommand = &cobra.Command{
	Use:   "export <path>",
	Short: "Scan a directory and export the tree as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	flags := exportCommand.Flags()
	flags.IntVar(&exportConfiguration.topN, "top", 0, "flatten to the N largest nodes instead of the full tree (0 = full tree)")
}

func runExport(cmd *cobra.Command, args []string) error {
	opts := scanner.DefaultOptions(args[0])
	s := scanner.NewScanner(opts)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range s.Events.Events() {
		}
	}()

	result, err := s.Scan(context.Background())
	s.Events.Close()
	<-done
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	var exportOpts export.Options
	if exportConfiguration.topN > 0 {
		n := exportConfiguration.topN
		exportOpts.TopN = &n
	}

	data, err := export.Export(result.Tree, exportOpts)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
