package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/diskx/diskx/internal/cache"
	"github.com/diskx/diskx/internal/config"
	"github.com/diskx/diskx/internal/progress"
	"github.com/diskx/diskx/internal/scanner"
)

var scanConfiguration struct {
	maxDepth   int
	exclude    []string
	crossMount bool
	noCache    bool
}

var scanCommand = &cobra.Command{
	Use:   "scan <path>",
	Short: "Scan a local directory and report its aggregated size",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	flags := scanCommand.Flags()
	flags.IntVar(&scanConfiguration.maxDepth, "max-depth", 0, "limit descent depth (0 = unlimited)")
	flags.StringSliceVar(&scanConfiguration.exclude, "exclude", nil, "glob pattern to exclude (repeatable)")
	flags.BoolVar(&scanConfiguration.crossMount, "cross-mount", false, "descend across filesystem mount boundaries")
	flags.BoolVar(&scanConfiguration.noCache, "no-cache", false, "skip the on-disk scan cache")
}

func runScan(cmd *cobra.Command, args []string) error {
	root := args[0]
	store := cache.NewStore(cache.DefaultDir())

	if !scanConfiguration.noCache {
		if env, ok := store.LoadValid(root, cache.MaxAge); ok {
			if tr, ok := env.ToTree(); ok {
				return printScanResult(scanner.Result{
					Tree:       tr,
					TotalFiles: env.TotalFiles,
					TotalSize:  env.TotalSize,
				}, true)
			}
		}
	}

	// Settings on disk (~/.config/diskx/settings.json) seed the defaults;
	// flags the user actually passed on this invocation take precedence.
	opts := config.Get().ToScanOptions(root)
	if cmd.Flags().Changed("cross-mount") {
		opts.CrossMount = scanConfiguration.crossMount
	}
	if cmd.Flags().Changed("exclude") {
		opts.ExcludePatterns = scanConfiguration.exclude
	}
	if scanConfiguration.maxDepth > 0 {
		opts = opts.WithMaxDepth(scanConfiguration.maxDepth)
	}

	s := scanner.NewScanner(opts)
	var cancel atomic.Bool
	s.Cancel = &cancel

	done := make(chan struct{})
	go drainScanEvents(s.Events, done)

	result, err := s.Scan(context.Background())
	s.Events.Close()
	<-done
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	if !scanConfiguration.noCache {
		if err := store.Save(result.Tree, root); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to write scan cache: %v\n", err)
		}
	}

	return printScanResult(result, false)
}

func drainScanEvents(ch *progress.Channel, done chan<- struct{}) {
	defer close(done)
	for ev := range ch.Events() {
		if ev.Kind == progress.Scanning {
			fmt.Printf("\rscanning... %d files, %s\r", ev.FilesFound, humanize.Bytes(uint64(ev.BytesProcessed)))
		}
	}
}

func printScanResult(result scanner.Result, fromCache bool) error {
	if rootConfiguration.jsonOutput {
		out := struct {
			TotalFiles int64 `json:"total_files"`
			TotalSize  int64 `json:"total_size"`
			ScanTimeMs int64 `json:"scan_time_ms"`
			FromCache  bool  `json:"from_cache"`
		}{result.TotalFiles, result.TotalSize, result.ScanTimeMs, fromCache}
		data, err := json.Marshal(out)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	source := "fresh scan"
	if fromCache {
		source = "cache"
	}
	fmt.Printf("\n%s: %s across %s files (%s)\n",
		source, humanize.Bytes(uint64(result.TotalSize)), humanize.Comma(result.TotalFiles),
		time.Duration(result.ScanTimeMs)*time.Millisecond)
	return nil
}
