package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/diskx/diskx/internal/cache"
)

var cacheCommand = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the on-disk scan cache",
}

var cacheShowCommand = &cobra.Command{
	Use:   "show <path>",
	Short: "Show cache status for a previously scanned root",
	Args:  cobra.ExactArgs(1),
	RunE:  runCacheShow,
}

var cacheClearCommand = &cobra.Command{
	Use:   "clear <path>",
	Short: "Remove the cache entry for a root",
	Args:  cobra.ExactArgs(1),
	RunE:  runCacheClear,
}

func init() {
	cacheCommand.AddCommand(cacheShowCommand, cacheClearCommand)
}

func runCacheShow(cmd *cobra.Command, args []string) error {
	store := cache.NewStore(cache.DefaultDir())
	env, ok := store.Load(args[0])
	if !ok {
		fmt.Println("no cache entry")
		return nil
	}

	age := time.Since(time.Unix(env.ScanTime, 0))
	valid := env.Valid(args[0], cache.MaxAge)
	fmt.Printf("entry %s: scanned %s ago, valid=%v, %d nodes, %d files, %d bytes\n",
		env.EntryID, age.Round(time.Second), valid, len(env.Nodes), env.TotalFiles, env.TotalSize)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	store := cache.NewStore(cache.DefaultDir())
	if err := store.Clear(args[0]); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	fmt.Println("cleared")
	return nil
}
